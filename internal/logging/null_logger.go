package logging

// NullLogger discards all messages.
type NullLogger struct{}

// NewNullLogger creates a NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(string, ...interface{}) {}
func (l *NullLogger) Info(string, ...interface{})    {}
func (l *NullLogger) Error(string, ...interface{})   {}
