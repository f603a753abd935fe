// Package logging provides the aipx.Logger implementations.
//
//   - ConsoleLogger: plain lines with [VERBOSE]/[ERROR] prefixes, for people
//   - JSONLogger: one logrus JSON object per line, for log collectors
//   - NullLogger: discards everything, for tests
//
// New picks one from the --log-format value. All are safe for concurrent use.
package logging
