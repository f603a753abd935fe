package retry

import (
	"context"
	"time"

	"github.com/vvka-141/aipx/pkg/aipx"
)

// Executor runs an operation, retrying transient failures with backoff.
// WithOnRetry returns a copy; the receiver is never modified.
type Executor struct {
	classifier aipx.ErrorClassifier
	strategy   aipx.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates an Executor. Panics if classifier or strategy is nil.
func NewExecutor(classifier aipx.ErrorClassifier, strategy aipx.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// NewDefaultExecutor returns a PostgreSQL executor with the default retry
// budget that reports each retry to logger at verbose level.
func NewDefaultExecutor(logger aipx.Logger, operation string) *Executor {
	strategy := NewExponentialBackoff(aipx.DefaultRetryMaxAttempts,
		WithInitialDelay(aipx.DefaultRetryInitialDelay),
		WithMaxDelay(aipx.DefaultRetryMaxDelay),
	)
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), strategy)
	if logger == nil {
		return executor
	}
	return executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Verbose("%s failed (%v), retry %d in %s", operation, err, attempt+1, delay.Round(time.Millisecond))
	})
}

// WithOnRetry returns a copy of e that calls callback before every retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails fatally, the retry budget
// is spent or ctx is done. It returns the last error seen.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	maxAttempts := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
