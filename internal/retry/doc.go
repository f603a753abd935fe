// Package retry re-runs database operations that fail with transient errors.
//
// An Executor combines an ErrorClassifier, which decides whether a failure is
// worth another attempt, with a BackoffStrategy, which decides how long to
// wait before it:
//
//	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return store.replace(ctx, result)
//	})
//
// Executors are safe for concurrent use. WithOnRetry returns a copy, so each
// caller can attach its own callback.
package retry
