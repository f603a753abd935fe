package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyOperation struct {
	calls    int
	failures int
	err      error
}

func (f *flakyOperation) run(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func fastBackoff(attempts int) *ExponentialBackoff {
	return NewExponentialBackoff(attempts, WithInitialDelay(time.Millisecond), WithMaxDelay(2*time.Millisecond), WithJitter(0))
}

var connFailure = &pgconn.PgError{Code: "08006", Message: "connection failure"}

func TestExecutor_SucceedsFirstTime(t *testing.T) {
	op := &flakyOperation{}
	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)).Execute(context.Background(), op.run)
	require.NoError(t, err)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_RetriesTransient(t *testing.T) {
	op := &flakyOperation{failures: 2, err: connFailure}
	var attempts []int
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)).
		WithOnRetry(func(attempt int, err error, _ time.Duration) {
			assert.ErrorIs(t, err, connFailure)
			attempts = append(attempts, attempt)
		})

	require.NoError(t, executor.Execute(context.Background(), op.run))
	assert.Equal(t, 3, op.calls)
	assert.Equal(t, []int{0, 1}, attempts)
}

func TestExecutor_StopsOnFatal(t *testing.T) {
	fatal := &pgconn.PgError{Code: "23505", Message: "duplicate key"}
	op := &flakyOperation{failures: 5, err: fatal}

	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(3)).Execute(context.Background(), op.run)
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_ExhaustsBudget(t *testing.T) {
	op := &flakyOperation{failures: 10, err: connFailure}

	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(2)).Execute(context.Background(), op.run)
	assert.ErrorIs(t, err, connFailure)
	assert.Equal(t, 3, op.calls)
}

func TestExecutor_NoRetriesBudget(t *testing.T) {
	op := &flakyOperation{failures: 10, err: connFailure}

	err := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(0)).Execute(context.Background(), op.run)
	assert.Error(t, err)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	strategy := NewExponentialBackoff(5, WithInitialDelay(time.Hour), WithMaxDelay(time.Hour), WithJitter(0))
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(int, error, time.Duration) { cancel() })

	op := &flakyOperation{failures: 10, err: connFailure}
	err := executor.Execute(ctx, op.run)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_WithOnRetryCopies(t *testing.T) {
	base := NewExecutor(NewPostgreSQLErrorClassifier(), fastBackoff(1))
	withCallback := base.WithOnRetry(func(int, error, time.Duration) {})
	assert.Nil(t, base.onRetry)
	assert.NotNil(t, withCallback.onRetry)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fastBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(NewPostgreSQLErrorClassifier(), nil) })
}

type verboseRecorder struct{ lines []string }

func (r *verboseRecorder) Verbose(format string, _ ...interface{}) { r.lines = append(r.lines, format) }
func (r *verboseRecorder) Info(string, ...interface{})             {}
func (r *verboseRecorder) Error(string, ...interface{})            {}

func TestNewDefaultExecutor_LogsRetries(t *testing.T) {
	logger := &verboseRecorder{}
	executor := NewDefaultExecutor(logger, "store")
	executor.strategy = fastBackoff(3)

	op := &flakyOperation{failures: 1, err: connFailure}
	require.NoError(t, executor.Execute(context.Background(), op.run))
	assert.Len(t, logger.lines, 1)
}
