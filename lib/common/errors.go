package common

import "errors"

// ErrOptimizerTimeout is returned by the plan generator when optimization
// does not finish within the configured wall-clock budget. The plan value
// is undefined in that case and callers must not use it.
var ErrOptimizerTimeout = errors.New("optimizer timed out")

// ExecutorError is the uniform failure kind of the execution engine. Any
// error raised anywhere inside an executor tree is wrapped into this type
// exactly once, so callers see a single error variant regardless of which
// operator failed.
type ExecutorError struct {
	cause error
}

func NewExecutorError(cause error) *ExecutorError {
	var ee *ExecutorError
	if errors.As(cause, &ee) {
		return ee
	}
	return &ExecutorError{cause: cause}
}

func (e *ExecutorError) Error() string {
	return "executor error: " + e.cause.Error()
}

func (e *ExecutorError) Unwrap() error {
	return e.cause
}
