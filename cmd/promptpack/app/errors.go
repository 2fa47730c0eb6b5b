package app

import "errors"

// reportedError marks an error whose notice the user has already seen.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// IsReported reports whether err was already shown to the user by Run.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
