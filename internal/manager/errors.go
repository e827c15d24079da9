package manager

import "errors"

// validationError signals request input rejected before reaching the engine,
// for 400 mapping.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

// ErrValidation constructs a validationError.
func ErrValidation(msg string) error { return validationError{msg: msg} }

// IsValidation reports whether err indicates invalid request input.
func IsValidation(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// inferenceError wraps an engine fault or deadline expiry, for 500 mapping.
// The wrapped detail is logged server-side and never sent to callers.
type inferenceError struct{ err error }

func (e inferenceError) Error() string { return "inference failed" }
func (e inferenceError) Unwrap() error { return e.err }

// ErrInference constructs an inferenceError wrapping err.
func ErrInference(err error) error { return inferenceError{err: err} }

// IsInference reports whether err indicates the engine failed to produce a
// result.
func IsInference(err error) bool {
	var ie inferenceError
	return errors.As(err, &ie)
}
