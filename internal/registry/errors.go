package registry

import "errors"

// ErrNotLoaded is returned by Active before the first successful promotion.
// The HTTP layer maps it to 503 so clients can distinguish "warming up" from
// a hard failure.
var ErrNotLoaded = errors.New("no model loaded")

// reloadError wraps any failure to load/validate/promote a candidate
// artifact. It never reaches request callers; the watcher logs it and keeps
// serving the previous engine.
type reloadError struct{ err error }

func (e reloadError) Error() string { return "reload rejected: " + e.err.Error() }
func (e reloadError) Unwrap() error { return e.err }

// IsReloadError reports whether err came from a rejected reload.
func IsReloadError(err error) bool {
	var re reloadError
	return errors.As(err, &re)
}
