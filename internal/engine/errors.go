package engine

import "errors"

// ErrEmptyText is returned by Predict for empty or whitespace-only input.
// Callers are expected to validate before calling; this is the backstop.
var ErrEmptyText = errors.New("empty text")

// badArtifactError signals an artifact that parsed or validated incorrectly,
// as opposed to an I/O failure reading it.
type badArtifactError struct{ msg string }

func (e badArtifactError) Error() string { return "bad artifact: " + e.msg }

// IsBadArtifact reports whether err indicates a corrupt or incompatible
// artifact (rather than a transient read failure).
func IsBadArtifact(err error) bool {
	var be badArtifactError
	return errors.As(err, &be)
}
