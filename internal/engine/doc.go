// Package engine implements the sentiment inference engine. An Engine wraps a
// single loaded model artifact and exposes one pure operation, Predict. It is
// structured into small files by concern:
//
//   - artifact.go: on-disk artifact schema, loading and validation.
//   - engine.go: Engine type, tokenization and scoring.
//   - errors.go: error types and helpers (IsBadArtifact, ErrEmptyText).
//
// An Engine is immutable after Load and safe for concurrent use. Lifecycle
// (which engine is active, when to swap) belongs to internal/registry, not
// here.
package engine
