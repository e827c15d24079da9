// Package manager coordinates prediction serving between the HTTP layer and
// the model registry. It is structured into small files by concern:
//
//   - manager.go: core Manager type, Predict entry point, per-call deadline.
//   - errors.go: error types and helpers (IsValidation, IsInference).
//   - status.go: Status/Ready reporting for /status and /readyz.
//   - metrics.go: prometheus counters and histograms for predictions.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, Predict, Status, Ready, Reload).
package manager
