package types

// Label is the sentiment class emitted by the engine.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
)

// PredictionRequest represents a prediction request payload.
type PredictionRequest struct {
	// Required text to analyze. Must be non-empty after trimming.
	// example: This product is absolutely amazing!
	Text string `json:"text" example:"This product is absolutely amazing!"`
	// Optional opaque request identifier, echoed back in the response.
	// example: 9f1c2d3e
	RequestID string `json:"request_id,omitempty" example:"9f1c2d3e"`
}

// PredictionResult is the successful response to a prediction request.
type PredictionResult struct {
	// Sentiment label.
	// example: positive
	Label Label `json:"label" example:"positive"`
	// Model confidence in the label, in [0,1].
	// example: 0.93
	Score float64 `json:"score" example:"0.93"`
	// Version of the model artifact that produced this result.
	// example: 2024-06-01T10:00:00Z#3
	ModelVersion string `json:"model_version,omitempty" example:"2024-06-01T10:00:00Z#3"`
	// Echo of the request identifier, when one was supplied.
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: text is required
	Error string `json:"error" example:"text is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Stable machine-readable error kind.
	// example: validation_error
	Kind string `json:"kind,omitempty" example:"validation_error"`
}

// Stable error kinds carried in ErrorResponse.Kind.
const (
	KindValidationError  = "validation_error"
	KindInferenceError   = "inference_error"
	KindModelUnavailable = "model_unavailable"
)

// ClientConfig is returned by GET /config/client. It advertises the
// server-recommended orchestration knobs so interactive clients can pick
// them up without local configuration.
type ClientConfig struct {
	// Debounce window in milliseconds for live input.
	// example: 800
	DebounceMs int `json:"debounce_ms" example:"800"`
	// Trimmed inputs of at most this many characters never issue a request.
	// example: 5
	MinChars int `json:"min_chars" example:"5"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Whether a model is loaded and serving.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Identity of the active model artifact.
	// example: weights.json
	ModelID string `json:"model_id,omitempty" example:"weights.json"`
	// Absolute path of the active artifact.
	ModelPath string `json:"model_path,omitempty"`
	// Version string of the active artifact.
	ModelVersion string `json:"model_version,omitempty"`
	// Monotonic promotion counter; increments on every successful swap.
	// example: 3
	Generation uint64 `json:"generation" example:"3"`
	// Unix time the active artifact was promoted.
	// example: 1700000000
	LoadedAtUnix int64 `json:"loaded_at_unix,omitempty" example:"1700000000"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Total successful reloads (including the initial load).
	// example: 4
	ReloadsTotal uint64 `json:"reloads_total" example:"4"`
	// Total rejected reload attempts.
	// example: 1
	ReloadFailuresTotal uint64 `json:"reload_failures_total" example:"1"`
}
