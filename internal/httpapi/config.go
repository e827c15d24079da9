package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON
// endpoints. Single utterances are small; 64 KiB leaves generous headroom.
var maxBodyBytes int64 = 64 << 10

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 64 << 10
		return
	}
	maxBodyBytes = n
}

// clientDefaults is the orchestration policy advertised on
// GET /config/client.
var clientDefaults = struct {
	debounceMs int
	minChars   int
}{debounceMs: 800, minChars: 5}

// SetClientDefaults configures the debounce window and minimum input length
// advertised to interactive clients. Non-positive values keep the defaults.
func SetClientDefaults(debounceMs, minChars int) {
	if debounceMs > 0 {
		clientDefaults.debounceMs = debounceMs
	}
	if minChars > 0 {
		clientDefaults.minChars = minChars
	}
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
