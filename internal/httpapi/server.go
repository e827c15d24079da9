package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentimentd/internal/manager"
	"sentimentd/internal/registry"
	"sentimentd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResult, error)
	Status() types.StatusResponse
	Ready() bool
	Reload() error
}

// NewMux builds the router: /predict, /status, /reload, /healthz, /readyz,
// /metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			AllowCredentials: true,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", types.KindValidationError)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.PredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			// Covers oversized bodies too; 400 avoids leaking size details.
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body", types.KindValidationError)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeJSONError(w, http.StatusBadRequest, "text is required", types.KindValidationError)
			return
		}

		start := time.Now()
		lvl := requestLogLevel(r)
		if lvl >= LevelInfo {
			logEvent(r).Int("text_len", len(req.Text)).Msg("predict start")
		}
		// Join server base context with request context so shutdown cancels
		// in-flight work too.
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		res, err := svc.Predict(joinedCtx, req)
		if err != nil {
			// Client disconnected or server shutting down: nothing to write.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status, kind, msg := mapServiceError(err)
			writeJSONError(w, status, msg, kind)
			if lvl >= LevelInfo {
				logEvent(r).Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("predict end")
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response", types.KindInferenceError)
			return
		}
		if lvl >= LevelInfo {
			logEvent(r).Int("status", http.StatusOK).Str("label", string(res.Label)).Dur("dur", time.Since(start)).Msg("predict end")
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response", "")
			return
		}
	})

	r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Reload(); err != nil {
			// Reload detail stays in server logs; callers get the stable shape.
			writeJSONError(w, http.StatusInternalServerError, "reload rejected, previous model still active", "")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(svc.Status())
	})

	r.Get("/config/client", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.ClientConfig{
			DebounceMs: clientDefaults.debounceMs,
			MinChars:   clientDefaults.minChars,
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// mapServiceError translates service errors into the stable wire taxonomy.
// No raw internal detail crosses this boundary.
func mapServiceError(err error) (status int, kind, msg string) {
	switch {
	case manager.IsValidation(err):
		return http.StatusBadRequest, types.KindValidationError, err.Error()
	case errors.Is(err, registry.ErrNotLoaded):
		return http.StatusServiceUnavailable, types.KindModelUnavailable, "no model loaded yet"
	case manager.IsInference(err):
		return http.StatusInternalServerError, types.KindInferenceError, "inference failed"
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode(), "", he.Error()
	}
	return http.StatusInternalServerError, types.KindInferenceError, "inference failed"
}
