package manager

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sentimentd/internal/engine"
	"sentimentd/internal/registry"
	"sentimentd/pkg/types"
)

// defaultTimeout bounds a single prediction when the caller does not
// configure one. A hung engine call must never pin a request slot forever.
const defaultTimeout = 5 * time.Second

// Manager serves predictions against whatever engine the registry currently
// holds. It is stateless across requests; all shared state lives in the
// registry behind its atomic pointer.
type Manager struct {
	reg          *registry.Registry
	artifactPath string
	timeout      time.Duration
	log          zerolog.Logger
	start        time.Time
}

// New constructs a Manager. timeout <= 0 selects the default per-call
// deadline.
func New(reg *registry.Registry, artifactPath string, timeout time.Duration, log zerolog.Logger) *Manager {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Manager{
		reg:          reg,
		artifactPath: artifactPath,
		timeout:      timeout,
		log:          log,
		start:        time.Now(),
	}
}

// Predict validates the request, resolves the active engine and scores the
// text under the per-call deadline. The engine resolved here is held for the
// whole call; a promotion happening concurrently does not affect it.
func (m *Manager) Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return types.PredictionResult{}, validationError{"text is required"}
	}
	eng, err := m.reg.Active()
	if err != nil {
		return types.PredictionResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type outcome struct {
		res types.PredictionResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := eng.Predict(text)
		ch <- outcome{res, err}
	}()

	start := time.Now()
	select {
	case <-ctx.Done():
		predictionFailures.WithLabelValues("timeout").Inc()
		return types.PredictionResult{}, inferenceError{ctx.Err()}
	case out := <-ch:
		if out.err != nil {
			if errors.Is(out.err, engine.ErrEmptyText) {
				return types.PredictionResult{}, validationError{"text is required"}
			}
			predictionFailures.WithLabelValues("engine").Inc()
			m.log.Error().Err(out.err).Msg("engine prediction failed")
			return types.PredictionResult{}, inferenceError{out.err}
		}
		predictionsTotal.WithLabelValues(string(out.res.Label)).Inc()
		predictionDuration.Observe(time.Since(start).Seconds())
		out.res.RequestID = req.RequestID
		return out.res, nil
	}
}

// Reload loads the configured artifact and promotes it. Used by the explicit
// POST /reload trigger; the watcher goes through the registry directly.
func (m *Manager) Reload() error {
	eng, err := m.reg.LoadAndPromote(m.artifactPath)
	if err != nil {
		m.log.Error().Err(err).Str("path", m.artifactPath).Msg("manual reload rejected")
		return err
	}
	m.log.Info().Str("version", eng.Version()).Uint64("generation", m.reg.Generation()).Msg("manual reload promoted")
	return nil
}
