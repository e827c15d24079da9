// Package registry owns the currently-active inference engine and the atomic
// swap that hot-reloads it. Readers never block writers and writers never
// block readers: Active is a single atomic pointer load, Promote a single
// atomic pointer store. An engine handed out by Active stays valid for the
// duration of the request that holds it regardless of later promotions.
package registry

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"sentimentd/internal/engine"
)

var (
	swapsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sentimentd",
		Subsystem: "registry",
		Name:      "swaps_total",
		Help:      "Total successful engine promotions (including the initial load)",
	})
	reloadFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sentimentd",
		Subsystem: "registry",
		Name:      "reload_failures_total",
		Help:      "Total rejected reload attempts",
	})
)

func init() {
	prometheus.MustRegister(swapsTotal, reloadFailuresTotal)
}

// Registry holds the active engine behind an atomic pointer.
type Registry struct {
	active atomic.Pointer[engine.Engine]

	generation uint64 // promotions so far, atomic
	failures   uint64 // rejected reloads, atomic
}

// New returns an empty registry. Active returns ErrNotLoaded until the first
// successful Promote or LoadAndPromote.
func New() *Registry {
	return &Registry{}
}

// Active returns the currently promoted engine. It never blocks on a reload
// in progress; callers holding the returned engine are unaffected by later
// promotions.
func (r *Registry) Active() (*engine.Engine, error) {
	eng := r.active.Load()
	if eng == nil {
		return nil, ErrNotLoaded
	}
	return eng, nil
}

// Ready reports whether an engine has been promoted.
func (r *Registry) Ready() bool { return r.active.Load() != nil }

// Promote atomically installs eng as the active engine. After Promote
// returns, every subsequent Active call observes eng. A nil engine is
// rejected so a registry can never regress to unloaded.
func (r *Registry) Promote(eng *engine.Engine) error {
	if eng == nil {
		atomic.AddUint64(&r.failures, 1)
		reloadFailuresTotal.Inc()
		return reloadError{fmt.Errorf("nil engine")}
	}
	r.active.Store(eng)
	atomic.AddUint64(&r.generation, 1)
	swapsTotal.Inc()
	return nil
}

// LoadAndPromote loads and validates the artifact at path off the serving
// path, then promotes it. On any failure the previously active engine stays
// untouched and the error is classified as a reload error.
func (r *Registry) LoadAndPromote(path string) (*engine.Engine, error) {
	eng, err := engine.Load(path)
	if err != nil {
		atomic.AddUint64(&r.failures, 1)
		reloadFailuresTotal.Inc()
		return nil, reloadError{fmt.Errorf("load %s: %w", path, err)}
	}
	if err := r.Promote(eng); err != nil {
		return nil, err
	}
	return eng, nil
}

// Generation returns the number of successful promotions so far.
func (r *Registry) Generation() uint64 { return atomic.LoadUint64(&r.generation) }

// Failures returns the number of rejected reload attempts so far.
func (r *Registry) Failures() uint64 { return atomic.LoadUint64(&r.failures) }
