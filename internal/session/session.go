package session

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sentimentd/internal/client"
	"sentimentd/pkg/types"
)

// Status is the session's lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusDebouncing Status = "debouncing"
	StatusInFlight   Status = "in_flight"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// ErrorKind is the user-visible classification of a failed request.
type ErrorKind string

const (
	ErrKindNone    ErrorKind = ""
	ErrKindTimeout ErrorKind = "timeout"
	ErrKindNetwork ErrorKind = "network"
	ErrKindServer  ErrorKind = "server"
)

// Predictor issues one prediction call. Implemented by *client.Client; tests
// substitute fakes to control completion timing.
type Predictor interface {
	Predict(ctx context.Context, text, requestID string) (*types.PredictionResult, error)
}

// Config holds session policy knobs.
type Config struct {
	// Debounce is how long input must be stable before a request fires.
	Debounce time.Duration
	// MinChars short-circuits input: trimmed text of at most this many
	// runes never issues a request and clears any prior result.
	MinChars int
	// RequestTimeout bounds each issued call.
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = 800 * time.Millisecond
	}
	if c.MinChars <= 0 {
		c.MinChars = 5
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	return c
}

// Snapshot is a copy of the observable session state after a transition.
type Snapshot struct {
	Status          Status
	LatestText      string
	ActiveRequestID string
	LastResult      *types.PredictionResult
	LastError       ErrorKind
	LastErrorMsg    string
}

// Session coordinates one user's prediction requests.
type Session struct {
	mu        sync.Mutex
	cfg       Config
	predictor Predictor
	log       zerolog.Logger
	onChange  func(Snapshot)

	status          Status
	latestText      string
	activeRequestID string
	lastResult      *types.PredictionResult
	lastError       ErrorKind
	lastErrorMsg    string

	debounceTimer  *time.Timer
	timerGen       uint64
	cancelInFlight context.CancelFunc
	closed         bool
}

// New constructs a session in the idle state.
func New(p Predictor, cfg Config, log zerolog.Logger) *Session {
	return &Session{
		cfg:       cfg.withDefaults(),
		predictor: p,
		log:       log,
		status:    StatusIdle,
	}
}

// OnChange installs a listener invoked after every state transition with a
// snapshot copy. The listener runs under the session lock and must not call
// back into the Session.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// TextChanged records new input. Short input cancels everything outstanding
// and returns to idle with no result. Otherwise any pending debounce timer
// and in-flight call are canceled before a fresh timer is scheduled, as one
// atomic cancel-then-schedule step under the lock.
func (s *Session) TextChanged(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.latestText = text
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) <= s.cfg.MinChars {
		s.cancelTimerLocked()
		s.cancelInFlightLocked()
		s.lastResult = nil
		s.lastError = ErrKindNone
		s.lastErrorMsg = ""
		s.transitionLocked(StatusIdle)
		return
	}
	s.cancelTimerLocked()
	s.cancelInFlightLocked()
	gen := s.timerGen
	s.debounceTimer = time.AfterFunc(s.cfg.Debounce, func() { s.timerFired(gen) })
	s.transitionLocked(StatusDebouncing)
}

// Submit bypasses the debounce timer and issues an immediate request for the
// current text, provided it is non-empty after trimming.
func (s *Session) Submit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if strings.TrimSpace(s.latestText) == "" {
		return
	}
	s.cancelTimerLocked()
	s.cancelInFlightLocked()
	s.issueLocked()
}

// timerFired runs when the debounce window elapses. The generation check
// drops callbacks from timers that were canceled after already firing.
func (s *Session) timerFired(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.timerGen {
		return
	}
	s.debounceTimer = nil
	s.issueLocked()
}

// issueLocked mints a request id, records it as the single active request,
// and launches the call. Caller holds the lock.
func (s *Session) issueLocked() {
	rid := uuid.NewString()
	s.activeRequestID = rid
	text := strings.TrimSpace(s.latestText)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	s.cancelInFlight = cancel
	s.transitionLocked(StatusInFlight)

	go func() {
		res, err := s.predictor.Predict(ctx, text, rid)
		cancel()
		s.complete(rid, res, err)
	}()
}

// complete reconciles a finished call. A completion whose id is no longer
// the active request is stale and discarded silently, whatever its outcome.
func (s *Session) complete(rid string, res *types.PredictionResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if rid != s.activeRequestID {
		s.log.Debug().Str("request_id", rid).Msg("stale completion dropped")
		return
	}
	if client.IsCanceled(err) {
		// Advisory cancellation won the race against supersession; the new
		// intent's transition already owns the state.
		return
	}
	s.activeRequestID = ""
	s.cancelInFlight = nil
	if err != nil {
		s.lastError, s.lastErrorMsg = classify(err)
		s.transitionLocked(StatusError)
		return
	}
	s.lastResult = res
	s.lastError = ErrKindNone
	s.lastErrorMsg = ""
	s.transitionLocked(StatusSuccess)
}

// Snapshot returns a copy of the current observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels any pending timer and in-flight call. The session ignores
// all events after Close.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelTimerLocked()
	s.cancelInFlightLocked()
	s.closed = true
}

func (s *Session) cancelTimerLocked() {
	s.timerGen++
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}

// cancelInFlightLocked signals the transport to abandon the call and clears
// the active id so the eventual completion is ignorable even if the abort
// loses the race.
func (s *Session) cancelInFlightLocked() {
	if s.cancelInFlight != nil {
		s.cancelInFlight()
		s.cancelInFlight = nil
	}
	s.activeRequestID = ""
}

func (s *Session) transitionLocked(next Status) {
	s.status = next
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:          s.status,
		LatestText:      s.latestText,
		ActiveRequestID: s.activeRequestID,
		LastError:       s.lastError,
		LastErrorMsg:    s.lastErrorMsg,
	}
	if s.lastResult != nil {
		cp := *s.lastResult
		snap.LastResult = &cp
	}
	return snap
}

// classify maps a failed call onto the user-visible error kinds. Everything
// not recognizably a timeout or a structured server error reads as network.
func classify(err error) (ErrorKind, string) {
	switch {
	case client.IsTimeout(err):
		return ErrKindTimeout, "request timed out, try again"
	case client.IsNetwork(err):
		return ErrKindNetwork, "could not reach the server, try again"
	}
	if se, ok := client.IsServer(err); ok {
		return ErrKindServer, se.Message
	}
	return ErrKindNetwork, "could not reach the server, try again"
}
