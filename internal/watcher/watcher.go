// Package watcher observes the model artifact on disk and promotes new
// versions through the registry. It runs on its own schedule, independent of
// request traffic; a failed reload is logged and the previous engine keeps
// serving indefinitely.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"sentimentd/internal/registry"
)

// Mode selects the change-detection mechanism.
type Mode string

const (
	// ModeAuto prefers fsnotify and falls back to polling if the path
	// cannot be watched.
	ModeAuto Mode = "auto"
	// ModePoll compares modification time and size on a fixed interval.
	ModePoll Mode = "poll"
	// ModeOff disables automatic reloads; only explicit reload requests
	// (POST /reload) promote a new artifact.
	ModeOff Mode = "off"
)

// Config holds watcher policy knobs.
type Config struct {
	// Path is the artifact file to watch and load.
	Path string
	// Mode selects the trigger mechanism. Defaults to ModeAuto.
	Mode Mode
	// PollInterval is the polling cadence for ModePoll and the fallback.
	PollInterval time.Duration
	// Cooldown collapses bursts of change events from a multi-step save
	// into one reload.
	Cooldown time.Duration
	// Settle is how long to wait after a change before loading, giving
	// the writer time to finish the artifact.
	Settle time.Duration
}

func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModeAuto
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 2 * time.Second
	}
	if c.Settle <= 0 {
		c.Settle = 500 * time.Millisecond
	}
	return c
}

// Watcher triggers registry promotions when the artifact changes.
type Watcher struct {
	reg *registry.Registry
	cfg Config
	log zerolog.Logger

	lastReload time.Time
}

// New returns a watcher for the given registry and config.
func New(reg *registry.Registry, cfg Config, log zerolog.Logger) *Watcher {
	return &Watcher{reg: reg, cfg: cfg.withDefaults(), log: log}
}

// Run blocks until ctx is canceled, reloading the artifact on changes.
// It never returns a reload failure; those are logged and absorbed.
func (w *Watcher) Run(ctx context.Context) error {
	switch w.cfg.Mode {
	case ModeOff:
		<-ctx.Done()
		return ctx.Err()
	case ModePoll:
		return w.runPoll(ctx)
	default:
		if err := w.runNotify(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn().Err(err).Msg("fsnotify unavailable, falling back to polling")
			return w.runPoll(ctx)
		}
		return ctx.Err()
	}
}

// runNotify watches the artifact's parent directory. Watching the directory
// rather than the file survives the common write-temp-then-rename pattern,
// which replaces the inode the file watch would be pinned to.
func (w *Watcher) runNotify(ctx context.Context) error {
	abs, err := filepath.Abs(w.cfg.Path)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.log.Info().Str("path", abs).Msg("watching model artifact")

	base := filepath.Base(abs)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New("watch channel closed")
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			w.maybeReload(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watch error channel closed")
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) runPoll(ctx context.Context) error {
	w.log.Info().Str("path", w.cfg.Path).Dur("interval", w.cfg.PollInterval).Msg("polling model artifact")
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	var lastMod time.Time
	var lastSize int64
	if fi, err := os.Stat(w.cfg.Path); err == nil {
		lastMod, lastSize = fi.ModTime(), fi.Size()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fi, err := os.Stat(w.cfg.Path)
			if err != nil {
				continue
			}
			if fi.ModTime().Equal(lastMod) && fi.Size() == lastSize {
				continue
			}
			lastMod, lastSize = fi.ModTime(), fi.Size()
			w.maybeReload(ctx)
		}
	}
}

// maybeReload applies the cooldown, waits for the writer to settle, then
// loads with bounded retries. The retry covers a half-written artifact being
// finished moments later; a genuinely corrupt artifact fails every attempt
// and is dropped with the old engine still active.
func (w *Watcher) maybeReload(ctx context.Context) {
	if time.Since(w.lastReload) < w.cfg.Cooldown {
		return
	}
	w.lastReload = time.Now()

	select {
	case <-ctx.Done():
		return
	case <-time.After(w.cfg.Settle):
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	var gen uint64
	var version string
	err := backoff.Retry(func() error {
		eng, err := w.reg.LoadAndPromote(w.cfg.Path)
		if err != nil {
			return err
		}
		gen, version = w.reg.Generation(), eng.Version()
		return nil
	}, bo)
	if err != nil {
		w.log.Error().Err(err).Str("path", w.cfg.Path).Msg("model reload rejected, keeping previous engine")
		return
	}
	w.log.Info().Str("version", version).Uint64("generation", gen).Msg("model reloaded")
}
