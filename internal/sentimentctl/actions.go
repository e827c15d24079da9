package sentimentctl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sentimentd/internal/client"
	"sentimentd/internal/session"
)

func newLogger(cfg *Config) zerolog.Logger {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLvl); err == nil {
		log = log.Level(lvl)
	}
	return log
}

func newSession(cfg *Config, log zerolog.Logger) *session.Session {
	c := client.New(cfg.Server, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	return session.New(c, session.Config{
		Debounce:       time.Duration(cfg.DebounceMs) * time.Millisecond,
		MinChars:       cfg.MinChars,
		RequestTimeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}, log)
}

// applyServerDefaults fetches the server's advertised orchestration knobs
// and adopts them for any flag the user left at its default. Best effort: an
// unreachable server leaves the local defaults in place.
func applyServerDefaults(cfg *Config, debounceExplicit, minCharsExplicit bool) {
	if debounceExplicit && minCharsExplicit {
		return
	}
	c := client.New(cfg.Server, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cc, err := c.ClientConfig(ctx)
	if err != nil {
		return
	}
	if !debounceExplicit && cc.DebounceMs > 0 {
		cfg.DebounceMs = cc.DebounceMs
	}
	if !minCharsExplicit && cc.MinChars > 0 {
		cfg.MinChars = cc.MinChars
	}
}

// fnPredict runs a single explicit submit through the session and prints the
// terminal state.
func fnPredict(cfg *Config, text string) error {
	log := newLogger(cfg)
	s := newSession(cfg, log)
	defer s.Close()

	done := make(chan session.Snapshot, 1)
	s.OnChange(func(snap session.Snapshot) {
		if snap.Status == session.StatusSuccess || snap.Status == session.StatusError {
			select {
			case done <- snap:
			default:
			}
		}
	})

	s.TextChanged(text)
	s.Submit()

	select {
	case snap := <-done:
		if snap.Status == session.StatusError {
			return fmt.Errorf("%s", snap.LastErrorMsg)
		}
		out, _ := json.Marshal(snap.LastResult)
		fmt.Println(string(out))
		return nil
	case <-time.After(time.Duration(cfg.TimeoutMs)*time.Millisecond + time.Second):
		return fmt.Errorf("no response within timeout")
	}
}

// fnWatch feeds stdin lines into a live session and prints every state
// transition as it happens.
func fnWatch(cfg *Config, in io.Reader, out io.Writer) error {
	log := newLogger(cfg)
	s := newSession(cfg, log)
	defer s.Close()

	s.OnChange(func(snap session.Snapshot) {
		switch snap.Status {
		case session.StatusSuccess:
			fmt.Fprintf(out, "[%s] %s (%.2f)\n", snap.Status, snap.LastResult.Label, snap.LastResult.Score)
		case session.StatusError:
			fmt.Fprintf(out, "[%s] %s\n", snap.Status, snap.LastErrorMsg)
		default:
			fmt.Fprintf(out, "[%s]\n", snap.Status)
		}
	})

	fmt.Fprintln(out, "type text to analyze; '!' submits immediately; Ctrl-D exits")
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "!" {
			s.Submit()
			continue
		}
		s.TextChanged(line)
	}
	return sc.Err()
}

// fnStatus prints the server's /status document.
func fnStatus(cfg *Config, out io.Writer) error {
	c := client.New(cfg.Server, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutMs)*time.Millisecond)
	defer cancel()
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(b))
	return nil
}
