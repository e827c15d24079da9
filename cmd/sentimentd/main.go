package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"sentimentd/internal/common/fsutil"
	"sentimentd/internal/config"
	"sentimentd/internal/httpapi"
	"sentimentd/internal/manager"
	"sentimentd/internal/registry"
	"sentimentd/internal/watcher"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("SENTIMENTD_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultModel := "./model/weights.json"
	if v := os.Getenv("SENTIMENTD_MODEL_PATH"); v != "" {
		defaultModel = v
	}
	defaultTimeoutMs := 5000
	if v := os.Getenv("SENTIMENTD_REQUEST_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			defaultTimeoutMs = n
		}
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	modelPath := flag.String("model-path", defaultModel, "Path to the model weights artifact to load and watch")
	watchMode := flag.String("watch-mode", "auto", "Artifact change detection: auto|poll|off")
	requestTimeoutMs := flag.Int("request-timeout-ms", defaultTimeoutMs, "Per-request inference deadline in milliseconds")
	strict := flag.Bool("strict", false, "Exit if the initial artifact load fails instead of serving 503 until one appears")
	cfgPath := flag.String("config", "", "Optional config file (.yaml/.json/.toml); flags override file values")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Config{
		Addr:             *addr,
		ModelPath:        *modelPath,
		WatchMode:        *watchMode,
		RequestTimeoutMs: *requestTimeoutMs,
	}
	if *cfgPath != "" {
		fileCfg, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *cfgPath).Msg("failed to load config")
		}
		// Flags left at their defaults defer to the file.
		if flagUnset("addr") && fileCfg.Addr != "" {
			cfg.Addr = fileCfg.Addr
		}
		if flagUnset("model-path") && fileCfg.ModelPath != "" {
			cfg.ModelPath = fileCfg.ModelPath
		}
		if flagUnset("watch-mode") && fileCfg.WatchMode != "" {
			cfg.WatchMode = fileCfg.WatchMode
		}
		if flagUnset("request-timeout-ms") && fileCfg.RequestTimeoutMs > 0 {
			cfg.RequestTimeoutMs = fileCfg.RequestTimeoutMs
		}
		cfg.PollIntervalMs = fileCfg.PollIntervalMs
		cfg.ReloadCooldownMs = fileCfg.ReloadCooldownMs
		cfg.MaxBodyBytes = fileCfg.MaxBodyBytes
		cfg.DebounceMs = fileCfg.DebounceMs
		cfg.MinChars = fileCfg.MinChars
		cfg.LogLevel = fileCfg.LogLevel
		cfg.CORSEnabled = fileCfg.CORSEnabled
		cfg.CORSOrigins = fileCfg.CORSOrigins
	}
	cfg = cfg.WithDefaults()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	}

	artifactPath, err := fsutil.ExpandHome(cfg.ModelPath)
	if err != nil {
		log.Fatal().Err(err).Msg("bad model path")
	}

	reg := registry.New()
	if _, err := reg.LoadAndPromote(artifactPath); err != nil {
		if *strict {
			log.Fatal().Err(err).Str("path", artifactPath).Msg("initial model load failed")
		}
		if !fsutil.PathExists(artifactPath) {
			log.Warn().Str("path", artifactPath).Msg("model artifact not found, serving 503 until one appears")
		} else {
			log.Warn().Err(err).Str("path", artifactPath).Msg("initial model load failed, serving 503 until the artifact is fixed")
		}
	} else {
		log.Info().Str("path", artifactPath).Msg("model loaded")
	}

	mgr := manager.New(reg, artifactPath, time.Duration(cfg.RequestTimeoutMs)*time.Millisecond, log)

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetClientDefaults(cfg.DebounceMs, cfg.MinChars)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins,
		[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
		[]string{"Content-Type"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	httpapi.SetBaseContext(ctx)

	w := watcher.New(reg, watcher.Config{
		Path:         artifactPath,
		Mode:         watcher.Mode(cfg.WatchMode),
		PollInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		Cooldown:     time.Duration(cfg.ReloadCooldownMs) * time.Millisecond,
	}, log)
	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("watcher stopped")
		}
	}()

	mux := httpapi.NewMux(mgr)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("model", artifactPath).Msg("sentimentd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

// flagUnset reports whether the named flag kept its default, i.e. the user
// did not pass it on the command line.
func flagUnset(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return !set
}
