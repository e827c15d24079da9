// Package sentimentctl implements the interactive prediction client CLI. The
// watch command hosts a live session orchestrator, so debouncing and
// stale-response dropping can be observed from a terminal.
package sentimentctl

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// Config holds client-side knobs, populated from env defaults then flags.
type Config struct {
	Server     string
	TimeoutMs  int
	DebounceMs int
	MinChars   int
	LogLvl     string
}

// DefaultConfig reads environment defaults.
func DefaultConfig() *Config {
	cfg := &Config{
		Server:     "http://localhost:8080",
		TimeoutMs:  5000,
		DebounceMs: 800,
		MinChars:   5,
		LogLvl:     "info",
	}
	if v := os.Getenv("SENTIMENTCTL_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("SENTIMENTCTL_LOG_LEVEL"); v != "" {
		cfg.LogLvl = v
	}
	if v := os.Getenv("SENTIMENTCTL_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	return cfg
}

// Run parses args and executes the command tree.
func Run(args []string) error {
	cfg := DefaultConfig()
	root := buildRootCmdWith(cfg)
	root.SetArgs(args)
	return root.Execute()
}

// buildRootCmdWith constructs the Cobra command tree wired to the fn* actions.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "sentimentctl",
		Short:         "Client for the sentiment prediction service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	root.PersistentFlags().StringVar(&cfg.Server, "server", cfg.Server, "Base URL of the sentiment service")
	root.PersistentFlags().IntVar(&cfg.TimeoutMs, "timeout-ms", cfg.TimeoutMs, "Per-request timeout in milliseconds")
	root.PersistentFlags().IntVar(&cfg.DebounceMs, "debounce-ms", cfg.DebounceMs, "Debounce window for watch mode in milliseconds")
	root.PersistentFlags().IntVar(&cfg.MinChars, "min-chars", cfg.MinChars, "Minimum trimmed input length before a request is issued")
	root.PersistentFlags().StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error")

	predictCmd := &cobra.Command{
		Use:     "predict [text]",
		Short:   "Run one prediction and print the result",
		Example: "  sentimentctl predict \"This product is absolutely amazing!\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServerDefaults(cfg, cmd.Flags().Changed("debounce-ms"), cmd.Flags().Changed("min-chars"))
			return fnPredict(cfg, args[0])
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactive mode: type text, see debounced predictions",
		Long: "Reads lines from stdin. Each line updates the session's current " +
			"intent; a line containing only '!' submits immediately, bypassing " +
			"the debounce window. Ctrl-D exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServerDefaults(cfg, cmd.Flags().Changed("debounce-ms"), cmd.Flags().Changed("min-chars"))
			return fnWatch(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the server's model status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnStatus(cfg, cmd.OutOrStdout())
		},
	}

	root.AddCommand(predictCmd, watchCmd, statusCmd)
	return root
}
