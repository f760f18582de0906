package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/hysteria-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	envFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostics sink; results never go here.
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "hysteria",
	Short: "Reconcile historian location lists and analyze reactor reports",
	Long: `hysteria reads line-oriented puzzle inputs and reduces them to a few scalars:
the total distance and similarity between two location-ID lists, and the number
of safe and unsafe reactor reports under a tolerant monotonic-step rule.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(cmd.ErrOrStderr(), debug)
		if envFile != "" {
			if err := cfgpkg.LoadEnvFile(envFile); err != nil {
				return err
			}
		}
		loadConfig()
		return nil
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.hysteria/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with HYSTERIA_* overrides")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		logger.Warn("failed to load config", "err", err)
		cfg = nil
		return
	}
	cfg = c
}

// currentConfig returns the loaded configuration or the built-in defaults.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	return cfgpkg.Defaults()
}
