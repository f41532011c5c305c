package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/notekeep/notekeep/internal/app"
	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/pkg/store"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notekeep",
	Short: "Keep short text notes on a remote service or a local store",
	Long: `Notekeep persists notes to a remote notes service when one is
configured (NOTEKEEP_API_URL, or NOTEKEEP_REMOTE_URL as a fallback) and
to a local store under ~/.notekeep otherwise. The mode is decided once
at startup and never switches at runtime.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// openController builds the configured persistence strategy and wraps it
// in a controller. The returned cleanup function flushes nothing; it just
// cancels pending saves and closes the local store if one was opened.
func openController() (*app.Controller, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Remote() {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, nil, err
		}
	}

	st, err := store.New(store.Config{
		RemoteURL:    cfg.RemoteURL,
		DatabasePath: cfg.DatabasePath(),
		Logger:       slog.Default(),
	})
	if err != nil {
		return nil, nil, err
	}

	controller := app.New(st, cfg.Debounce, slog.Default())
	cleanup := func() {
		controller.Close()
		if closer, ok := st.(io.Closer); ok {
			closer.Close()
		}
	}
	return controller, cleanup, nil
}
