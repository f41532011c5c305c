package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/pkg/store"
)

var (
	NoteLocalName string = "note"
	DefaultPort   int    = 3333
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the local store over the notes wire protocol",
	Long: `Serve exposes the local note store over HTTP so another notekeep
instance (or the single-page UI) can run against it in remote mode.
The server assigns ids and timestamps; clients never do. The port is
read from NOTEKEEP_PORT (default 3333).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runServer())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		return 1
	}
	if err := cfg.EnsureDataDir(); err != nil {
		slog.Error("failed to create data directory",
			"path", cfg.DataDir,
			"err", err)
		return 1
	}

	// The server always backs onto the local store, whatever mode the
	// client side is configured for.
	local, err := store.NewLocal(cfg.DatabasePath(), slog.Default())
	if err != nil {
		slog.Error("failed to initialize local store",
			"path", cfg.DatabasePath(),
			"err", err)
		return 1
	}
	defer local.Close()

	portStr := os.Getenv("NOTEKEEP_PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = DefaultPort
		slog.Info("no valid port provided via NOTEKEEP_PORT, using default",
			"portStr", portStr,
			"defaultPort", port)
	} else {
		slog.Info("using custom port",
			"port", port)
	}

	app := newServerApp(local)

	slog.Info("listening for requests", "port", port)
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		slog.Error("failed to initialize HTTP server",
			"err", err)
		return 1
	}
	return 0
}
