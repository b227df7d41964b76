// Command chatd runs the career-coaching chat server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/careerpilot/careerpilot"
	"github.com/careerpilot/careerpilot/config"
	"github.com/careerpilot/careerpilot/logging"
	"github.com/careerpilot/careerpilot/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chatd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewJSONLogger(os.Stdout, logLevel(cfg.LogLevel))

	app, err := careerpilot.New(cfg, func(o *careerpilot.Options) {
		o.Logger = logger
	})
	if err != nil {
		return err
	}
	defer app.Close()

	srv := server.New(app.Service, func(o *server.Options) {
		o.Logger = logger
	})

	logger.Info("chatd.listening", "addr", cfg.Addr)
	return srv.Run(cfg.Addr)
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
