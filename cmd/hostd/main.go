// hostd is the reference host daemon: a development embedder that answers
// guest bridge traffic over WebSocket with fixture-driven feature handlers.
//
// Configuration comes from HOSTD_* environment variables, see
// internal/config. Run it next to a guest pointed at ws://localhost:8787/ws.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/appo-sh/hostbridge/internal/config"
	"github.com/appo-sh/hostbridge/internal/host"
	"github.com/appo-sh/hostbridge/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		os.Stderr.WriteString("hostd: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		os.Stderr.WriteString("hostd: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	srv, err := host.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("server setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("hostd stopped")
}
