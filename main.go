package main

import (
	"context"
	"os/signal"
	"syscall"
	clts "whalesx/clients"
	"whalesx/config"
	"whalesx/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Local development convenience; deployed environments set real env vars.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env file")
	}

	// Load config from environment variables
	cfg := config.Load()
	logger.Info("starting bot", zap.Bool("isProd", cfg.IsProd))

	if result := cfg.Validate(); !result.Valid {
		for _, e := range result.Errors {
			logger.Error("invalid config", zap.String("field", e.Field), zap.String("message", e.Message))
		}
		logger.Fatal("configuration invalid, refusing to start")
	}

	logger.Info("instantiating clients")
	clients := clts.NewClients(logger, cfg)

	runner := app.NewRunner(clients, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil {
		logger.Fatal("runner exited", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
