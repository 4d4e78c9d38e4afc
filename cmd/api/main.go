package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"jobmatch-backend/internal/bootstrap"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server"
	"jobmatch-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	logger, err := telemetry.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	telemetry.SetLogger(logger)

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	logger.Info("starting API server", zap.String("addr", addr), zap.String("env", cfg.Env))

	if err := app.Router.Run(addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
