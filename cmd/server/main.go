package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/kafanski-duel/internal/api"
	"github.com/mcoot/kafanski-duel/internal/config"
	"github.com/mcoot/kafanski-duel/internal/factory"
	"github.com/mcoot/kafanski-duel/internal/model"
	"github.com/mcoot/kafanski-duel/internal/services/auth"
	redisstorage "github.com/mcoot/kafanski-duel/internal/storage/redis"
	sqlstorage "github.com/mcoot/kafanski-duel/internal/storage/sql"
	"github.com/mcoot/kafanski-duel/internal/telemetry"
)

func main() {
	os.Exit(run())
}

// run serves until a shutdown signal and returns the process exit code
func run() int {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	shutdownTracing, err := telemetry.Setup(context.Background(), telemetry.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Error("failed to set up tracing", slog.String("error", err.Error()))
		return 1
	}

	rules := model.DefaultRules()
	rules.ChallengeTTL = cfg.ChallengeTTL

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage,
		AuthConfig: auth.Config{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		},
		Rules:         &rules,
		SweepInterval: cfg.SweepInterval,
	}

	switch cfg.Storage {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.FinishedDuelTTL = cfg.RedisFinishedTTL
		factoryCfg.RedisConfig = &redisCfg
	case config.StorageSQL:
		sqlCfg := sqlstorage.DefaultConfig()
		sqlCfg.Driver = cfg.SQLDriver
		sqlCfg.DSN = cfg.SQLDSN
		factoryCfg.SQLConfig = &sqlCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		_ = shutdownTracing(context.Background())
		return 1
	}
	if app.Sweeper != nil {
		app.Sweeper.Start()
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		Tracer:           telemetry.Tracer(nil),
		Authenticator:    app.AuthService,
		Catalog:          app.Catalog,
		ChallengeManager: app.ChallengeManager,
		Gateway:          app.Gateway,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage),
	)

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to close application", slog.String("error", err.Error()))
		exitCode = 1
	}
	if err := shutdownTracing(context.Background()); err != nil {
		logger.Error("failed to flush traces", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	return exitCode
}
