package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/liarsdice-go/internal/api"
	"github.com/mcoot/liarsdice-go/internal/config"
	"github.com/mcoot/liarsdice-go/internal/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	app, err := factory.New(factory.ConfigFromEnv(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:                logger,
		AuthService:           app.AuthService,
		ProfileService:        app.ProfileService,
		MatchmakingController: app.MatchmakingController,
		GameController:        app.GameController,
		LeaderboardService:    app.LeaderboardService,
		Ledger:                app.Ledger,
		HubManager:            app.HubManager,
		AdminToken:            cfg.AdminToken,
		AllowedOrigin:         cfg.AllowedOrigin,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)
	server.OnShutdown(app.HubManager.Close)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Sweeper.Run(ctx)

	logger.Info("starting server",
		slog.String("addr", serverConfig.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.String("ledger", cfg.LedgerType),
		slog.String("lobby_id", cfg.LobbyID),
	)

	exitCode := 0
	if err := server.ListenAndRun(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		exitCode = 1
	}

	stop()
	app.Close()
	logger.Info("server stopped")
	os.Exit(exitCode)
}
