package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/Monsters_Go/internal/bootstrap"
	"github.com/osse101/Monsters_Go/internal/config"
	"github.com/osse101/Monsters_Go/internal/monster"
	"github.com/osse101/Monsters_Go/internal/server"
	"github.com/osse101/Monsters_Go/internal/sse"
	"github.com/osse101/Monsters_Go/internal/weakness"
)

// @title Monsters API
// @version 1.0
// @description Registry of 10,000 monsters that Loot holders can claim, name and slay.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		log.Fatalf("Environment check failed: %v", err)
	}

	logCloser, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer logCloser.Close()

	for _, w := range warnings {
		slog.Warn("Configuration warning", "warning", w)
	}

	ctx := context.Background()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(1)
	}

	oracle, err := bootstrap.NewLootOracle(ctx, cfg)
	if err != nil {
		slog.Error("Failed to build loot oracle", "error", err)
		os.Exit(1)
	}
	if closer, ok := oracle.(interface{ Close() }); ok {
		defer closer.Close()
	}

	table := weakness.Default()
	reg, err := bootstrap.RestoreRegistry(ctx, cfg, store, oracle, table)
	if err != nil {
		slog.Error("Failed to restore registry, has cmd/setup been run?", "error", err)
		os.Exit(1)
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}
	hub := sse.NewHub()
	if err := bootstrap.RegisterEventHandlers(eventBus, cfg, hub); err != nil {
		slog.Error("Failed to register event handlers", "error", err)
		os.Exit(1)
	}

	monsterService := monster.NewService(reg, table, publisher, monster.CacheConfig{
		Size: cfg.MetadataCacheSize,
		TTL:  cfg.MetadataCacheTTL,
	})

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, store, monsterService, hub)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:         srv,
		Events:         hub,
		MonsterService: monsterService,
		Store:          store,
	})
}
