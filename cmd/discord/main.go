// Command discord runs the read-only Monsters slash-command bot.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/Monsters_Go/internal/config"
	"github.com/osse101/Monsters_Go/internal/discord"
	"github.com/osse101/Monsters_Go/internal/logger"
)

func main() {
	cfg, err := config.LoadBot()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, "monsters-discord", cfg.Version, cfg.Environment, false))
	slog.Info("Configured API URL", "url", cfg.APIURL)
	if cfg.APIKey == "" {
		slog.Warn("API_KEY not set, discord bot requests may fail")
	}

	bot, err := discord.New(discord.Config{
		Token:  cfg.Token,
		AppID:  cfg.AppID,
		APIURL: cfg.APIURL,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	httpServer := discord.NewHTTPServer(cfg.HealthPort, bot)
	httpServer.Start()
	defer httpServer.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx, cfg.ForceUpdate); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Discord bot stopped")
}
