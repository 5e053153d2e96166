package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/Monsters_Go/internal/config"
	"github.com/osse101/Monsters_Go/internal/event"
	"github.com/osse101/Monsters_Go/internal/metrics"
	"github.com/osse101/Monsters_Go/internal/notify"
	"github.com/osse101/Monsters_Go/internal/sse"
)

// RegisterEventHandlers subscribes the metrics collector, the event stream hub and,
// when configured, the Discord notifier to the bus.
func RegisterEventHandlers(bus event.Bus, cfg *config.Config, hub *sse.Hub) error {
	metrics.NewEventMetricsCollector().Register(bus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	sse.NewSubscriber(hub).Register(bus)

	if !cfg.DiscordEnabled() {
		slog.Info(LogMsgDiscordNotifierDisabled)
		return nil
	}

	session, err := notify.NewDiscordSession(cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedOpenDiscord, err)
	}
	notify.NewDiscordNotifier(session, cfg.DiscordChannelID, cfg.DiscordAnnounceMints).Register(bus)
	slog.Info(LogMsgDiscordNotifierRegistered,
		"channel_id", cfg.DiscordChannelID,
		"announce_mints", cfg.DiscordAnnounceMints)

	return nil
}
