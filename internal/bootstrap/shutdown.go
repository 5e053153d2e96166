package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/Monsters_Go/internal/monster"
	"github.com/osse101/Monsters_Go/internal/repository"
	"github.com/osse101/Monsters_Go/internal/server"
	"github.com/osse101/Monsters_Go/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server         *server.Server
	Events         *sse.Hub
	MonsterService monster.Service
	Store          repository.MonsterStore
}

// GracefulShutdown ends open event streams, stops the HTTP server so no new writes
// arrive, then the monster service (which flushes its event publisher), and closes
// the store last. Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	// streams never go idle, so they would hold Server.Stop until the deadline
	if components.Events != nil {
		components.Events.Stop()
	}

	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.MonsterService.Shutdown(ctx); err != nil {
		slog.Error(LogMsgMonsterServiceFailed, "error", err)
	}

	if err := components.Store.Close(); err != nil {
		slog.Error(LogMsgStoreCloseFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
