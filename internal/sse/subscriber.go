package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/Monsters_Go/internal/event"
)

// StreamedTypes are the bus events forwarded to SSE clients
var StreamedTypes = []event.Type{
	event.MonsterMinted,
	event.MonsterRenamed,
	event.MonsterSlain,
	event.MonsterTransferred,
	event.CustodyWithdrawn,
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Register subscribes to every streamed event type
func (s *Subscriber) Register(bus event.Bus) {
	types := make([]string, 0, len(StreamedTypes))
	for _, t := range StreamedTypes {
		bus.Subscribe(t, s.forward)
		types = append(types, string(t))
	}
	slog.Info(LogMsgSubscriberRegistered, "types", types)
}

// forward rebroadcasts the typed payload under the bus event's type name
func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "clients", s.hub.ClientCount())
	return nil
}
