package metrics

import (
	"context"

	"github.com/osse101/Monsters_Go/internal/event"
	"github.com/osse101/Monsters_Go/internal/logger"
)

// EventMetricsCollector subscribes to registry events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all registry events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{
		event.MonsterMinted,
		event.MonsterRenamed,
		event.MonsterSlain,
		event.MonsterTransferred,
		event.CustodyWithdrawn,
	} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.MonsterMinted:
		var p event.MintedPayloadV1
		if p, err = event.DecodePayload[event.MintedPayloadV1](evt.Payload); err == nil {
			MonstersMinted.WithLabelValues(p.Method).Inc()
		}
	case event.MonsterRenamed:
		MonstersRenamed.Inc()
	case event.MonsterSlain:
		var p event.SlainPayloadV1
		if p, err = event.DecodePayload[event.SlainPayloadV1](evt.Payload); err == nil {
			MonstersSlain.WithLabelValues(p.Weapon).Inc()
		}
	case event.MonsterTransferred:
		MonstersTransferred.Inc()
	}

	if err != nil {
		log.Debug(LogMsgEventPayloadUndecodable, "type", evt.Type, "error", err)
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		return nil
	}
	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
