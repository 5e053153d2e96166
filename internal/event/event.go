package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Monster event types
const (
	MonsterMinted      Type = "monster.minted"
	MonsterRenamed     Type = "monster.renamed"
	MonsterSlain       Type = "monster.slain"
	MonsterTransferred Type = "monster.transferred"
	CustodyWithdrawn   Type = "custody.withdrawn"
)

// Metadata keys
const (
	MetadataKeyRequestID = "request_id"
)

// MintedPayloadV1 is the typed payload for mint events
type MintedPayloadV1 struct {
	Owner     string `json:"owner"`
	TokenID   int    `json:"token_id"`
	Method    string `json:"method"`
	PaidWei   string `json:"paid_wei"`
	Timestamp int64  `json:"timestamp"`
}

// RenamedPayloadV1 is the typed payload for rename events
type RenamedPayloadV1 struct {
	Owner     string `json:"owner"`
	TokenID   int    `json:"token_id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

// SlainPayloadV1 is the typed payload for slay events
type SlainPayloadV1 struct {
	Slayer    string `json:"slayer"`
	TokenID   int    `json:"token_id"`
	LootID    int    `json:"loot_id"`
	Name      string `json:"name"`
	Weapon    string `json:"weapon"`
	Timestamp int64  `json:"timestamp"`
}

// TransferredPayloadV1 is the typed payload for transfer events
type TransferredPayloadV1 struct {
	From      string `json:"from"`
	To        string `json:"to"`
	TokenID   int    `json:"token_id"`
	Timestamp int64  `json:"timestamp"`
}

// WithdrawnPayloadV1 is the typed payload for withdrawal events
type WithdrawnPayloadV1 struct {
	Administrator string `json:"administrator"`
	AmountWei     string `json:"amount_wei"`
	Timestamp     int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewMintedEvent creates a new mint event
func NewMintedEvent(owner domain.Address, id domain.TokenID, method, paidWei string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MonsterMinted,
		Payload: MintedPayloadV1{
			Owner:     owner.Hex(),
			TokenID:   int(id),
			Method:    method,
			PaidWei:   paidWei,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewRenamedEvent creates a new rename event
func NewRenamedEvent(owner domain.Address, id domain.TokenID, name string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MonsterRenamed,
		Payload: RenamedPayloadV1{
			Owner:     owner.Hex(),
			TokenID:   int(id),
			Name:      name,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewSlainEvent creates a new slay event
func NewSlainEvent(slayer domain.Address, id domain.TokenID, lootID domain.LootID, name, weapon string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MonsterSlain,
		Payload: SlainPayloadV1{
			Slayer:    slayer.Hex(),
			TokenID:   int(id),
			LootID:    int(lootID),
			Name:      name,
			Weapon:    weapon,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewTransferredEvent creates a new transfer event
func NewTransferredEvent(from, to domain.Address, id domain.TokenID) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MonsterTransferred,
		Payload: TransferredPayloadV1{
			From:      from.Hex(),
			To:        to.Hex(),
			TokenID:   int(id),
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewWithdrawnEvent creates a new withdrawal event
func NewWithdrawnEvent(admin domain.Address, amountWei string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CustodyWithdrawn,
		Payload: WithdrawnPayloadV1{
			Administrator: admin.Hex(),
			AmountWei:     amountWei,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// DeliveryError names the subscribers that failed one publish. Subscribers not
// listed received the event.
type DeliveryError struct {
	Type   Type
	Failed []Handler
	Errs   []error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf(LogMsgHandlerErrorFormat, len(e.Errs), e.Type, e.Errs)
}

func (e *DeliveryError) Unwrap() []error {
	return e.Errs
}

// deliver runs handlers in order and collects the ones that failed.
func deliver(ctx context.Context, evt Event, handlers []Handler) error {
	var failed *DeliveryError
	for _, handler := range handlers {
		if err := handler(ctx, evt); err != nil {
			if failed == nil {
				failed = &DeliveryError{Type: evt.Type}
			}
			failed.Failed = append(failed.Failed, handler)
			failed.Errs = append(failed.Errs, err)
		}
	}
	if failed == nil {
		return nil
	}
	return failed
}

// Publish runs every subscriber of the event's type synchronously. A failure is
// returned as a *DeliveryError.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	return deliver(ctx, event, handlers)
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
