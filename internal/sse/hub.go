// Package sse streams registry events to HTTP clients as server-sent events.
package sse

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Monsters_Go/internal/metrics"
)

// Event represents an event sent over SSE
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	Events chan Event
	filter map[string]bool // nil means every type
}

func (c *Client) wants(eventType string) bool {
	return c.filter == nil || c.filter[eventType]
}

// Hub fans events out to connected clients. A client whose buffer is full misses
// events rather than stalling the others.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
	dropped atomic.Int64
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register adds a client interested in eventTypes, or in everything when empty.
// It returns nil once the hub is stopped.
func (h *Hub) Register(eventTypes []string) *Client {
	c := &Client{
		ID:     uuid.New().String(),
		Events: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		c.filter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.filter[t] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.clients[c.ID] = c
	metrics.SSEClients.Set(float64(len(h.clients)))
	return c
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		metrics.SSEClients.Set(float64(len(h.clients)))
	}
}

// Broadcast sends an event to every interested client
func (h *Hub) Broadcast(eventType string, payload any) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.wants(eventType) {
			continue
		}
		select {
		case c.Events <- evt:
		default:
			h.dropped.Add(1)
		}
	}
}

// Stop disconnects every client; later registrations are refused
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		close(c.Events)
		delete(h.clients, id)
	}
	metrics.SSEClients.Set(0)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped counts events skipped because a client's buffer was full
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// FormatSSEMessage renders an event in the text/event-stream wire format
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("id: %s\nevent: %s\ndata: %s\n\n", evt.ID, evt.Type, data)), nil
}
