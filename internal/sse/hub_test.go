package sse

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/event"
)

func TestHub_BroadcastHonorsFilter(t *testing.T) {
	hub := NewHub()
	all := hub.Register(nil)
	slainOnly := hub.Register([]string{string(event.MonsterSlain)})
	require.Equal(t, 2, hub.ClientCount())

	hub.Broadcast(string(event.MonsterMinted), "m")
	hub.Broadcast(string(event.MonsterSlain), "s")

	assert.Len(t, all.Events, 2)
	require.Len(t, slainOnly.Events, 1)
	evt := <-slainOnly.Events
	assert.Equal(t, string(event.MonsterSlain), evt.Type)
	assert.Equal(t, "s", evt.Payload)
}

func TestHub_FullBufferDrops(t *testing.T) {
	hub := NewHub()
	c := hub.Register(nil)

	for i := 0; i < ClientEventBuffer+3; i++ {
		hub.Broadcast("x", i)
	}

	assert.Len(t, c.Events, ClientEventBuffer)
	assert.Equal(t, int64(3), hub.Dropped())
}

func TestHub_UnregisterAndStop(t *testing.T) {
	hub := NewHub()
	a := hub.Register(nil)
	b := hub.Register(nil)

	hub.Unregister(a.ID)
	_, open := <-a.Events
	assert.False(t, open)
	hub.Unregister(a.ID)

	hub.Stop()
	_, open = <-b.Events
	assert.False(t, open)
	assert.Zero(t, hub.ClientCount())
	assert.Nil(t, hub.Register(nil))
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "1", Type: "monster.slain", Timestamp: 7, Payload: map[string]int{"token_id": 1}})
	require.NoError(t, err)

	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "id: 1\nevent: monster.slain\ndata: {"))
	assert.True(t, strings.HasSuffix(s, "}\n\n"))
	assert.Contains(t, s, `"token_id":1`)
}

func TestSubscriber_ForwardsBusEvents(t *testing.T) {
	hub := NewHub()
	c := hub.Register(nil)
	bus := event.NewMemoryBus()
	NewSubscriber(hub).Register(bus)

	slayer := domain.MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, bus.Publish(context.Background(), event.NewSlainEvent(slayer, 1, 528, "Rex", "Long Sword")))

	require.Len(t, c.Events, 1)
	evt := <-c.Events
	assert.Equal(t, string(event.MonsterSlain), evt.Type)
	payload, ok := evt.Payload.(event.SlainPayloadV1)
	require.True(t, ok)
	assert.Equal(t, 528, payload.LootID)
}
