package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingEmbed(t *testing.T) {
	e := pingEmbed(42*time.Millisecond, 7*time.Millisecond, nil)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "42 ms", e.Fields[0].Value)
	assert.Equal(t, "7 ms", e.Fields[1].Value)
	assert.Equal(t, ColorAlive, e.Color)

	e = pingEmbed(42*time.Millisecond, time.Second, errors.New("connection refused"))
	assert.Equal(t, "unreachable", e.Fields[1].Value)
	assert.Equal(t, ColorSlain, e.Color)
}

func TestPingCommand_Definition(t *testing.T) {
	cmd, handler := PingCommand()
	assert.Equal(t, "ping", cmd.Name)
	assert.NotNil(t, handler)
}
