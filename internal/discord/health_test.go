package discord

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/client"
)

func TestHandleHealth_DegradedWithoutGateway(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer api.Close()

	bot := &Bot{Client: client.NewAPIClient(api.URL, ""), health: newHealthCounters()}
	bot.health.record()
	srv := NewHTTPServer("0", bot)

	rec := httptest.NewRecorder()
	srv.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "degraded", status.Status)
	assert.True(t, status.APIReachable)
	assert.False(t, status.Connected)
	assert.Equal(t, int64(1), status.CommandsReceived)
	assert.NotNil(t, status.LastCommandTime)
}
