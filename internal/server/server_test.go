package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/event"
	"github.com/osse101/Monsters_Go/internal/handler"
	"github.com/osse101/Monsters_Go/internal/loot"
	"github.com/osse101/Monsters_Go/internal/monster"
	"github.com/osse101/Monsters_Go/internal/registry"
	"github.com/osse101/Monsters_Go/internal/sse"
	"github.com/osse101/Monsters_Go/internal/weakness"
)

const (
	testAPIKey = "test-api-key"
	testHolder = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
)

type fakeStore struct{ err error }

func (f fakeStore) Ping(context.Context) error { return f.err }

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func newTestServer(t *testing.T, store handler.Pinger) http.Handler {
	t.Helper()
	admin := domain.MustParseAddress("0x00000000000000000000000000000000000000ad")
	oracle := loot.NewStaticOracle(map[domain.LootID]domain.Address{528: domain.MustParseAddress(testHolder)})
	reg, err := registry.New(admin, loot.NewAdapter(oracle), weakness.Default())
	require.NoError(t, err)

	pub, err := event.NewResilientPublisher(event.NewMemoryBus(), 1, 10*time.Millisecond, t.TempDir()+"/deadletter.jsonl")
	require.NoError(t, err)
	svc := monster.NewService(reg, weakness.Default(), pub, monster.CacheConfig{Size: 8, TTL: time.Minute})
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	return NewRouter(testAPIKey, nil, store, svc, sse.NewHub())
}

func send(h http.Handler, method, path string, body io.Reader, withKey bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if withKey {
		req.Header.Set(HeaderAPIKey, testAPIKey)
	}
	req.Header.Set(handler.HeaderCallerAddress, testHolder)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	h := newTestServer(t, fakeStore{})

	assert.Equal(t, http.StatusUnauthorized, send(h, "GET", "/api/v1/collection", nil, false).Code)
	assert.Equal(t, http.StatusOK, send(h, "GET", "/api/v1/collection", nil, true).Code)
	assert.Equal(t, http.StatusOK, send(h, "GET", "/healthz", nil, false).Code)
}

func TestRouter_Readiness(t *testing.T) {
	assert.Equal(t, http.StatusOK, send(newTestServer(t, fakeStore{}), "GET", "/readyz", nil, false).Code)
	assert.Equal(t, http.StatusServiceUnavailable,
		send(newTestServer(t, fakeStore{err: assert.AnError}), "GET", "/readyz", nil, false).Code)
}

func TestRouter_MintThenRead(t *testing.T) {
	h := newTestServer(t, fakeStore{})

	rec := send(h, "POST", "/api/v1/loot/528/claim", nil, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = send(h, "GET", "/api/v1/monsters/528", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"alive"`)

	rec = send(h, "POST", "/api/v1/monsters/1/mint", stringsReader(`{"value":"0.1"}`), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = send(h, "GET", "/api/v1/owners/"+testHolder+"/balance", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"balance":2`)

	rec = send(h, "GET", "/api/v1/monsters/1/image.svg", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentTypeOptions))
}

func TestRouter_OversizedBody(t *testing.T) {
	h := newTestServer(t, fakeStore{})
	body := `{"name":"` + strings.Repeat("x", MaxRequestBodyBytes) + `"}`

	rec := send(h, "PUT", "/api/v1/monsters/1/name", stringsReader(body), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	req := httptest.NewRequest("GET", "/api/v1/collection", nil)
	req.Header.Set(HeaderAPIKey, "secret-key-123")
	req.Header.Set(HeaderAuthorization, "Bearer mytoken")
	req.Header.Set(handler.HeaderCallerAddress, testHolder)
	req.Header.Set("User-Agent", "TestAgent")

	loggingMiddleware(okHandler).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, LogMsgRequestHeaders)
	assert.NotContains(t, out, "secret-key-123")
	assert.NotContains(t, out, "Bearer mytoken")
	assert.Contains(t, out, "TestAgent")
	assert.Contains(t, out, testHolder)
}

func TestLoggingMiddleware_SkipsProbes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	loggingMiddleware(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", nil))
	assert.Empty(t, buf.String())
}
