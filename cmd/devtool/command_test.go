package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/event"
	"github.com/osse101/Monsters_Go/internal/monster"
)

// stubCommand records its invocation and returns err
type stubCommand struct {
	name string
	err  error
	args []string
}

func (c *stubCommand) Name() string        { return c.name }
func (c *stubCommand) Description() string { return "stub " + c.name }
func (c *stubCommand) Run(_ context.Context, args []string) error {
	c.args = args
	return c.err
}

func TestRegistry_ListKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry(&WaitForDBCommand{}, &MigrateCommand{}, &HealthCheckCommand{})

	var names []string
	for _, c := range r.List() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"wait-for-db", "migrate", "health-check"}, names)

	_, ok := r.Get("nope")
	assert.False(t, ok)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	first, second := &stubCommand{name: "a"}, &stubCommand{name: "a"}
	r := NewRegistry(first, &stubCommand{name: "b"}, second)

	require.Len(t, r.List(), 2)
	got, _ := r.Get("a")
	assert.Same(t, second, got)
}

func TestRegistry_Dispatch(t *testing.T) {
	ok := &stubCommand{name: "ok"}
	failing := &stubCommand{name: "fail", err: errors.New("boom")}
	misused := &stubCommand{name: "misuse", err: fmt.Errorf("%w: bad flag", errUsage)}
	r := NewRegistry(ok, failing, misused)
	ctx := context.Background()

	var out bytes.Buffer
	assert.Equal(t, 0, r.Dispatch(ctx, []string{"ok", "-x", "1"}, &out))
	assert.Equal(t, []string{"-x", "1"}, ok.args)

	assert.Equal(t, 1, r.Dispatch(ctx, []string{"fail"}, &out))
	assert.Equal(t, 2, r.Dispatch(ctx, []string{"misuse"}, &out))
	assert.Equal(t, 2, r.Dispatch(ctx, []string{"unknown"}, &out))

	out.Reset()
	assert.Equal(t, 2, r.Dispatch(ctx, nil, &out))
	assert.Contains(t, out.String(), "Usage: devtool")
	assert.Contains(t, out.String(), "stub misuse")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	interrupted := &stubCommand{name: "wait", err: context.Canceled}
	r.Register(interrupted)
	assert.Equal(t, 130, r.Dispatch(cancelled, []string{"wait"}, &out))
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/api/v1/collection":
			_ = json.NewEncoder(w).Encode(monster.Collection{Name: "Monsters", MaxSupply: 10000, CustodyEther: "0"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	require.NoError(t, (&HealthCheckCommand{}).Run(context.Background(), []string{"-url", srv.URL}))
}

func TestHealthCheck_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	assert.Error(t, (&HealthCheckCommand{}).Run(context.Background(), []string{"-url", srv.URL}))
}

func TestMigrate_RequiresSubcommand(t *testing.T) {
	assert.ErrorIs(t, (&MigrateCommand{}).Run(context.Background(), nil), errUsage)
}

func TestDeadLetters(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, (&DeadLettersCommand{}).Run(context.Background(), []string{"-file", dir + "/missing.jsonl"}))

	path := dir + "/deadletter.jsonl"
	dl, err := event.NewDeadLetterWriter(path)
	require.NoError(t, err)
	require.NoError(t, dl.Write(event.NewRenamedEvent(domain.MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"), 1, "x"), 2, errors.New("down")))
	require.NoError(t, dl.Close())

	assert.NoError(t, (&DeadLettersCommand{}).Run(context.Background(), []string{"-file", path}))
}
