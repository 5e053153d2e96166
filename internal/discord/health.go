package discord

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthStatus represents the bot's health status
type HealthStatus struct {
	Status           string     `json:"status"`
	Uptime           string     `json:"uptime"`
	Connected        bool       `json:"connected"`
	CommandsReceived int64      `json:"commands_received"`
	LastCommandTime  *time.Time `json:"last_command_time,omitempty"`
	APIReachable     bool       `json:"api_reachable"`
}

type healthCounters struct {
	mu          sync.Mutex
	started     time.Time
	commands    int64
	lastCommand time.Time
}

func newHealthCounters() *healthCounters {
	return &healthCounters{started: time.Now()}
}

func (h *healthCounters) record() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands++
	h.lastCommand = time.Now()
}

func (h *healthCounters) snapshot() (uptime time.Duration, commands int64, last *time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.lastCommand.IsZero() {
		t := h.lastCommand
		last = &t
	}
	return time.Since(h.started), h.commands, last
}

// HTTPServer exposes the bot's health endpoint
type HTTPServer struct {
	server *http.Server
	bot    *Bot
}

// NewHTTPServer creates the bot's internal HTTP server
func NewHTTPServer(port string, bot *Bot) *HTTPServer {
	r := chi.NewRouter()
	srv := &HTTPServer{
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		bot: bot,
	}
	r.Get("/healthz", srv.HandleHealth)
	return srv
}

// Start serves in the background
func (s *HTTPServer) Start() {
	go func() {
		slog.Info("Starting Discord internal HTTP server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Discord internal HTTP server failed", "error", err)
		}
	}()
}

// Stop shuts the server down
func (s *HTTPServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Discord internal HTTP server shutdown failed", "error", err)
	}
}

// HandleHealth reports gateway and API reachability. Degraded answers 503.
func (s *HTTPServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	connected := s.bot.Session != nil && s.bot.Session.DataReady

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	apiReachable := s.bot.Client != nil && s.bot.Client.Health(ctx) == nil

	uptime, commands, last := s.bot.health.snapshot()
	health := HealthStatus{
		Status:           "healthy",
		Uptime:           uptime.Round(time.Second).String(),
		Connected:        connected,
		CommandsReceived: commands,
		LastCommandTime:  last,
		APIReachable:     apiReachable,
	}

	w.Header().Set("Content-Type", "application/json")
	if !connected || !apiReachable {
		health.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(health)
}
