package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/Monsters_Go/internal/handler"
	"github.com/osse101/Monsters_Go/internal/logger"
	"github.com/osse101/Monsters_Go/internal/metrics"
	"github.com/osse101/Monsters_Go/internal/monster"
	"github.com/osse101/Monsters_Go/internal/sse"
)

// Server is the HTTP surface of the monster registry
type Server struct {
	httpServer     *http.Server
	store          handler.Pinger
	monsterService monster.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, store handler.Pinger, monsterService monster.Service, events *sse.Hub) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(apiKey, trustedProxies, store, monsterService, events),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		store:          store,
		monsterService: monsterService,
	}
}

// NewRouter builds the middleware stack and routes. Middleware runs outermost first.
// A nil events hub leaves the stream endpoint unmounted.
func NewRouter(apiKey string, trustedProxies []string, store handler.Pinger, svc monster.Service, events *sse.Hub) http.Handler {
	r := chi.NewRouter()

	proxies := parseProxies(trustedProxies)
	guard := NewGuard(GuardWindow)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, proxies, guard))
	r.Use(RateLimitMiddleware(proxies, guard))
	r.Use(BodyLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(store))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/collection", handler.HandleGetCollection(svc))
		r.Get("/owners/{address}/balance", handler.HandleGetBalance(svc))
		if events != nil {
			r.Get("/events", sse.Handler(events))
		}

		r.Route("/monsters/{id}", func(r chi.Router) {
			r.Get("/", handler.HandleGetMonster(svc))
			r.Get("/metadata", handler.HandleGetMetadata(svc))
			r.Get("/image.svg", handler.HandleGetImage(svc))
			r.Get("/can-slay/{lootId}", handler.HandleCanSlay(svc))

			r.Post("/mint", handler.HandleMint(svc))
			r.Post("/reserved-mint", handler.HandleReservedMint(svc))
			r.Put("/name", handler.HandleSetName(svc))
			r.Post("/slay", handler.HandleSlay(svc))
			r.Post("/transfer", handler.HandleTransfer(svc))
		})

		r.Route("/loot/{lootId}", func(r chi.Router) {
			r.Get("/", handler.HandleGetLoot(svc))
			r.Post("/claim", handler.HandleClaimWithLoot(svc))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/withdraw", handler.HandleWithdraw(svc))
			r.Get("/cache/stats", handler.HandleGetCacheStats(svc))
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

// Unwrap lets http.ResponseController reach the underlying writer's Flush.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func isQuietPath(path string) bool {
	return strings.HasPrefix(path, "/healthz") ||
		strings.HasPrefix(path, "/readyz") ||
		strings.HasPrefix(path, "/metrics")
}

// sanitizeHeaders redacts credentials. The caller address is not a secret and stays visible.
func sanitizeHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
			out[k] = []string{RedactedValue}
		} else {
			out[k] = v
		}
	}
	return out
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		if caller := r.Header.Get(handler.HeaderCallerAddress); caller != "" {
			ctx = logger.WithCaller(ctx, caller)
		}
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())
		log.Debug(LogMsgRequestHeaders, "headers", sanitizeHeaders(r.Header))

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
