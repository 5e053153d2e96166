package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/osse101/Monsters_Go/internal/handler"
	"github.com/osse101/Monsters_Go/internal/logger"
)

// proxySet holds the networks allowed to report the client address in X-Forwarded-For
type proxySet []netip.Prefix

// parseProxies accepts bare IPs and CIDRs; entries that parse as neither are logged and skipped.
func parseProxies(entries []string) proxySet {
	var set proxySet
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(raw); err == nil {
			set = append(set, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(raw); err == nil {
			set = append(set, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		slog.Warn(LogMsgBadTrustedProxy, "entry", raw)
	}
	return set
}

func (p proxySet) contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP is the peer address, or the last X-Forwarded-For hop when the peer is a trusted proxy.
func (p proxySet) clientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !p.contains(remote) {
		return remote
	}
	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remote
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// isPublic reports whether path skips the API key check
func isPublic(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// isWrite reports whether the request may change registry state
func isWrite(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// clientWindow counts one client's traffic since start
type clientWindow struct {
	start      time.Time
	requests   int
	writes     int
	failedAuth int
}

// Guard keeps per-client counters over a fixed window. Each client's window starts
// with its first request, so one busy client never resets another's counts.
type Guard struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	clients map[string]*clientWindow
}

// NewGuard creates a Guard counting over window
func NewGuard(window time.Duration) *Guard {
	return &Guard{
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientWindow),
	}
}

// observe returns the live window for key. Caller must hold the mutex.
func (g *Guard) observe(key string) *clientWindow {
	now := g.now()
	if len(g.clients) >= GuardPruneThreshold {
		for k, w := range g.clients {
			if now.Sub(w.start) > g.window {
				delete(g.clients, k)
			}
		}
	}
	w, ok := g.clients[key]
	if !ok || now.Sub(w.start) > g.window {
		w = &clientWindow{start: now}
		g.clients[key] = w
	}
	return w
}

// RecordFailedAuth counts a rejected API key and returns the count in the current window
func (g *Guard) RecordFailedAuth(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.observe(ip)
	w.failedAuth++
	if w.failedAuth == FailedAuthAlertThreshold || (w.failedAuth > FailedAuthAlertThreshold && w.failedAuth%FailedAuthAlertThreshold == 0) {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", w.failedAuth)
	}
	return w.failedAuth
}

// Allow counts a request and reports whether it is within the limits. Writes have
// their own, lower budget on top of the overall one.
func (g *Guard) Allow(ip string, write bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.observe(ip)
	w.requests++
	if write {
		w.writes++
	}

	over := w.requests > MaxRequestsPerWindow || (write && w.writes > MaxWritesPerWindow)
	if over && w.requests%HighRateLogEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "requests", w.requests, "writes", w.writes)
	}
	return !over
}

// AuthMiddleware rejects requests without the shared API key, except for public paths
func AuthMiddleware(apiKey string, proxies proxySet, guard *Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := proxies.clientIP(r)
			failures := guard.RecordFailedAuth(ip)
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"path", r.URL.Path,
				"ip", ip,
				"has_key", provided != "",
				"has_caller", r.Header.Get(handler.HeaderCallerAddress) != "",
				"failures", failures)
			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// RateLimitMiddleware enforces the per-client budgets of guard
func RateLimitMiddleware(proxies proxySet, guard *Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := proxies.clientIP(r)
			if !guard.Allow(ip, isWrite(r)) {
				logger.FromContext(r.Context()).Warn(LogMsgRateLimited,
					"ip", ip,
					"method", r.Method,
					"caller", r.Header.Get(handler.HeaderCallerAddress))
				w.Header().Set(HeaderRetryAfter, RetryAfterSeconds)
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimitMiddleware caps request bodies at maxBytes
func BodyLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets browser hardening headers. The content policy also
// covers the rendered SVG, whose text comes from user-chosen monster names.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentTypeOptions, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueDeny)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			if !strings.HasPrefix(r.URL.Path, SwaggerPathPrefix) {
				h.Set(HeaderContentSecurityPolicy, HeaderValueCSP)
			}
			next.ServeHTTP(w, r)
		})
	}
}
