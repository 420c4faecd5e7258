package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"worklog/internal/platform/metrics"
	"worklog/internal/platform/requestctx"
	"worklog/internal/transport/http/api"
)

// Rate limits count requests in fixed windows per key, in process memory.
// Windows that have ended are dropped lazily, at most once per window span.

const maxSniffedBody = 64 * 1024

type keyFunc func(r *http.Request) string

type fixedWindow struct {
	ends time.Time
	hits int
}

type limiter struct {
	rule    string
	limit   int
	span    time.Duration
	key     keyFunc
	metrics *metrics.Collector
	now     func() time.Time

	mu      sync.Mutex
	windows map[string]*fixedWindow
	swept   time.Time
}

func newLimiter(rule string, limit int, span time.Duration, key keyFunc, collector *metrics.Collector) *limiter {
	return &limiter{
		rule:    rule,
		limit:   limit,
		span:    span,
		key:     key,
		metrics: collector,
		now:     time.Now,
		windows: map[string]*fixedWindow{},
	}
}

// RateLimit caps every request per signed-in user, or per client IP for
// anonymous callers.
func RateLimit(limit int, window time.Duration, collector *metrics.Collector) func(http.Handler) http.Handler {
	l := newLimiter("general", limit, window, actorKey, collector)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.admit(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RouteRateLimit adds tighter rules for a few route classes on top of
// RateLimit. Sign-in and sign-up are limited per IP and per submitted email
// to a quarter of baseLimit. User and settings writes, and CSV or PDF
// exports, are limited per user to half of it.
func RouteRateLimit(baseLimit int, window time.Duration, collector *metrics.Collector) func(http.Handler) http.Handler {
	credentials := max(baseLimit/4, 1)
	heavy := max(baseLimit/2, 1)
	rules := map[routeClass][]*limiter{
		classCredentials: {
			newLimiter("credentials_ip", credentials, window, ipKey, collector),
			newLimiter("credentials_email", credentials, window, emailKey, collector),
		},
		classAccount: {newLimiter("account_writes", heavy, window, actorKey, collector)},
		classExport:  {newLimiter("exports", heavy, window, actorKey, collector)},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, l := range rules[classifyRoute(r)] {
				if !l.admit(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// hit counts one request for key and returns the hits left in the current
// window and the time until it ends.
func (l *limiter) hit(key string) (left int, resetIn time.Duration, allowed bool) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) >= l.span {
		for k, win := range l.windows {
			if !now.Before(win.ends) {
				delete(l.windows, k)
			}
		}
		l.swept = now
	}

	win, ok := l.windows[key]
	if !ok || !now.Before(win.ends) {
		win = &fixedWindow{ends: now.Add(l.span)}
		l.windows[key] = win
	}
	win.hits++
	return max(l.limit-win.hits, 0), win.ends.Sub(now), win.hits <= l.limit
}

// admit answers 429 itself when the caller's window is used up.
func (l *limiter) admit(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}
	key := l.key(r)
	if key == "" {
		key = ipKey(r)
	}

	left, resetIn, allowed := l.hit(key)
	resetSec := ceilSeconds(resetIn)
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(left))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if allowed {
		return true
	}

	retryAfter := max(resetSec, 1)
	h.Set("Retry-After", strconv.Itoa(retryAfter))
	l.metrics.Throttled(l.rule)
	requestctx.Logger(r.Context(), slog.Default()).Warn("rate limit exceeded",
		"rule", l.rule,
		"key", key,
		"method", r.Method,
		"path", r.URL.Path,
		"limit", l.limit,
	)
	api.FailWithDetails(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later",
		map[string]any{"rule": l.rule, "retryAfterSeconds": retryAfter}, GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

type routeClass int

const (
	classOther routeClass = iota
	classCredentials
	classAccount
	classExport
)

func classifyRoute(r *http.Request) routeClass {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	switch r.Method {
	case http.MethodGet:
		if strings.HasSuffix(path, ".csv") || strings.HasPrefix(path, "/statements/") {
			return classExport
		}
		return classOther
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return classOther
	}

	switch {
	case path == "/auth/login", path == "/auth/register":
		return classCredentials
	case path == "/settings", path == "/users", strings.HasPrefix(path, "/users/"):
		return classAccount
	}
	return classOther
}

func actorKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return ipKey(r)
}

// ipKey trusts the first X-Forwarded-For hop.
func ipKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return "ip:" + first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return "ip:" + host
	}
	return "ip:" + r.RemoteAddr
}

// emailKey reads the submitted email from a JSON body and puts the body back
// for the handler. Without one it falls back to the client IP.
func emailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ipKey(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxSniffedBody))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ipKey(r)
	}
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return ipKey(r)
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		return ipKey(r)
	}
	return "email:" + email
}
