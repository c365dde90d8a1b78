package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kdbplan/kdbplan/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func serve(h http.Handler, remote, host string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
	if remote != "" {
		r.RemoteAddr = remote
	}
	if host != "" {
		r.Host = host
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"127.0.0.1/32", "::1/128"}, false, logger.NewNop())(okHandler)

	tests := []struct {
		remote string
		want   int
	}{
		{"127.0.0.1:5000", http.StatusNoContent},
		{"[::1]:5000", http.StatusNoContent},
		{"192.168.0.10:5000", http.StatusForbidden},
		{"garbage", http.StatusForbidden},
	}
	for _, tt := range tests {
		if got := serve(h, tt.remote, "").Code; got != tt.want {
			t.Errorf("remote %s: status = %d, want %d", tt.remote, got, tt.want)
		}
	}
}

func TestAllowOnlyCIDRSPassthrough(t *testing.T) {
	h := AllowOnlyCIDRS(nil, false, logger.NewNop())(okHandler)
	if got := serve(h, "8.8.8.8:1", "").Code; got != http.StatusNoContent {
		t.Errorf("status = %d, want passthrough", got)
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"localhost", "*.example.com"}, logger.NewNop())(okHandler)

	tests := []struct {
		host string
		want int
	}{
		{"localhost:8080", http.StatusNoContent},
		{"LOCALHOST", http.StatusNoContent},
		{"plan.example.com", http.StatusNoContent},
		{"example.com", http.StatusForbidden},
		{"evil.test", http.StatusForbidden},
	}
	for _, tt := range tests {
		if got := serve(h, "", tt.host).Code; got != tt.want {
			t.Errorf("host %s: status = %d, want %d", tt.host, got, tt.want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	h := RateLimit(RateLimitConfig{
		Burst:             2,
		RefillPerIPPerMin: 60,
		Now:               func() time.Time { return now },
	})(okHandler)

	for i := 0; i < 2; i++ {
		if got := serve(h, "127.0.0.1:1", "").Code; got != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i, got)
		}
	}

	w := serve(h, "127.0.0.1:1", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q", w.Header().Get("Retry-After"))
	}

	if got := serve(h, "127.0.0.2:1", "").Code; got != http.StatusNoContent {
		t.Errorf("another client should have its own bucket, got %d", got)
	}

	now = now.Add(time.Second)
	if got := serve(h, "127.0.0.1:1", "").Code; got != http.StatusNoContent {
		t.Errorf("bucket should refill, got %d", got)
	}
}

func TestLogCapturesStatus(t *testing.T) {
	var seen *statusWriter
	h := Log(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		seen = w.(*statusWriter)
		_, _ = w.Write([]byte("hello"))
	}))

	serve(h, "", "")
	if seen.status != http.StatusOK || seen.bytes != 5 {
		t.Errorf("status=%d bytes=%d", seen.status, seen.bytes)
	}
}
