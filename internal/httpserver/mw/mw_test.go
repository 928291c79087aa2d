package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8", "192.168.1.5"}, false, logger.NewNop())(okHandler)

	tests := []struct {
		remote string
		want   int
	}{
		{"10.1.2.3:5555", http.StatusNoContent},
		{"192.168.1.5:80", http.StatusNoContent},
		{"192.168.1.6:80", http.StatusForbidden},
		{"203.0.113.7:80", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/shortcuts", nil)
			req.RemoteAddr = tt.remote
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAllowOnlyCIDRSIgnoresProxyHeadersUnlessTrusted(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "203.0.113.7:80"
	req.Header.Set("X-Forwarded-For", "10.0.0.1")

	rec := httptest.NewRecorder()
	AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.NewNop())(okHandler).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	AllowOnlyCIDRS([]string{"10.0.0.0/8"}, true, logger.NewNop())(okHandler).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"NewTab.local", "*.example.com"}, logger.NewNop())(okHandler)

	tests := []struct {
		host string
		want int
	}{
		{"newtab.local", http.StatusNoContent},
		{"newtab.local:8080", http.StatusNoContent},
		{"tab.example.com", http.StatusNoContent},
		{"example.com", http.StatusForbidden},
		{"evil-example.com", http.StatusForbidden},
		{"other.local", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/settings", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestEmptyListsArePassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for _, h := range []http.Handler{
		AllowOnlyCIDRS(nil, false, logger.NewNop())(okHandler),
		EnforceHost([]string{" "}, logger.NewNop())(okHandler),
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	h := RateLimit(RateLimitConfig{
		Burst:             2,
		RefillPerIPPerMin: 60,
		Now:               func() time.Time { return now },
	}, logger.NewNop())(okHandler)

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/relay", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1").Code)
	rec := send("10.0.0.1:2")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = send("10.0.0.1:3")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1").Code, "buckets are per client")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:4").Code, "one token refilled")
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5").Code)
}

func TestLogRecordsStatus(t *testing.T) {
	var seen int
	h := Log(logger.NewNop(), false)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sw, ok := w.(*statusWriter)
		require.True(t, ok)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("x"))
		seen = sw.status
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, http.StatusTeapot, seen)
}
