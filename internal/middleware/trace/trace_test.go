package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"expensedash/internal/log"
)

func TestHandlerAssignsRequestIDAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
	m := NewMiddleware(func(*http.Request) string { return "198.51.100.1" })

	var seen string
	h := log.Middleware(logger)(m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/charts/pie?x=1", nil))

	assert.True(t, strings.HasPrefix(seen, "req_"))
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status_code=404")
	assert.Contains(t, out, "client_ip=198.51.100.1")
	assert.Contains(t, out, "request_id="+seen)
	assert.Equal(t, int64(1), m.TotalRequests())
}

func TestHandlerKeepsIncomingRequestID(t *testing.T) {
	m := NewMiddleware(nil)
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestHandlerScopesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, nil)})

	h := log.Middleware(logger)(NewMiddleware(nil).Handler(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.FromContext(r.Context()).Info("inside handler")
		})))

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 2) {
		assert.Contains(t, lines[0], "inside handler")
		assert.Contains(t, lines[0], "request_id=abc-123")
		assert.Contains(t, lines[1], "HTTP request completed")
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}
