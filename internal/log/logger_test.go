package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf, ComponentIngest)

	l.Info("hello", FieldRecords, 3)
	assert.Contains(t, buf.String(), "component=ingest")
	assert.Contains(t, buf.String(), "records=3")

	buf.Reset()
	l.WithComponent(ComponentHTTP).With(FieldRequestID, "r1").Warn("slow")
	out := buf.String()
	assert.Contains(t, out, "component=http")
	assert.Contains(t, out, "request_id=r1")
	assert.Equal(t, ComponentIngest, l.Component())
}

func TestNewDefaultsComponent(t *testing.T) {
	l := New(Config{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil)})
	assert.Equal(t, ComponentApp, l.Component())
}

func TestFields(t *testing.T) {
	f := NewFields().
		WithError(errors.New("boom")).
		WithOperation(OpFetch).
		WithSnapshot("s1", "csv", 4, false).
		WithClientIP("10.0.0.1").
		WithRejected(2)

	assert.Equal(t, "boom", f[FieldError])
	assert.Equal(t, OpFetch, f[FieldOperation])
	assert.Equal(t, "s1", f[FieldSnapshotID])
	assert.Equal(t, false, f[FieldSample])
	assert.Equal(t, "10.0.0.1", f[FieldClientIP])
	assert.Equal(t, 2, f[FieldRejected])
	assert.Len(t, f.ToSlice(), 2*len(f))

	assert.NotContains(t, NewFields().WithError(nil), FieldError)
}

func TestLogHTTPEndLevels(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{200, "level=INFO"},
		{404, "level=WARN"},
		{500, "level=ERROR"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), bufferLogger(&buf, ComponentApp))
		r := httptest.NewRequest(http.MethodGet, "/api/summary?range=last-month", nil)

		NewStructuredLogger(Discard()).LogHTTPEnd(ctx, r, tc.status, 12, "10.0.0.1")

		assert.Contains(t, buf.String(), tc.level)
		assert.Contains(t, buf.String(), "component=http")
		assert.Contains(t, buf.String(), "path=/api/summary")
		assert.Contains(t, buf.String(), "client_ip=10.0.0.1")
	}
}

func TestLogRefreshWarnsOnSample(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf, ComponentIngest))

	sl.LogRefresh(context.Background(), SnapshotInfo{ID: "s1", Source: "sample", Records: 15, UsingSample: true}, 0)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "using_sample=true")
	assert.Contains(t, buf.String(), "records=15")
	assert.Contains(t, buf.String(), "rejected=0")
}

func TestLogErrorAddsErrorAndOperation(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf, ComponentHTTP))

	sl.LogError(context.Background(), "export failed", errors.New("disk full"), OpExport, nil)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `error="disk full"`)
	assert.Contains(t, out, "operation=export")
	assert.Contains(t, out, "component=http")
}

func TestMiddlewareStoresLogger(t *testing.T) {
	l := Discard().WithComponent(ComponentHTTP)
	var got *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if assert.NotNil(t, got) {
		assert.Equal(t, ComponentHTTP, got.Component())
	}
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}
