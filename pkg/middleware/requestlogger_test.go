package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/adityabima03/YuhuKopi/pkg/logger"
)

func serveAndDecode(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	base := logger.NewWithWriter("test-svc", "info", &buf)

	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRequestLogger_CarriesCorrelationID(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	req := httptest.NewRequest(http.MethodGet, "/api/coffees", nil).WithContext(ctx)

	out := serveAndDecode(t, req)
	assert.Equal(t, "corr-123", out["correlation_id"])
	assert.Equal(t, "test-svc", out["service"])
}

func TestRequestLogger_SessionIDFromHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/coffees", nil)
	req.Header.Set(HeaderSessionID, "sess-abc")

	out := serveAndDecode(t, req)
	assert.Equal(t, "sess-abc", out["session_id"])
}

func TestRequestLogger_ContextSessionWinsOverHeader(t *testing.T) {
	ctx := logger.WithSessionID(context.Background(), "from-ctx")
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	req.Header.Set(HeaderSessionID, "from-header")

	out := serveAndDecode(t, req)
	assert.Equal(t, "from-ctx", out["session_id"])
}

func TestRequestLogger_NoSession_OmitsField(t *testing.T) {
	out := serveAndDecode(t, httptest.NewRequest(http.MethodGet, "/", nil))
	_, ok := out["session_id"]
	assert.False(t, ok)
}

func TestRequestLogger_TraceFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	out := serveAndDecode(t, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}
