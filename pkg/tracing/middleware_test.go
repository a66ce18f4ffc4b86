package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func TestMiddlewareOpensServerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var inner oteltrace.SpanContext
	handler := Middleware("test-http", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = oteltrace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/manifests", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// Downstream code (repository decorators, log enrichment) must see a
	// live span context on the request.
	assert.True(t, inner.IsValid())

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	assert.Equal(t, oteltrace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, inner.TraceID(), spans[0].SpanContext().TraceID())
}
