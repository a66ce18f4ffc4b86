package tracing

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Middleware wraps HTTP handlers with OpenTelemetry tracing. Each
// request gets a server span, which repository decorators and the
// logger's trace enrichment attach to.
func Middleware(operationName string, next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, operationName)
}
