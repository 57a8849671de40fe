package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metricsSet holds the service counters. Without a configured SDK the otel
// API no-ops, so instrumentation is always safe to call.
type metricsSet struct {
	requests       metric.Int64Counter
	oracleFailures metric.Int64Counter
}

func newMetrics() *metricsSet {
	meter := otel.Meter("github.com/usmedlab/docsearch/internal/server")

	requests, _ := meter.Int64Counter("docsearch.http.requests",
		metric.WithDescription("HTTP requests served, by route"))
	oracleFailures, _ := meter.Int64Counter("docsearch.oracle.failures",
		metric.WithDescription("Oracle calls that failed at the API boundary"))

	return &metricsSet{
		requests:       requests,
		oracleFailures: oracleFailures,
	}
}

// countRequests records one increment per served request, attributed to the
// matched route pattern.
func (s *Service) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.requests.Add(r.Context(), 1,
			metric.WithAttributes(attribute.String("route", route)))
	})
}
