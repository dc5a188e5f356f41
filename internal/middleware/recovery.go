package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/2beens/loadtrack/internal/telemetry/metrics"
)

// PanicRecovery turns a handler panic into a 500 and counts it.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				route := "unknown"
				if current := mux.CurrentRoute(req); current != nil && current.GetName() != "" {
					route = current.GetName()
				}
				log.WithField("route", route).
					Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())

				span := trace.SpanFromContext(req.Context())
				span.SetStatus(codes.Error, fmt.Sprintf("panic: %v", r))

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}
