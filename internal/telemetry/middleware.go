package telemetry

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// unmatchedRoute labels requests no route pattern matched, keeping the
// route label bounded.
const unmatchedRoute = "unmatched"

// statusWriter captures the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}

// Middleware wraps next with a server span, request metrics and an access
// log line per request. Routes are labeled by the ServeMux pattern that
// matched. A nil tracer uses the global provider; nil metrics are skipped.
func Middleware(tracer trace.Tracer, metrics *Metrics, logger *slog.Logger, next http.Handler) http.Handler {
	if tracer == nil {
		tracer = otel.Tracer("github.com/crease/crease")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		parent := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(parent, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		sw := &statusWriter{ResponseWriter: w}
		req := r.WithContext(ctx)
		serve(next, sw, req, span, logger)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		route := req.Pattern
		if route == "" {
			route = unmatchedRoute
		} else {
			span.SetName(route)
		}
		elapsed := time.Since(start)

		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", sw.status),
		)
		if sw.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sw.status))
		}
		if metrics != nil {
			metrics.ObserveRequest(r.Method, route, sw.status, elapsed)
		}
		logger.Info("http request",
			"method", r.Method, "path", r.URL.Path, "route", route,
			"status", sw.status, "duration_ms", elapsed.Milliseconds())
	})
}

// serve runs next and turns a panic into a 500 response.
func serve(next http.Handler, sw *statusWriter, r *http.Request, span trace.Span, logger *slog.Logger) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		span.AddEvent("panic", trace.WithAttributes(attribute.String("panic.value", fmt.Sprint(rec))))
		logger.Error("handler panic", "method", r.Method, "path", r.URL.Path, "panic", rec)
		if sw.status == 0 {
			http.Error(sw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}()
	next.ServeHTTP(sw, r)
}
