package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	toolCallsTotal   metric.Int64Counter
	toolCallDuration metric.Float64Histogram

	cascadeAttemptsTotal  metric.Int64Counter
	cascadeFallbacksTotal metric.Int64Counter

	openaiRequestsTotal   metric.Int64Counter
	openaiRequestDuration metric.Float64Histogram
}

// NewMetrics creates and initializes all metrics
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.httpRequestsTotal, err = meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}

	if m.httpRequestDuration, err = meter.Float64Histogram(
		"http_server_latency_ms",
		metric.WithDescription("HTTP request latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.toolCallsTotal, err = meter.Int64Counter(
		"weather_tool_calls_total",
		metric.WithDescription("Weather tool invocations by tool and outcome"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}

	if m.toolCallDuration, err = meter.Float64Histogram(
		"weather_tool_call_duration_ms",
		metric.WithDescription("Weather tool execution time in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.cascadeAttemptsTotal, err = meter.Int64Counter(
		"tool_cascade_attempts_total",
		metric.WithDescription("Remote tool endpoint attempts by endpoint and outcome"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}

	if m.cascadeFallbacksTotal, err = meter.Int64Counter(
		"tool_cascade_fallbacks_total",
		metric.WithDescription("Local fallback executions after every endpoint failed"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}

	if m.openaiRequestsTotal, err = meter.Int64Counter(
		"openai_requests_total",
		metric.WithDescription("Total OpenAI API requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, err
	}

	if m.openaiRequestDuration, err = meter.Float64Histogram(
		"openai_request_duration_ms",
		metric.WithDescription("OpenAI API request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// HTTPMetricsMiddleware returns middleware for collecting HTTP metrics
func (m *Metrics) HTTPMetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			attrs := metric.WithAttributes(
				attribute.String("method", r.Method),
				attribute.String("path", r.URL.Path),
				attribute.String("status_code", strconv.Itoa(rw.statusCode)),
			)
			m.httpRequestsTotal.Add(r.Context(), 1, attrs)
			m.httpRequestDuration.Record(r.Context(), milliseconds(time.Since(start)), attrs)
		})
	}
}

// RecordToolCall records one local tool execution.
func (m *Metrics) RecordToolCall(ctx context.Context, tool string, isError bool, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.Bool("is_error", isError),
	)
	m.toolCallsTotal.Add(ctx, 1, attrs)
	m.toolCallDuration.Record(ctx, milliseconds(duration), attrs)
}

// RecordCascadeAttempt records one remote endpoint attempt. outcome is
// "success", "failure" or "skipped".
func (m *Metrics) RecordCascadeAttempt(ctx context.Context, endpoint, outcome string) {
	if m == nil {
		return
	}
	m.cascadeAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	))
}

// RecordCascadeFallback records a local fallback run.
func (m *Metrics) RecordCascadeFallback(ctx context.Context, tool string, succeeded bool) {
	if m == nil {
		return
	}
	m.cascadeFallbacksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.Bool("succeeded", succeeded),
	))
}

// RecordOpenAIRequest records one chat completion call.
func (m *Metrics) RecordOpenAIRequest(ctx context.Context, model string, succeeded bool, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("model", model),
		attribute.Bool("succeeded", succeeded),
	)
	m.openaiRequestsTotal.Add(ctx, 1, attrs)
	m.openaiRequestDuration.Record(ctx, milliseconds(duration), attrs)
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// responseWriter captures the status code for metrics
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
