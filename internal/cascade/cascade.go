// Package cascade invokes a weather tool against a list of remote endpoints
// in order and falls back to a direct provider call when all of them fail.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/8adimka/Go_Weather_Assistant/internal/circuitbreaker"
	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
	"github.com/8adimka/Go_Weather_Assistant/internal/metrics"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
)

const DefaultAttemptTimeout = 15 * time.Second

// State is a step of the cascade state machine.
type State int

const (
	StateTryingEndpoint State = iota
	StateFallback
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateTryingEndpoint:
		return "trying_endpoint"
	case StateFallback:
		return "fallback"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Attempt records one endpoint try. Skipped is set when the endpoint's
// breaker was open and no request was sent.
type Attempt struct {
	Endpoint string
	Err      error
	Skipped  bool
	Duration time.Duration
}

// Outcome is the full trace of one invocation.
type Outcome struct {
	Result       tools.Result
	State        State
	Attempts     []Attempt
	UsedFallback bool
}

// Config configures a Cascade.
type Config struct {
	BaseURL string
	Paths   []string
	// Timeout bounds each endpoint attempt. Zero selects DefaultAttemptTimeout.
	Timeout time.Duration
	// MaxFailures opens an endpoint's breaker after that many consecutive
	// failures. Zero disables the breakers and every endpoint is always tried.
	MaxFailures int
	Cooldown    time.Duration
}

// Cascade is safe for concurrent use.
type Cascade struct {
	endpoints []string
	breakers  []*circuitbreaker.CircuitBreaker
	transport Transport
	fallback  Fallback
	timeout   time.Duration
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option customizes a Cascade.
type Option func(*Cascade)

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cascade) { c.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Cascade) { c.tracer = t }
}

func New(cfg Config, transport Transport, fallback Fallback, opts ...Option) *Cascade {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	endpoints := Endpoints(cfg.BaseURL, cfg.Paths)
	breakers := make([]*circuitbreaker.CircuitBreaker, len(endpoints))
	if cfg.MaxFailures > 0 {
		for i, endpoint := range endpoints {
			breakers[i] = circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
				Name:           endpoint,
				MaxFailures:    cfg.MaxFailures,
				CooldownPeriod: cfg.Cooldown,
			})
		}
	}

	c := &Cascade{
		endpoints: endpoints,
		breakers:  breakers,
		transport: transport,
		fallback:  fallback,
		timeout:   timeout,
		tracer:    noop.NewTracerProvider().Tracer("cascade"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints joins the base URL with each path suffix, keeping their order.
func Endpoints(baseURL string, paths []string) []string {
	base := strings.TrimRight(baseURL, "/")
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		out = append(out, base+p)
	}
	return out
}

// Endpoints returns the candidate URLs in the order they are tried.
func (c *Cascade) Endpoints() []string {
	return append([]string(nil), c.endpoints...)
}

// Invoke runs the cascade and returns only the result.
func (c *Cascade) Invoke(ctx context.Context, name string, args map[string]any) tools.Result {
	return c.Run(ctx, tools.Request{Name: name, Arguments: args}).Result
}

// Run tries every endpoint in order until one succeeds, then the fallback.
// Failures always end up in Result with IsError set.
func (c *Cascade) Run(ctx context.Context, req tools.Request) Outcome {
	ctx, span := c.tracer.Start(ctx, "cascade.run", trace.WithAttributes(attribute.String("tool.name", req.Name)))
	defer span.End()

	out := c.run(ctx, req)

	span.SetAttributes(
		attribute.String("cascade.state", out.State.String()),
		attribute.Int("cascade.attempts", len(out.Attempts)),
		attribute.Bool("cascade.fallback", out.UsedFallback),
	)
	if out.State == StateFailed {
		span.SetStatus(codes.Error, out.Result.Text())
	}
	return out
}

func (c *Cascade) run(ctx context.Context, req tools.Request) Outcome {
	var out Outcome

	// The tool catalogue is closed: names outside it never reach an endpoint.
	if _, err := tools.ParseName(req.Name); err != nil {
		slog.WarnContext(ctx, "Unsupported tool requested", "tool", req.Name)
		out.Result = tools.ErrorResult(err)
		out.State = StateFailed
		return out
	}
	if req.Arguments == nil {
		req.Arguments = map[string]any{}
	}

	state := StateTryingEndpoint
	next := 0
	for {
		switch state {
		case StateTryingEndpoint:
			if err := ctx.Err(); err != nil {
				out.Result = tools.ErrorResult(err)
				state = StateFailed
				continue
			}
			if next >= len(c.endpoints) {
				slog.WarnContext(ctx, "All tool endpoints failed, using fallback", "tool", req.Name, "attempts", len(out.Attempts))
				state = StateFallback
				continue
			}

			result, attempt := c.attempt(ctx, next, req)
			out.Attempts = append(out.Attempts, attempt)
			next++
			if attempt.Err == nil {
				out.Result = result
				state = StateSucceeded
			}

		case StateFallback:
			if err := ctx.Err(); err != nil {
				out.Result = tools.ErrorResult(err)
				state = StateFailed
				continue
			}
			out.UsedFallback = true
			out.Result = c.fallback.Call(ctx, req)
			c.metrics.RecordCascadeFallback(ctx, req.Name, !out.Result.IsError)
			if out.Result.IsError {
				state = StateFailed
			} else {
				state = StateSucceeded
			}

		default:
			out.State = state
			return out
		}
	}
}

func (c *Cascade) attempt(ctx context.Context, i int, req tools.Request) (tools.Result, Attempt) {
	endpoint := c.endpoints[i]
	breaker := c.breakers[i]
	at := Attempt{Endpoint: endpoint}

	if breaker == nil {
		return c.post(ctx, endpoint, req, at)
	}
	if err := breaker.Allow(); err != nil {
		at.Err = err
		at.Skipped = true
		c.metrics.RecordCascadeAttempt(ctx, endpoint, "skipped")
		slog.DebugContext(ctx, "Skipping tool endpoint", "endpoint", endpoint, "tool", req.Name)
		return tools.Result{}, at
	}

	result, at := c.post(ctx, endpoint, req, at)
	// A caller abort says nothing about the endpoint's health.
	if ctx.Err() == nil {
		breaker.Record(at.Err)
	} else {
		breaker.Abandon()
	}
	return result, at
}

func (c *Cascade) post(ctx context.Context, endpoint string, req tools.Request, at Attempt) (tools.Result, Attempt) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.transport.Post(attemptCtx, endpoint, req)
	at.Duration = time.Since(start)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("%w: %w", errorsx.ErrTimeout, err)
	}
	at.Err = err

	if err != nil {
		outcome := "failure"
		if errorsx.IsTimeout(err) {
			outcome = "timeout"
		}
		c.metrics.RecordCascadeAttempt(ctx, endpoint, outcome)
		slog.WarnContext(ctx, "Tool endpoint failed", "endpoint", endpoint, "tool", req.Name, "error", err, "duration", at.Duration)
		return tools.Result{}, at
	}

	c.metrics.RecordCascadeAttempt(ctx, endpoint, "success")
	slog.InfoContext(ctx, "Tool endpoint succeeded", "endpoint", endpoint, "tool", req.Name, "duration", at.Duration)
	return result, at
}
