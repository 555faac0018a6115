package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
	"github.com/8adimka/Go_Weather_Assistant/internal/metrics"
)

// Dispatcher executes tool calls against a Registry and converts every
// failure into an error Result.
type Dispatcher struct {
	registry *Registry
	metrics  *metrics.Metrics
}

func NewDispatcher(registry *Registry, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{registry: registry, metrics: m}
}

// Call runs the named tool. It never returns a Go error.
func (d *Dispatcher) Call(ctx context.Context, req Request) Result {
	start := time.Now()

	name, err := ParseName(req.Name)
	if err != nil {
		slog.WarnContext(ctx, "Unsupported tool requested", "tool", req.Name)
		return ErrorResult(err)
	}

	tool := d.registry.Get(name)
	if tool == nil {
		return ErrorResult(&UnsupportedError{Name: req.Name})
	}

	args := req.Arguments
	if args == nil {
		args = map[string]any{}
	}

	text, err := tool.Execute(ctx, args)
	d.metrics.RecordToolCall(ctx, string(name), err != nil, time.Since(start))
	if err != nil {
		slog.Log(ctx, failureLevel(err), "Tool call failed", "tool", name, "error", err)
		return ErrorResult(err)
	}

	slog.InfoContext(ctx, "Tool call completed", "tool", name, "duration", time.Since(start))
	return TextResult(text)
}

// failureLevel keeps caller mistakes out of the error stream.
func failureLevel(err error) slog.Level {
	switch {
	case errorsx.IsInvalidInput(err), errorsx.IsNotFound(err), errorsx.IsUnsupported(err):
		return slog.LevelInfo
	case errorsx.IsUnavailable(err), errorsx.IsTimeout(err):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Registry exposes the underlying registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Catalog describes the registered tools.
func (d *Dispatcher) Catalog() []Descriptor {
	return d.registry.Catalog()
}
