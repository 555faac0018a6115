package cascade

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/8adimka/Go_Weather_Assistant/internal/circuitbreaker"
	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
)

const base = "http://tools.test"

type fakeTransport struct {
	mu       sync.Mutex
	calls    []string
	succeeds map[string]tools.Result
	block    bool
}

func (f *fakeTransport) Post(ctx context.Context, endpoint string, req tools.Request) (tools.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return tools.Result{}, ctx.Err()
	}
	if res, ok := f.succeeds[endpoint]; ok {
		return res, nil
	}
	return tools.Result{}, &StatusError{Endpoint: endpoint, StatusCode: 404}
}

type fakeFallback struct {
	calls  int
	result tools.Result
}

func (f *fakeFallback) Call(context.Context, tools.Request) tools.Result {
	f.calls++
	return f.result
}

func newCascade(tr Transport, fb Fallback) *Cascade {
	return New(Config{
		BaseURL: base + "/",
		Paths:   []string{"/tools/call", "/call", "mcp/tools/call", "/api/tools/call"},
		Timeout: time.Second,
	}, tr, fb)
}

func TestEndpoints(t *testing.T) {
	want := []string{base + "/tools/call", base + "/call", base + "/mcp/tools/call", base + "/api/tools/call"}
	if diff := cmp.Diff(want, newCascade(&fakeTransport{}, &fakeFallback{}).Endpoints()); diff != "" {
		t.Errorf("endpoints mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstSuccessWins(t *testing.T) {
	ok := tools.TextResult("remote answer")
	tr := &fakeTransport{succeeds: map[string]tools.Result{base + "/call": ok, base + "/api/tools/call": tools.TextResult("later")}}
	fb := &fakeFallback{}

	out := newCascade(tr, fb).Run(context.Background(), tools.Request{Name: "get_weather_by_city", Arguments: map[string]any{"city": "ankara"}})

	if out.State != StateSucceeded {
		t.Fatalf("state = %v", out.State)
	}
	if diff := cmp.Diff(ok, out.Result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{base + "/tools/call", base + "/call"}, tr.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if fb.calls != 0 || out.UsedFallback {
		t.Error("fallback must not run after a success")
	}
}

func TestRemoteErrorResultCountsAsSuccess(t *testing.T) {
	remote := tools.ErrorResultf("Hata: Şehir bulunamadı: x")
	tr := &fakeTransport{succeeds: map[string]tools.Result{base + "/tools/call": remote}}
	out := newCascade(tr, &fakeFallback{}).Run(context.Background(), tools.Request{Name: "get_weather_by_city"})

	if out.State != StateSucceeded || !out.Result.IsError || len(out.Attempts) != 1 {
		t.Errorf("unexpected outcome: %+v", out)
	}
}

func TestExhaustionUsesFallbackOnce(t *testing.T) {
	tests := []struct {
		name      string
		fallback  tools.Result
		wantState State
	}{
		{"fallback succeeds", tools.TextResult("🌍 Paris, Fransa"), StateSucceeded},
		{"fallback fails", tools.ErrorResultf("Fallback hatası: Paris şehri bulunamadı"), StateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransport{}
			fb := &fakeFallback{result: tt.fallback}

			out := newCascade(tr, fb).Run(context.Background(), tools.Request{Name: "get_daily_forecast_by_city", Arguments: map[string]any{"city": "Paris"}})

			if len(tr.calls) != 4 || fb.calls != 1 {
				t.Fatalf("endpoint calls = %d, fallback calls = %d; want 4 and 1", len(tr.calls), fb.calls)
			}
			if out.State != tt.wantState || !out.UsedFallback {
				t.Errorf("state = %v, fallback = %v", out.State, out.UsedFallback)
			}
			if diff := cmp.Diff(tt.fallback, out.Result); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
			for _, a := range out.Attempts {
				var se *StatusError
				if !errors.As(a.Err, &se) || se.StatusCode != 404 {
					t.Errorf("attempt %s err = %v", a.Endpoint, a.Err)
				}
			}
		})
	}
}

func TestUnsupportedToolIsRejected(t *testing.T) {
	tr := &fakeTransport{}
	fb := &fakeFallback{}

	res := newCascade(tr, fb).Invoke(context.Background(), "get_moon_phase", nil)

	if !res.IsError || res.Text() != "Hata: Bilinmeyen araç: get_moon_phase" {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(tr.calls) != 0 || fb.calls != 0 {
		t.Error("unsupported tools must not reach endpoints or the fallback")
	}
}

func TestCancelledContextStops(t *testing.T) {
	tr := &fakeTransport{}
	fb := &fakeFallback{result: tools.TextResult("x")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newCascade(tr, fb).Run(ctx, tools.Request{Name: "get_weather_by_city"})

	if out.State != StateFailed || !out.Result.IsError {
		t.Errorf("unexpected outcome: %+v", out)
	}
	if len(tr.calls) != 0 || fb.calls != 0 {
		t.Errorf("calls after cancellation: transport=%d fallback=%d", len(tr.calls), fb.calls)
	}
}

func TestAttemptTimeout(t *testing.T) {
	tr := &fakeTransport{block: true}
	fb := &fakeFallback{result: tools.TextResult("fallback")}
	c := New(Config{BaseURL: base, Paths: []string{"/call"}, Timeout: 20 * time.Millisecond}, tr, fb)

	out := c.Run(context.Background(), tools.Request{Name: "get_weather_by_city"})

	if len(out.Attempts) != 1 || !errors.Is(out.Attempts[0].Err, context.DeadlineExceeded) || !errorsx.IsTimeout(out.Attempts[0].Err) {
		t.Fatalf("attempts = %+v", out.Attempts)
	}
	if out.Result.Text() != "fallback" {
		t.Errorf("result = %+v", out.Result)
	}
}

func TestOpenBreakerSkipsEndpoint(t *testing.T) {
	tr := &fakeTransport{}
	fb := &fakeFallback{result: tools.TextResult("fallback")}
	c := New(Config{BaseURL: base, Paths: []string{"/call"}, MaxFailures: 2, Cooldown: time.Hour}, tr, fb)

	for range 2 {
		c.Run(context.Background(), tools.Request{Name: "get_weather_by_city"})
	}
	if len(tr.calls) != 2 {
		t.Fatalf("transport calls = %d, want 2", len(tr.calls))
	}

	out := c.Run(context.Background(), tools.Request{Name: "get_weather_by_city"})
	if len(tr.calls) != 2 {
		t.Errorf("open endpoint was called again")
	}
	if len(out.Attempts) != 1 || !out.Attempts[0].Skipped || !errors.Is(out.Attempts[0].Err, circuitbreaker.ErrCircuitOpen) {
		t.Errorf("attempts = %+v", out.Attempts)
	}
	if fb.calls != 3 {
		t.Errorf("fallback calls = %d, want 3", fb.calls)
	}
}

func TestEveryInvocationTriesEachFailingEndpoint(t *testing.T) {
	ok := tools.TextResult("remote answer")
	tr := &fakeTransport{succeeds: map[string]tools.Result{base + "/call": ok}}
	c := newCascade(tr, &fakeFallback{})

	const runs = 5
	for i := range runs {
		out := c.Run(context.Background(), tools.Request{Name: "get_hourly_forecast", Arguments: map[string]any{"latitude": 41.0, "longitude": 29.0}})
		if out.State != StateSucceeded || len(out.Attempts) != 2 {
			t.Fatalf("run %d: state = %v, attempts = %d; want succeeded after 2", i, out.State, len(out.Attempts))
		}
		if out.Attempts[0].Skipped {
			t.Fatalf("run %d: failing endpoint was skipped", i)
		}
	}

	want := make([]string, 0, 2*runs)
	for range runs {
		want = append(want, base+"/tools/call", base+"/call")
	}
	if diff := cmp.Diff(want, tr.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCallerCancellationDoesNotTripBreaker(t *testing.T) {
	tr := &fakeTransport{block: true}
	c := New(Config{BaseURL: base, Paths: []string{"/call"}, MaxFailures: 1, Cooldown: time.Hour}, tr, &fakeFallback{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	c.Run(ctx, tools.Request{Name: "get_weather_by_city"})

	tr.mu.Lock()
	tr.block = false
	tr.succeeds = map[string]tools.Result{base + "/call": tools.TextResult("ok")}
	tr.mu.Unlock()

	out := c.Run(context.Background(), tools.Request{Name: "get_weather_by_city"})
	if out.State != StateSucceeded || out.Attempts[0].Skipped {
		t.Errorf("endpoint skipped after a caller abort: %+v", out.Attempts)
	}
	if got := c.breakers[0].GetState(); got != circuitbreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", got)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateTryingEndpoint: "trying_endpoint",
		StateFallback:       "fallback",
		StateSucceeded:      "succeeded",
		StateFailed:         "failed",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q", s, s.String())
		}
	}
}
