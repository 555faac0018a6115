package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestBreaker(clock *fakeClock) *CircuitBreaker {
	cb := NewCircuitBreaker(Config{Name: "http://localhost:3001/call", MaxFailures: 3, CooldownPeriod: 30 * time.Second})
	cb.now = clock.now
	return cb
}

var errEndpoint = errors.New("endpoint failed")

// call runs fn the way the cascade does: ask, then record.
func call(cb *CircuitBreaker, fn func() error) error {
	if err := cb.Allow(); err != nil {
		return err
	}
	err := fn()
	cb.Record(err)
	return err
}

func fail() error { return errEndpoint }

func succeed() error { return nil }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(&fakeClock{t: time.Unix(0, 0)})

	for i := range 2 {
		if err := call(cb, fail); !errors.Is(err, errEndpoint) {
			t.Fatalf("attempt %d: got %v", i, err)
		}
		if cb.GetState() != StateClosed {
			t.Fatalf("state after %d failures = %v", i+1, cb.GetState())
		}
	}

	_ = call(cb, fail)
	if cb.GetState() != StateOpen {
		t.Fatalf("state after 3 failures = %v, want open", cb.GetState())
	}

	called := false
	err := call(cb, func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Errorf("open breaker let a call through: err=%v called=%v", err, called)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker(&fakeClock{t: time.Unix(0, 0)})

	_ = call(cb, fail)
	_ = call(cb, fail)
	_ = call(cb, succeed)
	_ = call(cb, fail)
	_ = call(cb, fail)

	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed", cb.GetState())
	}
}

func openAndCoolDown(t *testing.T) (*CircuitBreaker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := newTestBreaker(clock)
	for range 3 {
		_ = call(cb, fail)
	}

	clock.t = clock.t.Add(29 * time.Second)
	if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Allow before cooldown = %v", err)
	}

	clock.t = clock.t.Add(time.Second)
	if err := cb.Allow(); err != nil {
		t.Fatalf("Allow after cooldown = %v", err)
	}
	if cb.GetState() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open", cb.GetState())
	}
	return cb, clock
}

func TestHalfOpenTrialCall(t *testing.T) {
	tests := []struct {
		name  string
		trial func() error
		want  State
	}{
		{"trial succeeds", succeed, StateClosed},
		{"trial fails", fail, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, _ := openAndCoolDown(t)
			if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
				t.Errorf("second trial call admitted: %v", err)
			}

			cb.Record(tt.trial())
			if cb.GetState() != tt.want {
				t.Errorf("state = %v, want %v", cb.GetState(), tt.want)
			}
		})
	}
}

func TestAbandonReleasesHalfOpenSlot(t *testing.T) {
	cb, _ := openAndCoolDown(t)

	cb.Abandon()
	if cb.GetState() != StateHalfOpen {
		t.Errorf("state = %v, want half-open", cb.GetState())
	}
	if err := cb.Allow(); err != nil {
		t.Errorf("Allow after abandon = %v", err)
	}
}

func TestAbandonKeepsFailureCount(t *testing.T) {
	cb := newTestBreaker(&fakeClock{t: time.Unix(0, 0)})
	_ = call(cb, fail)
	_ = call(cb, fail)

	_ = cb.Allow()
	cb.Abandon()
	_ = call(cb, fail)

	if cb.GetState() != StateOpen {
		t.Errorf("state = %v, want open", cb.GetState())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{StateClosed: "closed", StateOpen: "open", StateHalfOpen: "half-open", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
