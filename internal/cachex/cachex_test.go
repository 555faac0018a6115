package cachex

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type sample struct {
	Name  string    `json:"name"`
	Temps []float64 `json:"temps"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	var got sample
	if err := m.Get(ctx, "missing", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	want := sample{Name: "İstanbul", Temps: []float64{12.5, 13}}
	if err := m.Set(ctx, "k", want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got.Temps[0] = 99
	var again sample
	if err := m.Get(ctx, "k", &again); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Temps[0] != 12.5 {
		t.Error("cached value was mutated through a previous Get result")
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after Delete, got %v", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(20 * time.Millisecond)
	if err := m.Set(ctx, "k", sample{Name: "x"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	var got sample
	if err := m.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestKey(t *testing.T) {
	k1 := Key("weather:current", "41.0082,28.9784")
	k2 := Key("weather:current", "41.0082,28.9784")
	k3 := Key("weather:daily", "41.0082,28.9784")

	if k1 != k2 {
		t.Error("same input should give the same key")
	}
	if k1 == k3 {
		t.Error("different prefixes should give different keys")
	}
	if !strings.HasPrefix(k1, "weather:current:") || strings.Contains(k1, "41.0082") {
		t.Errorf("unexpected key %q", k1)
	}
}
