package tokens

import (
	"context"
	"strings"
	"testing"
)

// estimating returns a counter that never loads an encoding.
func estimating() *Counter {
	c := &Counter{}
	c.once.Do(func() {})
	return c
}

func TestEstimate(t *testing.T) {
	tests := map[string]int{
		"":          1,
		"abc":       2,
		"İstanbul":  3,
		"ğüşöçıİĞÜ": 4,
	}
	c := estimating()
	for text, want := range tests {
		if got := c.Count(context.Background(), text); got != want {
			t.Errorf("Count(%q) = %d, want %d", text, got, want)
		}
	}
}

func TestNewest(t *testing.T) {
	// Each message estimates to 4 tokens, 8 with overhead.
	msgs := []string{"aaaaaaaaa", "bbbbbbbbb", "ccccccccc"}

	tests := []struct {
		budget int
		want   int
	}{
		{0, 0},
		{7, 0},
		{8, 1},
		{16, 2},
		{23, 2},
		{24, 3},
		{1000, 3},
	}
	c := estimating()
	for _, tt := range tests {
		if got := c.Newest(context.Background(), msgs, tt.budget); got != tt.want {
			t.Errorf("Newest(budget=%d) = %d, want %d", tt.budget, got, tt.want)
		}
	}
}

func TestCountIsPositive(t *testing.T) {
	c := NewCounter("gpt-4o-mini")
	text := strings.Repeat("Ankara için hava durumu ", 10)
	if got := c.Count(context.Background(), text); got <= 0 {
		t.Errorf("Count = %d", got)
	}
}
