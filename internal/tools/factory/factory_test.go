package factory

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/8adimka/Go_Weather_Assistant/internal/cachex"
	"github.com/8adimka/Go_Weather_Assistant/internal/config"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
	"github.com/8adimka/Go_Weather_Assistant/internal/weather"
)

func TestCreateAllTools(t *testing.T) {
	registry := NewFactory(&config.Config{}, nil).CreateAllTools()

	var got []tools.Name
	for _, d := range registry.Catalog() {
		got = append(got, d.Name)
	}
	if diff := cmp.Diff(tools.Names, got); diff != "" {
		t.Errorf("catalogue mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderCaching(t *testing.T) {
	cfg := &config.Config{WeatherTimezone: "Europe/Istanbul"}

	if _, ok := NewFactory(cfg, nil).provider().(*weather.OpenMeteoClient); !ok {
		t.Error("expected the bare client without a store")
	}
	if _, ok := NewFactory(cfg, cachex.NewMemory(time.Minute)).provider().(*weather.CachedProvider); !ok {
		t.Error("expected a cached provider with a store")
	}
}
