package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/8adimka/Go_Weather_Assistant/internal/cachex"
	"github.com/8adimka/Go_Weather_Assistant/internal/location"
)

// CachedProvider is a cache-aside decorator around a Provider. Cache errors
// are logged and never fail the call.
type CachedProvider struct {
	next  Provider
	store cachex.Store
}

var _ Provider = (*CachedProvider)(nil)

func NewCachedProvider(next Provider, store cachex.Store) *CachedProvider {
	return &CachedProvider{next: next, store: store}
}

func (p *CachedProvider) CurrentWeather(ctx context.Context, coords location.Coordinates) (*Snapshot, error) {
	return p.cached(ctx, "weather:current", coords, p.next.CurrentWeather)
}

func (p *CachedProvider) HourlyForecast(ctx context.Context, coords location.Coordinates) (*Snapshot, error) {
	return p.cached(ctx, "weather:hourly", coords, p.next.HourlyForecast)
}

func (p *CachedProvider) DailyForecast(ctx context.Context, coords location.Coordinates) (*Snapshot, error) {
	return p.cached(ctx, "weather:daily", coords, p.next.DailyForecast)
}

func (p *CachedProvider) cached(
	ctx context.Context,
	prefix string,
	coords location.Coordinates,
	fetch func(context.Context, location.Coordinates) (*Snapshot, error),
) (*Snapshot, error) {
	key := cachex.Key(prefix, fmt.Sprintf("%.4f,%.4f", coords.Latitude, coords.Longitude))

	var snap Snapshot
	err := p.store.Get(ctx, key, &snap)
	if err == nil {
		slog.DebugContext(ctx, "Weather cache hit", "prefix", prefix)
		return &snap, nil
	}
	if !errors.Is(err, cachex.ErrCacheMiss) {
		slog.WarnContext(ctx, "Weather cache read failed", "prefix", prefix, "error", err)
	}

	fresh, err := fetch(ctx, coords)
	if err != nil {
		return nil, err
	}

	if err := p.store.Set(ctx, key, fresh); err != nil {
		slog.WarnContext(ctx, "Weather cache write failed", "prefix", prefix, "error", err)
	}
	return fresh, nil
}
