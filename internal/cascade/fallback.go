package cascade

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
	"github.com/8adimka/Go_Weather_Assistant/internal/location"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
	"github.com/8adimka/Go_Weather_Assistant/internal/weather"
	"github.com/8adimka/Go_Weather_Assistant/internal/weather/format"
)

// FallbackFooter closes every text produced by the local fallback.
const FallbackFooter = "🤖 Agent Fallback API (Geocoding + Open-Meteo)"

// Fallback answers a tool call once every endpoint has failed. It reports
// failures in-band.
type Fallback interface {
	Call(ctx context.Context, req tools.Request) tools.Result
}

// UnsupportedFallbackError is returned for tools the fallback cannot serve.
type UnsupportedFallbackError struct {
	Name string
}

func (e *UnsupportedFallbackError) Error() string {
	return fmt.Sprintf("Desteklenmeyen tool: %s", e.Name)
}

func (e *UnsupportedFallbackError) Unwrap() error {
	return errorsx.ErrUnsupported
}

// LocalFallback geocodes the city and queries the provider directly. Only
// the two city tools are supported.
type LocalFallback struct {
	geocoder weather.Geocoder
	provider weather.Provider
}

var _ Fallback = (*LocalFallback)(nil)

// NewLocalFallback expects a provider configured with the "auto" timezone.
func NewLocalFallback(geocoder weather.Geocoder, provider weather.Provider) *LocalFallback {
	return &LocalFallback{geocoder: geocoder, provider: provider}
}

func (f *LocalFallback) Call(ctx context.Context, req tools.Request) tools.Result {
	text, err := f.call(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "Fallback failed", "tool", req.Name, "error", err)
		return tools.ErrorResultf("Fallback hatası: %s", err.Error())
	}
	return tools.TextResult(text)
}

func (f *LocalFallback) call(ctx context.Context, req tools.Request) (string, error) {
	var (
		fetch  func(context.Context, location.Coordinates) (*weather.Snapshot, error)
		render func(*weather.Snapshot) string
	)
	switch tools.Name(req.Name) {
	case tools.GetWeatherByCity:
		fetch, render = f.provider.CurrentWeather, format.Current
	case tools.GetDailyForecastByCity:
		fetch, render = f.provider.DailyForecast, format.Daily
	default:
		return "", &UnsupportedFallbackError{Name: req.Name}
	}

	city, err := tools.CityArg(req.Arguments)
	if err != nil {
		return "", err
	}

	rec, err := f.geocoder.Geocode(ctx, city)
	if err != nil {
		return "", err
	}

	snap, err := fetch(ctx, rec.Coords)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("🌍 %s, %s\n%s\n\n%s", rec.Name, rec.Country, render(snap), FallbackFooter), nil
}
