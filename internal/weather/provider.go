package weather

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/8adimka/Go_Weather_Assistant/internal/location"
)

// Provider fetches weather snapshots for validated coordinates. Invalid
// coordinates are rejected before any network call.
type Provider interface {
	CurrentWeather(ctx context.Context, coords location.Coordinates) (*Snapshot, error)
	HourlyForecast(ctx context.Context, coords location.Coordinates) (*Snapshot, error)
	DailyForecast(ctx context.Context, coords location.Coordinates) (*Snapshot, error)
}

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultTimezone    = "Europe/Istanbul"
	// TimezoneAuto lets the provider pick the timezone of the coordinates.
	TimezoneAuto = "auto"

	forecastHours = 24
	forecastDays  = 7
)

// ClientConfig configures an OpenMeteoClient. Zero values select defaults.
type ClientConfig struct {
	BaseURL       string
	Timezone      string
	Timeout       time.Duration
	RatePerMinute int
	HTTPClient    *http.Client
}

// OpenMeteoClient implements Provider against the Open-Meteo forecast API.
// A single call is never retried.
type OpenMeteoClient struct {
	getter   jsonGetter
	baseURL  string
	timezone string
}

var _ Provider = (*OpenMeteoClient)(nil)

// NewOpenMeteoClient creates a forecast client with rate limiting and a circuit breaker.
func NewOpenMeteoClient(cfg ClientConfig) *OpenMeteoClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultForecastURL
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenMeteoClient{
		getter:   newJSONGetter("open-meteo-forecast-"+cfg.Timezone, client, cfg.RatePerMinute),
		baseURL:  cfg.BaseURL,
		timezone: cfg.Timezone,
	}
}

// CurrentWeather retrieves the current conditions block.
func (c *OpenMeteoClient) CurrentWeather(ctx context.Context, coords location.Coordinates) (*Snapshot, error) {
	params := url.Values{}
	params.Set("current", strings.Join(CurrentFields, ","))

	snap, err := c.forecast(ctx, "current weather", coords, params)
	if err != nil {
		return nil, err
	}
	if snap.Current == nil {
		return nil, &ProviderError{Kind: KindSchemaMismatch, Op: "current weather", Err: fmt.Errorf("current block missing")}
	}
	return snap, nil
}

// HourlyForecast retrieves the next 24 hours.
func (c *OpenMeteoClient) HourlyForecast(ctx context.Context, coords location.Coordinates) (*Snapshot, error) {
	params := url.Values{}
	params.Set("hourly", strings.Join(HourlyFields, ","))
	params.Set("forecast_hours", strconv.Itoa(forecastHours))

	snap, err := c.forecast(ctx, "hourly forecast", coords, params)
	if err != nil {
		return nil, err
	}
	if snap.Hourly == nil {
		return nil, &ProviderError{Kind: KindSchemaMismatch, Op: "hourly forecast", Err: fmt.Errorf("hourly block missing")}
	}
	return snap, nil
}

// DailyForecast retrieves the next 7 days.
func (c *OpenMeteoClient) DailyForecast(ctx context.Context, coords location.Coordinates) (*Snapshot, error) {
	params := url.Values{}
	params.Set("daily", strings.Join(DailyFields, ","))
	params.Set("forecast_days", strconv.Itoa(forecastDays))

	snap, err := c.forecast(ctx, "daily forecast", coords, params)
	if err != nil {
		return nil, err
	}
	if snap.Daily == nil {
		return nil, &ProviderError{Kind: KindSchemaMismatch, Op: "daily forecast", Err: fmt.Errorf("daily block missing")}
	}
	return snap, nil
}

func (c *OpenMeteoClient) forecast(ctx context.Context, op string, coords location.Coordinates, params url.Values) (*Snapshot, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}

	params.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	params.Set("timezone", c.timezone)

	start := time.Now()
	body, err := c.getter.get(ctx, c.baseURL, params)
	if err != nil {
		slog.WarnContext(ctx, "Weather provider request failed", "op", op, "error", err)
		return nil, &ProviderError{Kind: KindNetwork, Op: op, Err: err}
	}

	snap, err := decodeSnapshot(body)
	if err != nil {
		slog.WarnContext(ctx, "Weather provider returned unexpected payload", "op", op, "error", err)
		return nil, &ProviderError{Kind: KindSchemaMismatch, Op: op, Err: err}
	}

	slog.InfoContext(ctx, "Fetched weather",
		"op", op,
		"latitude", coords.Latitude,
		"longitude", coords.Longitude,
		"timezone", c.timezone,
		"duration", time.Since(start))
	return snap, nil
}
