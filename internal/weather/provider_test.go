package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/8adimka/Go_Weather_Assistant/internal/cachex"
	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
	"github.com/8adimka/Go_Weather_Assistant/internal/location"
)

var istanbul = location.Coordinates{Latitude: 41.0082, Longitude: 28.9784}

func baseBody() map[string]any {
	return map[string]any{
		"latitude":              41.0,
		"longitude":             29.0,
		"elevation":             39.0,
		"generationtime_ms":     0.12,
		"utc_offset_seconds":    10800,
		"timezone":              "Europe/Istanbul",
		"timezone_abbreviation": "+03",
	}
}

func currentBody() map[string]any {
	body := baseBody()
	body["current"] = map[string]any{
		"time":                 "2024-05-01T14:00",
		"interval":             900,
		"temperature_2m":       18.6,
		"relative_humidity_2m": 64,
		"apparent_temperature": 17.2,
		"is_day":               1,
		"precipitation":        0,
		"rain":                 0,
		"showers":              0,
		"snowfall":             0,
		"weather_code":         2,
		"cloud_cover":          40,
		"pressure_msl":         1013.4,
		"surface_pressure":     1008.9,
		"wind_speed_10m":       14.8,
		"wind_direction_10m":   45,
		"wind_gusts_10m":       27.4,
	}
	return body
}

func hourlyBody(n int) map[string]any {
	body := baseBody()
	times := make([]string, n)
	values := make([]float64, n)
	codes := make([]int, n)
	for i := range n {
		times[i] = time.Date(2024, 5, 1, i%24, 0, 0, 0, time.UTC).Format("2006-01-02T15:04")
		values[i] = float64(10 + i)
		codes[i] = 3
	}
	body["hourly"] = map[string]any{
		"time":                      times,
		"temperature_2m":            values,
		"relative_humidity_2m":      values,
		"precipitation_probability": values,
		"precipitation":             values,
		"weather_code":              codes,
		"wind_speed_10m":            values,
		"wind_direction_10m":        values,
	}
	return body
}

func dailyBody(n int) map[string]any {
	body := baseBody()
	times := make([]string, n)
	values := make([]float64, n)
	codes := make([]int, n)
	for i := range n {
		times[i] = time.Date(2024, 5, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		values[i] = float64(i)
		codes[i] = 61
	}
	daily := map[string]any{"time": times, "weather_code": codes}
	for _, field := range DailyFields[1:] {
		daily[field] = values
	}
	body["daily"] = daily
	return body
}

func serveJSON(t *testing.T, hits *atomic.Int32, check func(*http.Request), body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(url string) *OpenMeteoClient {
	return NewOpenMeteoClient(ClientConfig{BaseURL: url, Timeout: 2 * time.Second})
}

func TestCurrentWeather(t *testing.T) {
	var hits atomic.Int32
	srv := serveJSON(t, &hits, func(r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("current"); got != strings.Join(CurrentFields, ",") {
			t.Errorf("current = %q", got)
		}
		if got := q.Get("timezone"); got != "Europe/Istanbul" {
			t.Errorf("timezone = %q", got)
		}
		if got := q.Get("latitude"); got != "41.0082" {
			t.Errorf("latitude = %q", got)
		}
		if got := q.Get("longitude"); got != "28.9784" {
			t.Errorf("longitude = %q", got)
		}
	}, currentBody())

	snap, err := newTestClient(srv.URL).CurrentWeather(context.Background(), istanbul)
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}

	want := &CurrentBlock{
		Time: "2024-05-01T14:00", Interval: 900,
		Temperature: 18.6, RelativeHumidity: 64, ApparentTemperature: 17.2, IsDay: true,
		WeatherCode: 2, CloudCover: 40, PressureMSL: 1013.4, SurfacePressure: 1008.9,
		WindSpeed: 14.8, WindDirection: 45, WindGusts: 27.4,
	}
	if diff := cmp.Diff(want, snap.Current); diff != "" {
		t.Errorf("current mismatch (-want +got):\n%s", diff)
	}
	if snap.Timezone != "Europe/Istanbul" || snap.Elevation != 39 {
		t.Errorf("unexpected snapshot header: %+v", snap)
	}
	if snap.Hourly != nil || snap.Daily != nil {
		t.Error("only the current block should be present")
	}
}

func TestHourlyAndDailyParams(t *testing.T) {
	var hits atomic.Int32
	hourly := serveJSON(t, &hits, func(r *http.Request) {
		if got := r.URL.Query().Get("forecast_hours"); got != "24" {
			t.Errorf("forecast_hours = %q, want 24", got)
		}
	}, hourlyBody(24))
	daily := serveJSON(t, &hits, func(r *http.Request) {
		if got := r.URL.Query().Get("forecast_days"); got != "7" {
			t.Errorf("forecast_days = %q, want 7", got)
		}
	}, dailyBody(7))

	hs, err := newTestClient(hourly.URL).HourlyForecast(context.Background(), istanbul)
	if err != nil {
		t.Fatalf("HourlyForecast: %v", err)
	}
	if hs.Hourly.Len() != 24 {
		t.Errorf("hourly len = %d, want 24", hs.Hourly.Len())
	}

	ds, err := newTestClient(daily.URL).DailyForecast(context.Background(), istanbul)
	if err != nil {
		t.Fatalf("DailyForecast: %v", err)
	}
	if ds.Daily.Len() != 7 || ds.Daily.WeatherCode[0] != 61 {
		t.Errorf("unexpected daily block: %+v", ds.Daily)
	}
}

func TestSchemaMismatch(t *testing.T) {
	missingTemp := currentBody()
	delete(missingTemp["current"].(map[string]any), "temperature_2m")

	nullHumidity := currentBody()
	nullHumidity["current"].(map[string]any)["relative_humidity_2m"] = nil

	missingTimezone := currentBody()
	delete(missingTimezone, "timezone")

	shortHourly := hourlyBody(24)
	shortHourly["hourly"].(map[string]any)["temperature_2m"] = []float64{1, 2, 3}

	nullInSequence := hourlyBody(3)
	nullInSequence["hourly"].(map[string]any)["precipitation_probability"] = []any{10, nil, 30}

	noBlock := baseBody()

	tests := []struct {
		name  string
		body  any
		fetch func(*OpenMeteoClient) (*Snapshot, error)
	}{
		{"missing current field", missingTemp, currentFetch},
		{"null current field", nullHumidity, currentFetch},
		{"missing top-level field", missingTimezone, currentFetch},
		{"hourly length mismatch", shortHourly, hourlyFetch},
		{"null inside sequence", nullInSequence, hourlyFetch},
		{"requested block absent", noBlock, currentFetch},
		{"wrong type", map[string]any{"latitude": "north"}, currentFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := serveJSON(t, &hits, nil, tt.body)

			snap, err := tt.fetch(newTestClient(srv.URL))
			if snap != nil {
				t.Error("partial snapshot must not be returned")
			}
			var perr *ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ProviderError, got %v", err)
			}
			if perr.Kind != KindSchemaMismatch {
				t.Errorf("Kind = %v, want schema mismatch", perr.Kind)
			}
			if !errors.Is(err, errorsx.ErrInternal) {
				t.Errorf("expected ErrInternal class, got %v", err)
			}
		})
	}
}

func currentFetch(c *OpenMeteoClient) (*Snapshot, error) {
	return c.CurrentWeather(context.Background(), istanbul)
}

func hourlyFetch(c *OpenMeteoClient) (*Snapshot, error) {
	return c.HourlyForecast(context.Background(), istanbul)
}

func TestExtraFieldsIgnored(t *testing.T) {
	body := currentBody()
	body["current_units"] = map[string]any{"temperature_2m": "°C"}
	body["current"].(map[string]any)["uv_index"] = 4.5

	var hits atomic.Int32
	srv := serveJSON(t, &hits, nil, body)
	if _, err := newTestClient(srv.URL).CurrentWeather(context.Background(), istanbul); err != nil {
		t.Fatalf("extra fields should be ignored: %v", err)
	}
}

func TestNetworkErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":true,"reason":"bad"}`, http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).DailyForecast(context.Background(), istanbul)
		assertNetworkError(t, err)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
			t.Errorf("expected StatusError 502, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		client := NewOpenMeteoClient(ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
		_, err := client.CurrentWeather(context.Background(), istanbul)
		assertNetworkError(t, err)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestClient(url).HourlyForecast(context.Background(), istanbul)
		assertNetworkError(t, err)
	})
}

func assertNetworkError(t *testing.T, err error) {
	t.Helper()
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if perr.Kind != KindNetwork {
		t.Errorf("Kind = %v, want network failure", perr.Kind)
	}
	if !errors.Is(err, errorsx.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable class, got %v", err)
	}
}

func TestInvalidCoordinatesSkipNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := serveJSON(t, &hits, nil, currentBody())
	client := newTestClient(srv.URL)

	for _, coords := range []location.Coordinates{{Latitude: 91}, {Longitude: -181}} {
		_, err := client.CurrentWeather(context.Background(), coords)
		if !errors.Is(err, errorsx.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for %+v, got %v", coords, err)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("expected no provider calls, got %d", hits.Load())
	}
}

func TestCachedProvider(t *testing.T) {
	var hits atomic.Int32
	srv := serveJSON(t, &hits, nil, currentBody())
	provider := NewCachedProvider(newTestClient(srv.URL), cachex.NewMemory(time.Minute))

	first, err := provider.CurrentWeather(context.Background(), istanbul)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := provider.CurrentWeather(context.Background(), istanbul)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("provider hits = %d, want 1", hits.Load())
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached snapshot differs (-first +second):\n%s", diff)
	}

	if _, err := provider.DailyForecast(context.Background(), istanbul); err == nil {
		t.Error("daily call against a current-only server should fail, not reuse the current entry")
	}
}
