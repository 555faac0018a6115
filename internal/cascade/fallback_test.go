package cascade

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/8adimka/Go_Weather_Assistant/internal/location"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
	"github.com/8adimka/Go_Weather_Assistant/internal/weather"
)

type fakeGeocoder struct {
	rec   location.CityRecord
	err   error
	names []string
}

func (g *fakeGeocoder) Geocode(_ context.Context, name string) (location.CityRecord, error) {
	g.names = append(g.names, name)
	return g.rec, g.err
}

type fakeProvider struct {
	err error
}

func (p *fakeProvider) CurrentWeather(_ context.Context, c location.Coordinates) (*weather.Snapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &weather.Snapshot{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Current:   &weather.CurrentBlock{Time: "2024-05-01T14:00", Temperature: 17.4, WeatherCode: 3},
	}, nil
}

func (p *fakeProvider) HourlyForecast(context.Context, location.Coordinates) (*weather.Snapshot, error) {
	return nil, errors.New("not used")
}

func (p *fakeProvider) DailyForecast(_ context.Context, c location.Coordinates) (*weather.Snapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &weather.Snapshot{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Daily: &weather.DailyBlock{
			Time:                        []string{"2024-05-01", "2024-05-02"},
			WeatherCode:                 []int{0, 61},
			TemperatureMax:              []float64{20, 18},
			TemperatureMin:              []float64{10, 9},
			PrecipitationSum:            []float64{0, 3},
			PrecipitationProbabilityMax: []float64{0, 70},
			WindSpeedMax:                []float64{12, 25},
		},
	}, nil
}

var paris = location.CityRecord{Name: "Paris", Country: "Fransa", Coords: location.Coordinates{Latitude: 48.8534, Longitude: 2.3488}}

func TestLocalFallbackCurrent(t *testing.T) {
	geo := &fakeGeocoder{rec: paris}
	res := NewLocalFallback(geo, &fakeProvider{}).Call(context.Background(), tools.Request{
		Name:      "get_weather_by_city",
		Arguments: map[string]any{"city": "Paris"},
	})

	if res.IsError {
		t.Fatalf("unexpected error: %s", res.Text())
	}
	text := res.Text()
	if !strings.HasPrefix(text, "🌍 Paris, Fransa\n🌤️ Güncel Hava Durumu\n📍 Konum: 48.85°, 2.35°\n") {
		t.Errorf("unexpected header:\n%s", text)
	}
	if !strings.HasSuffix(text, "\n\n"+FallbackFooter) {
		t.Errorf("missing footer:\n%s", text)
	}
	if len(geo.names) != 1 || geo.names[0] != "Paris" {
		t.Errorf("geocoded %v", geo.names)
	}
}

func TestLocalFallbackDaily(t *testing.T) {
	res := NewLocalFallback(&fakeGeocoder{rec: paris}, &fakeProvider{}).Call(context.Background(), tools.Request{
		Name:      "get_daily_forecast_by_city",
		Arguments: map[string]any{"city": "Paris"},
	})
	if res.IsError || strings.Count(res.Text(), "  🌡️ ") != 2 {
		t.Errorf("unexpected result:\n%s", res.Text())
	}
}

func TestLocalFallbackErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      tools.Request
		geocoder *fakeGeocoder
		provider *fakeProvider
		want     string
	}{
		{
			name:     "unsupported tool",
			req:      tools.Request{Name: "get_hourly_forecast", Arguments: map[string]any{}},
			geocoder: &fakeGeocoder{rec: paris},
			provider: &fakeProvider{},
			want:     "Fallback hatası: Desteklenmeyen tool: get_hourly_forecast",
		},
		{
			name:     "city not found",
			req:      tools.Request{Name: "get_weather_by_city", Arguments: map[string]any{"city": "xyzville"}},
			geocoder: &fakeGeocoder{err: &location.NotFoundError{Name: "xyzville"}},
			provider: &fakeProvider{},
			want:     "Fallback hatası: xyzville şehri bulunamadı",
		},
		{
			name:     "provider failure",
			req:      tools.Request{Name: "get_daily_forecast_by_city", Arguments: map[string]any{"city": "Paris"}},
			geocoder: &fakeGeocoder{rec: paris},
			provider: &fakeProvider{err: errors.New("boom")},
			want:     "Fallback hatası: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewLocalFallback(tt.geocoder, tt.provider).Call(context.Background(), tt.req)
			if !res.IsError || res.Text() != tt.want {
				t.Errorf("got %+v, want error %q", res, tt.want)
			}
		})
	}
}
