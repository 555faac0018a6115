// Package weathertool implements the six weather tools on top of the
// location registry, a weather provider and the Turkish formatter.
package weathertool

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/8adimka/Go_Weather_Assistant/internal/location"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
	"github.com/8adimka/Go_Weather_Assistant/internal/weather"
	"github.com/8adimka/Go_Weather_Assistant/internal/weather/format"
)

type fetchFunc func(ctx context.Context, coords location.Coordinates) (*weather.Snapshot, error)

type renderFunc func(*weather.Snapshot) string

// CoordinateTool answers a query for explicit coordinates.
type CoordinateTool struct {
	name        tools.Name
	description string
	fetch       fetchFunc
	render      renderFunc
}

var _ tools.Tool = (*CoordinateTool)(nil)

func NewCurrentWeather(provider weather.Provider) *CoordinateTool {
	return &CoordinateTool{
		name:        tools.GetCurrentWeather,
		description: "Belirtilen koordinatlardaki güncel hava durumu bilgisini getirir",
		fetch:       provider.CurrentWeather,
		render:      format.Current,
	}
}

func NewHourlyForecast(provider weather.Provider) *CoordinateTool {
	return &CoordinateTool{
		name:        tools.GetHourlyForecast,
		description: "Belirtilen koordinatlarda 24 saatlik hava durumu tahminini getirir",
		fetch:       provider.HourlyForecast,
		render:      format.Hourly,
	}
}

func NewDailyForecast(provider weather.Provider) *CoordinateTool {
	return &CoordinateTool{
		name:        tools.GetDailyForecast,
		description: "Belirtilen koordinatlarda 7 günlük hava durumu tahminini getirir",
		fetch:       provider.DailyForecast,
		render:      format.Daily,
	}
}

func (t *CoordinateTool) Name() tools.Name           { return t.name }
func (t *CoordinateTool) Description() string        { return t.description }
func (t *CoordinateTool) Parameters() map[string]any { return coordinateSchema() }

func (t *CoordinateTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	coords, err := tools.CoordinatesArg(args)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Getting weather data", "tool", t.name, "latitude", coords.Latitude, "longitude", coords.Longitude)
	snap, err := t.fetch(ctx, coords)
	if err != nil {
		return "", err
	}
	return t.render(snap), nil
}

// CityTool answers a query for a registry city.
type CityTool struct {
	name        tools.Name
	description string
	resolver    *location.Resolver
	fetch       fetchFunc
	render      renderFunc
}

var _ tools.Tool = (*CityTool)(nil)

func NewWeatherByCity(resolver *location.Resolver, provider weather.Provider) *CityTool {
	return &CityTool{
		name:        tools.GetWeatherByCity,
		description: "Şehir adına göre güncel hava durumu bilgisini getirir (Türkiye şehirleri)",
		resolver:    resolver,
		fetch:       provider.CurrentWeather,
		render:      format.Current,
	}
}

func NewDailyForecastByCity(resolver *location.Resolver, provider weather.Provider) *CityTool {
	return &CityTool{
		name:        tools.GetDailyForecastByCity,
		description: "Şehir adına göre 7 günlük hava durumu tahminini getirir (Türkiye şehirleri)",
		resolver:    resolver,
		fetch:       provider.DailyForecast,
		render:      format.Daily,
	}
}

func (t *CityTool) Name() tools.Name    { return t.name }
func (t *CityTool) Description() string { return t.description }

func (t *CityTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{
				"type":        "string",
				"description": "Şehir adı (örn: istanbul, ankara, izmir)",
			},
		},
		"required": []string{"city"},
	}
}

func (t *CityTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	name, err := tools.CityArg(args)
	if err != nil {
		return "", err
	}

	city, err := t.resolver.Resolve(name)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Getting weather data", "tool", t.name, "city", city.Name)
	snap, err := t.fetch(ctx, city.Coords)
	if err != nil {
		return "", err
	}
	return t.render(snap), nil
}

// SupportedCities lists the registry keys.
type SupportedCities struct {
	resolver *location.Resolver
}

var _ tools.Tool = (*SupportedCities)(nil)

func NewSupportedCities(resolver *location.Resolver) *SupportedCities {
	return &SupportedCities{resolver: resolver}
}

func (t *SupportedCities) Name() tools.Name { return tools.GetSupportedCities }

func (t *SupportedCities) Description() string {
	return "Desteklenen Türkiye şehirlerinin listesini getirir"
}

func (t *SupportedCities) Parameters() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func (t *SupportedCities) Execute(context.Context, map[string]any) (string, error) {
	return fmt.Sprintf("Desteklenen şehirler:\n%s", strings.Join(t.resolver.SupportedKeys(), ", ")), nil
}

func coordinateSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"latitude": map[string]any{
				"type":        "number",
				"description": "Enlem (-90 ile 90 arası)",
				"minimum":     -90,
				"maximum":     90,
			},
			"longitude": map[string]any{
				"type":        "number",
				"description": "Boylam (-180 ile 180 arası)",
				"minimum":     -180,
				"maximum":     180,
			},
		},
		"required": []string{"latitude", "longitude"},
	}
}
