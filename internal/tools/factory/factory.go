package factory

import (
	"log/slog"

	"github.com/8adimka/Go_Weather_Assistant/internal/cachex"
	"github.com/8adimka/Go_Weather_Assistant/internal/config"
	"github.com/8adimka/Go_Weather_Assistant/internal/location"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools/weathertool"
	"github.com/8adimka/Go_Weather_Assistant/internal/weather"
)

// Factory creates and registers all available tools
type Factory struct {
	registry *tools.Registry
	config   *config.Config
	store    cachex.Store
	resolver *location.Resolver
}

// NewFactory creates a new tool factory. A nil store disables the
// weather cache.
func NewFactory(cfg *config.Config, store cachex.Store) *Factory {
	return &Factory{
		registry: tools.NewRegistry(),
		config:   cfg,
		store:    store,
		resolver: location.NewResolver(),
	}
}

// CreateAllTools creates and registers all available tools
func (f *Factory) CreateAllTools() *tools.Registry {
	slog.Info("Creating and registering tools")

	provider := f.provider()

	f.registry.Register(weathertool.NewCurrentWeather(provider))
	f.registry.Register(weathertool.NewWeatherByCity(f.resolver, provider))
	f.registry.Register(weathertool.NewHourlyForecast(provider))
	f.registry.Register(weathertool.NewDailyForecast(provider))
	f.registry.Register(weathertool.NewDailyForecastByCity(f.resolver, provider))
	f.registry.Register(weathertool.NewSupportedCities(f.resolver))

	slog.Info("All tools registered successfully", "count", f.registry.Count())
	return f.registry
}

func (f *Factory) provider() weather.Provider {
	client := weather.NewOpenMeteoClient(weather.ClientConfig{
		BaseURL:       f.config.ForecastAPIURL,
		Timezone:      f.config.WeatherTimezone,
		Timeout:       f.config.ProviderTimeout(),
		RatePerMinute: f.config.ProviderRatePerMin,
	})
	if f.store == nil {
		return client
	}
	return weather.NewCachedProvider(client, f.store)
}
