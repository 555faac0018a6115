// Package tools defines the weather tool contract shared by the local
// dispatcher, the HTTP tool endpoints, the MCP server and the endpoint
// cascade.
package tools

// Name identifies one of the weather tools. The set is closed.
type Name string

const (
	GetCurrentWeather      Name = "get_current_weather"
	GetWeatherByCity       Name = "get_weather_by_city"
	GetHourlyForecast      Name = "get_hourly_forecast"
	GetDailyForecast       Name = "get_daily_forecast"
	GetDailyForecastByCity Name = "get_daily_forecast_by_city"
	GetSupportedCities     Name = "get_supported_cities"
)

// Names lists every tool in catalogue order.
var Names = []Name{
	GetCurrentWeather,
	GetWeatherByCity,
	GetHourlyForecast,
	GetDailyForecast,
	GetDailyForecastByCity,
	GetSupportedCities,
}

// ParseName validates a wire name.
func ParseName(s string) (Name, error) {
	switch n := Name(s); n {
	case GetCurrentWeather, GetWeatherByCity, GetHourlyForecast,
		GetDailyForecast, GetDailyForecastByCity, GetSupportedCities:
		return n, nil
	default:
		return "", &UnsupportedError{Name: s}
	}
}

func (n Name) String() string {
	return string(n)
}
