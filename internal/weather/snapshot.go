package weather

// Snapshot is a validated provider payload. Each block is present only when it
// was requested, and every sequence in a present block has len(Time) items.
type Snapshot struct {
	Latitude             float64       `json:"latitude"`
	Longitude            float64       `json:"longitude"`
	Elevation            float64       `json:"elevation"`
	GenerationTimeMs     float64       `json:"generationtime_ms"`
	UTCOffsetSeconds     int           `json:"utc_offset_seconds"`
	Timezone             string        `json:"timezone"`
	TimezoneAbbreviation string        `json:"timezone_abbreviation"`
	Current              *CurrentBlock `json:"current,omitempty"`
	Hourly               *HourlyBlock  `json:"hourly,omitempty"`
	Daily                *DailyBlock   `json:"daily,omitempty"`
}

// CurrentBlock holds the conditions at a single instant.
type CurrentBlock struct {
	Time                string  `json:"time"`
	Interval            int     `json:"interval"`
	Temperature         float64 `json:"temperature_2m"`
	RelativeHumidity    float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	IsDay               bool    `json:"is_day"`
	Precipitation       float64 `json:"precipitation"`
	Rain                float64 `json:"rain"`
	Showers             float64 `json:"showers"`
	Snowfall            float64 `json:"snowfall"`
	WeatherCode         int     `json:"weather_code"`
	CloudCover          float64 `json:"cloud_cover"`
	PressureMSL         float64 `json:"pressure_msl"`
	SurfacePressure     float64 `json:"surface_pressure"`
	WindSpeed           float64 `json:"wind_speed_10m"`
	WindDirection       float64 `json:"wind_direction_10m"`
	WindGusts           float64 `json:"wind_gusts_10m"`
}

// HourlyBlock holds parallel per-hour sequences.
type HourlyBlock struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature_2m"`
	RelativeHumidity         []float64 `json:"relative_humidity_2m"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	Precipitation            []float64 `json:"precipitation"`
	WeatherCode              []int     `json:"weather_code"`
	WindSpeed                []float64 `json:"wind_speed_10m"`
	WindDirection            []float64 `json:"wind_direction_10m"`
}

// Len is the number of hours in the block.
func (h *HourlyBlock) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Time)
}

// DailyBlock holds parallel per-day sequences.
type DailyBlock struct {
	Time                        []string  `json:"time"`
	WeatherCode                 []int     `json:"weather_code"`
	TemperatureMax              []float64 `json:"temperature_2m_max"`
	TemperatureMin              []float64 `json:"temperature_2m_min"`
	PrecipitationSum            []float64 `json:"precipitation_sum"`
	RainSum                     []float64 `json:"rain_sum"`
	SnowfallSum                 []float64 `json:"snowfall_sum"`
	PrecipitationHours          []float64 `json:"precipitation_hours"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	WindSpeedMax                []float64 `json:"wind_speed_10m_max"`
	WindGustsMax                []float64 `json:"wind_gusts_10m_max"`
	WindDirectionDominant       []float64 `json:"wind_direction_10m_dominant"`
	ShortwaveRadiationSum       []float64 `json:"shortwave_radiation_sum"`
}

// Len is the number of days in the block.
func (d *DailyBlock) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Time)
}

// Request field lists sent to the forecast endpoint.
var (
	CurrentFields = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature", "is_day",
		"precipitation", "rain", "showers", "snowfall", "weather_code", "cloud_cover",
		"pressure_msl", "surface_pressure", "wind_speed_10m", "wind_direction_10m", "wind_gusts_10m",
	}
	HourlyFields = []string{
		"temperature_2m", "relative_humidity_2m", "precipitation_probability",
		"precipitation", "weather_code", "wind_speed_10m", "wind_direction_10m",
	}
	DailyFields = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min", "precipitation_sum",
		"rain_sum", "snowfall_sum", "precipitation_hours", "precipitation_probability_max",
		"wind_speed_10m_max", "wind_gusts_10m_max", "wind_direction_10m_dominant", "shortwave_radiation_sum",
	}
)
