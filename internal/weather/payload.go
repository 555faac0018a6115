package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// The payload types mirror the forecast response with pointers so that a
// missing or null field is distinguishable from a zero value. Blocks are
// validated only when present.
type payload struct {
	Latitude             *float64        `json:"latitude" validate:"required"`
	Longitude            *float64        `json:"longitude" validate:"required"`
	Elevation            *float64        `json:"elevation" validate:"required"`
	GenerationTimeMs     *float64        `json:"generationtime_ms" validate:"required"`
	UTCOffsetSeconds     *float64        `json:"utc_offset_seconds" validate:"required"`
	Timezone             *string         `json:"timezone" validate:"required"`
	TimezoneAbbreviation *string         `json:"timezone_abbreviation" validate:"required"`
	Current              *currentPayload `json:"current"`
	Hourly               *hourlyPayload  `json:"hourly"`
	Daily                *dailyPayload   `json:"daily"`
}

type currentPayload struct {
	Time                *string  `json:"time" validate:"required"`
	Interval            *float64 `json:"interval" validate:"required"`
	Temperature         *float64 `json:"temperature_2m" validate:"required"`
	RelativeHumidity    *float64 `json:"relative_humidity_2m" validate:"required"`
	ApparentTemperature *float64 `json:"apparent_temperature" validate:"required"`
	IsDay               *float64 `json:"is_day" validate:"required"`
	Precipitation       *float64 `json:"precipitation" validate:"required"`
	Rain                *float64 `json:"rain" validate:"required"`
	Showers             *float64 `json:"showers" validate:"required"`
	Snowfall            *float64 `json:"snowfall" validate:"required"`
	WeatherCode         *float64 `json:"weather_code" validate:"required"`
	CloudCover          *float64 `json:"cloud_cover" validate:"required"`
	PressureMSL         *float64 `json:"pressure_msl" validate:"required"`
	SurfacePressure     *float64 `json:"surface_pressure" validate:"required"`
	WindSpeed           *float64 `json:"wind_speed_10m" validate:"required"`
	WindDirection       *float64 `json:"wind_direction_10m" validate:"required"`
	WindGusts           *float64 `json:"wind_gusts_10m" validate:"required"`
}

type hourlyPayload struct {
	Time                     []*string  `json:"time" validate:"required,dive,required"`
	Temperature              []*float64 `json:"temperature_2m" validate:"required,dive,required"`
	RelativeHumidity         []*float64 `json:"relative_humidity_2m" validate:"required,dive,required"`
	PrecipitationProbability []*float64 `json:"precipitation_probability" validate:"required,dive,required"`
	Precipitation            []*float64 `json:"precipitation" validate:"required,dive,required"`
	WeatherCode              []*float64 `json:"weather_code" validate:"required,dive,required"`
	WindSpeed                []*float64 `json:"wind_speed_10m" validate:"required,dive,required"`
	WindDirection            []*float64 `json:"wind_direction_10m" validate:"required,dive,required"`
}

type dailyPayload struct {
	Time                        []*string  `json:"time" validate:"required,dive,required"`
	WeatherCode                 []*float64 `json:"weather_code" validate:"required,dive,required"`
	TemperatureMax              []*float64 `json:"temperature_2m_max" validate:"required,dive,required"`
	TemperatureMin              []*float64 `json:"temperature_2m_min" validate:"required,dive,required"`
	PrecipitationSum            []*float64 `json:"precipitation_sum" validate:"required,dive,required"`
	RainSum                     []*float64 `json:"rain_sum" validate:"required,dive,required"`
	SnowfallSum                 []*float64 `json:"snowfall_sum" validate:"required,dive,required"`
	PrecipitationHours          []*float64 `json:"precipitation_hours" validate:"required,dive,required"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max" validate:"required,dive,required"`
	WindSpeedMax                []*float64 `json:"wind_speed_10m_max" validate:"required,dive,required"`
	WindGustsMax                []*float64 `json:"wind_gusts_10m_max" validate:"required,dive,required"`
	WindDirectionDominant       []*float64 `json:"wind_direction_10m_dominant" validate:"required,dive,required"`
	ShortwaveRadiationSum       []*float64 `json:"shortwave_radiation_sum" validate:"required,dive,required"`
}

// decodeSnapshot parses and validates a forecast response body.
func decodeSnapshot(body []byte) (*Snapshot, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	if err := validateStruct(&p); err != nil {
		return nil, err
	}
	return p.snapshot()
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Errorf("field %s failed %q check", fieldErrs[0].Namespace(), fieldErrs[0].Tag())
	}
	return err
}

func (p *payload) snapshot() (*Snapshot, error) {
	s := &Snapshot{
		Latitude:             *p.Latitude,
		Longitude:            *p.Longitude,
		Elevation:            *p.Elevation,
		GenerationTimeMs:     *p.GenerationTimeMs,
		UTCOffsetSeconds:     int(*p.UTCOffsetSeconds),
		Timezone:             *p.Timezone,
		TimezoneAbbreviation: *p.TimezoneAbbreviation,
	}

	if c := p.Current; c != nil {
		s.Current = &CurrentBlock{
			Time:                *c.Time,
			Interval:            int(*c.Interval),
			Temperature:         *c.Temperature,
			RelativeHumidity:    *c.RelativeHumidity,
			ApparentTemperature: *c.ApparentTemperature,
			IsDay:               *c.IsDay != 0,
			Precipitation:       *c.Precipitation,
			Rain:                *c.Rain,
			Showers:             *c.Showers,
			Snowfall:            *c.Snowfall,
			WeatherCode:         int(math.Round(*c.WeatherCode)),
			CloudCover:          *c.CloudCover,
			PressureMSL:         *c.PressureMSL,
			SurfacePressure:     *c.SurfacePressure,
			WindSpeed:           *c.WindSpeed,
			WindDirection:       *c.WindDirection,
			WindGusts:           *c.WindGusts,
		}
	}

	if h := p.Hourly; h != nil {
		n := len(h.Time)
		if err := sameLength("hourly", n, map[string]int{
			"temperature_2m":            len(h.Temperature),
			"relative_humidity_2m":      len(h.RelativeHumidity),
			"precipitation_probability": len(h.PrecipitationProbability),
			"precipitation":             len(h.Precipitation),
			"weather_code":              len(h.WeatherCode),
			"wind_speed_10m":            len(h.WindSpeed),
			"wind_direction_10m":        len(h.WindDirection),
		}); err != nil {
			return nil, err
		}
		s.Hourly = &HourlyBlock{
			Time:                     strs(h.Time),
			Temperature:              floats(h.Temperature),
			RelativeHumidity:         floats(h.RelativeHumidity),
			PrecipitationProbability: floats(h.PrecipitationProbability),
			Precipitation:            floats(h.Precipitation),
			WeatherCode:              ints(h.WeatherCode),
			WindSpeed:                floats(h.WindSpeed),
			WindDirection:            floats(h.WindDirection),
		}
	}

	if d := p.Daily; d != nil {
		n := len(d.Time)
		if err := sameLength("daily", n, map[string]int{
			"weather_code":                  len(d.WeatherCode),
			"temperature_2m_max":            len(d.TemperatureMax),
			"temperature_2m_min":            len(d.TemperatureMin),
			"precipitation_sum":             len(d.PrecipitationSum),
			"rain_sum":                      len(d.RainSum),
			"snowfall_sum":                  len(d.SnowfallSum),
			"precipitation_hours":           len(d.PrecipitationHours),
			"precipitation_probability_max": len(d.PrecipitationProbabilityMax),
			"wind_speed_10m_max":            len(d.WindSpeedMax),
			"wind_gusts_10m_max":            len(d.WindGustsMax),
			"wind_direction_10m_dominant":   len(d.WindDirectionDominant),
			"shortwave_radiation_sum":       len(d.ShortwaveRadiationSum),
		}); err != nil {
			return nil, err
		}
		s.Daily = &DailyBlock{
			Time:                        strs(d.Time),
			WeatherCode:                 ints(d.WeatherCode),
			TemperatureMax:              floats(d.TemperatureMax),
			TemperatureMin:              floats(d.TemperatureMin),
			PrecipitationSum:            floats(d.PrecipitationSum),
			RainSum:                     floats(d.RainSum),
			SnowfallSum:                 floats(d.SnowfallSum),
			PrecipitationHours:          floats(d.PrecipitationHours),
			PrecipitationProbabilityMax: floats(d.PrecipitationProbabilityMax),
			WindSpeedMax:                floats(d.WindSpeedMax),
			WindGustsMax:                floats(d.WindGustsMax),
			WindDirectionDominant:       floats(d.WindDirectionDominant),
			ShortwaveRadiationSum:       floats(d.ShortwaveRadiationSum),
		}
	}

	return s, nil
}

func sameLength(block string, want int, lengths map[string]int) error {
	for field, got := range lengths {
		if got != want {
			return fmt.Errorf("%s.%s has %d values, time has %d", block, field, got, want)
		}
	}
	return nil
}

// The helpers below dereference slices that validation has already checked
// for nil elements.

func floats(in []*float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = *v
	}
	return out
}

func ints(in []*float64) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(math.Round(*v))
	}
	return out
}

func strs(in []*string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = *v
	}
	return out
}
