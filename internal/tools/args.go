package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
	"github.com/8adimka/Go_Weather_Assistant/internal/location"
)

// CoordinatesArg reads and range-checks latitude and longitude.
func CoordinatesArg(args map[string]any) (location.Coordinates, error) {
	lat, err := numberArg(args, "latitude")
	if err != nil {
		return location.Coordinates{}, err
	}
	lon, err := numberArg(args, "longitude")
	if err != nil {
		return location.Coordinates{}, err
	}

	coords := location.Coordinates{Latitude: lat, Longitude: lon}
	if err := coords.Validate(); err != nil {
		return location.Coordinates{}, err
	}
	return coords, nil
}

// CityArg reads the non-empty "city" argument.
func CityArg(args map[string]any) (string, error) {
	raw, ok := args["city"]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: city is required", errorsx.ErrInvalidInput)
	}
	city, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: city must be a string, got %T", errorsx.ErrInvalidInput, raw)
	}
	if city = strings.TrimSpace(city); city == "" {
		return "", fmt.Errorf("%w: city is required", errorsx.ErrInvalidInput)
	}
	return city, nil
}

func numberArg(args map[string]any, key string) (float64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %s is required", errorsx.ErrInvalidInput, key)
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", errorsx.ErrInvalidInput, key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", errorsx.ErrInvalidInput, key, raw)
	}
}
