package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/8adimka/Go_Weather_Assistant/internal/location"
)

const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// Geocoder turns a free-form place name into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (location.CityRecord, error)
}

// GeocoderConfig configures an OpenMeteoGeocoder. Zero values select defaults.
type GeocoderConfig struct {
	BaseURL       string
	Language      string
	Timeout       time.Duration
	RatePerMinute int
	HTTPClient    *http.Client
}

// OpenMeteoGeocoder implements Geocoder with the Open-Meteo search API,
// keeping only the best match.
type OpenMeteoGeocoder struct {
	getter   jsonGetter
	baseURL  string
	language string
}

var _ Geocoder = (*OpenMeteoGeocoder)(nil)

func NewOpenMeteoGeocoder(cfg GeocoderConfig) *OpenMeteoGeocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeocodingURL
	}
	if cfg.Language == "" {
		cfg.Language = "tr"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenMeteoGeocoder{
		getter:   newJSONGetter("open-meteo-geocoding", client, cfg.RatePerMinute),
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
	}
}

type geocodeResponse struct {
	Results []geocodeResult `json:"results" validate:"dive"`
}

type geocodeResult struct {
	Name      *string  `json:"name" validate:"required"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// Geocode returns the first search hit. No hit gives a *location.NotFoundError.
func (g *OpenMeteoGeocoder) Geocode(ctx context.Context, name string) (location.CityRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return location.CityRecord{}, &location.NotFoundError{Name: name}
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("count", "1")
	params.Set("language", g.language)
	params.Set("format", "json")

	body, err := g.getter.get(ctx, g.baseURL, params)
	if err != nil {
		return location.CityRecord{}, &ProviderError{Kind: KindNetwork, Op: "geocoding", Err: err}
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return location.CityRecord{}, &ProviderError{Kind: KindSchemaMismatch, Op: "geocoding", Err: fmt.Errorf("decode geocoding response: %w", err)}
	}
	if err := validateStruct(&resp); err != nil {
		return location.CityRecord{}, &ProviderError{Kind: KindSchemaMismatch, Op: "geocoding", Err: err}
	}
	if len(resp.Results) == 0 {
		slog.InfoContext(ctx, "Geocoding returned no results", "name", name)
		return location.CityRecord{}, &location.NotFoundError{Name: name}
	}

	hit := resp.Results[0]
	city := location.CityRecord{
		Name:    *hit.Name,
		Country: hit.Country,
		Coords:  location.Coordinates{Latitude: *hit.Latitude, Longitude: *hit.Longitude},
	}
	if err := city.Coords.Validate(); err != nil {
		return location.CityRecord{}, &ProviderError{Kind: KindSchemaMismatch, Op: "geocoding", Err: err}
	}
	return city, nil
}
