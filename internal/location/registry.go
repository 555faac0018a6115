package location

import (
	"maps"
	"slices"
)

const countryTurkey = "Türkiye"

// cities is keyed by the normalized city name.
var cities = map[string]CityRecord{
	"istanbul":  {Name: "İstanbul", Country: countryTurkey, Coords: Coordinates{Latitude: 41.0082, Longitude: 28.9784}},
	"ankara":    {Name: "Ankara", Country: countryTurkey, Coords: Coordinates{Latitude: 39.9334, Longitude: 32.8597}},
	"izmir":     {Name: "İzmir", Country: countryTurkey, Coords: Coordinates{Latitude: 38.4192, Longitude: 27.1287}},
	"bursa":     {Name: "Bursa", Country: countryTurkey, Coords: Coordinates{Latitude: 40.1826, Longitude: 29.0665}},
	"antalya":   {Name: "Antalya", Country: countryTurkey, Coords: Coordinates{Latitude: 36.8969, Longitude: 30.7133}},
	"adana":     {Name: "Adana", Country: countryTurkey, Coords: Coordinates{Latitude: 37.0000, Longitude: 35.3213}},
	"konya":     {Name: "Konya", Country: countryTurkey, Coords: Coordinates{Latitude: 37.8667, Longitude: 32.4833}},
	"gaziantep": {Name: "Gaziantep", Country: countryTurkey, Coords: Coordinates{Latitude: 37.0662, Longitude: 37.3833}},
	"kayseri":   {Name: "Kayseri", Country: countryTurkey, Coords: Coordinates{Latitude: 38.7312, Longitude: 35.4787}},
	"trabzon":   {Name: "Trabzon", Country: countryTurkey, Coords: Coordinates{Latitude: 41.0015, Longitude: 39.7178}},
}

// Resolver looks city names up in the static registry.
type Resolver struct {
	cities    map[string]CityRecord
	supported []string
}

// NewResolver returns a Resolver over the built-in city registry.
func NewResolver() *Resolver {
	return &Resolver{
		cities:    cities,
		supported: slices.Sorted(maps.Keys(cities)),
	}
}

// Resolve normalizes name and returns the matching registry entry. Only exact
// key matches count; on a miss the error is a *NotFoundError listing every
// supported key.
func (r *Resolver) Resolve(name string) (CityRecord, error) {
	if city, ok := r.cities[Normalize(name)]; ok {
		return city, nil
	}
	return CityRecord{}, &NotFoundError{Name: name, Supported: r.SupportedKeys()}
}

// SupportedKeys returns the registry keys in sorted order.
func (r *Resolver) SupportedKeys() []string {
	return slices.Clone(r.supported)
}
