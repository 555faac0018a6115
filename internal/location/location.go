// Package location resolves user-supplied city names to coordinates using a
// static registry. It performs no network access.
package location

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Validate reports an out-of-range coordinate. Values are never clamped.
func (c Coordinates) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		limit := 90
		if fe.StructField() == "Longitude" {
			limit = 180
		}
		return fmt.Errorf("%w: %s must be between -%d and %d, got %v",
			errorsx.ErrInvalidInput, strings.ToLower(fe.StructField()), limit, limit, fe.Value())
	}
	return errorsx.Wrap(errorsx.ErrInvalidInput, err.Error())
}

// CityRecord is a registry entry or a geocoding hit.
type CityRecord struct {
	Name    string      `json:"name"`
	Country string      `json:"country"`
	Coords  Coordinates `json:"coordinates"`
}

// NotFoundError is returned when a name has no registry entry. Supported lists
// the registry keys so callers can show them to the user; it is empty for
// geocoding misses.
type NotFoundError struct {
	Name      string
	Supported []string
}

func (e *NotFoundError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("%s şehri bulunamadı", e.Name)
	}
	return fmt.Sprintf("Şehir bulunamadı: %s. Desteklenen şehirler: %s", e.Name, strings.Join(e.Supported, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return errorsx.ErrNotFound
}
