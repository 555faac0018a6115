package tools

import (
	"fmt"

	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
)

// UnsupportedError reports a tool name outside the catalogue.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("Bilinmeyen araç: %s", e.Name)
}

func (e *UnsupportedError) Unwrap() error {
	return errorsx.ErrUnsupported
}
