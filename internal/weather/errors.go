package weather

import (
	"fmt"

	"github.com/8adimka/Go_Weather_Assistant/internal/errorsx"
)

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	// KindNetwork covers transport failures, timeouts, open breakers and non-2xx statuses.
	KindNetwork ErrorKind = iota + 1
	// KindSchemaMismatch means the body was missing required fields or had the wrong shape.
	KindSchemaMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network failure"
	case KindSchemaMismatch:
		return "schema mismatch"
	default:
		return "unknown failure"
	}
}

// ProviderError wraps every failure of a provider call.
type ProviderError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("weather provider %s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the error class and the underlying cause.
func (e *ProviderError) Unwrap() []error {
	class := errorsx.ErrUnavailable
	if e.Kind == KindSchemaMismatch {
		class = errorsx.ErrInternal
	}
	return []error{class, e.Err}
}
