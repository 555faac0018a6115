package errorsx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/twitchtv/twirp"
)

// Error classes shared by every layer. Typed errors in the domain packages
// unwrap to one of these so callers can branch with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrTimeout      = errors.New("operation timeout")
	ErrUnavailable  = errors.New("service unavailable")
	ErrUnsupported  = errors.New("unsupported operation")
)

// Wrap wraps an error with additional context message
// Returns nil if the error is nil
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ToTwirpError converts an internal error to a Twirp error with appropriate code
func ToTwirpError(err error) error {
	if err == nil {
		return nil
	}

	var te twirp.Error
	if errors.As(err, &te) {
		return te
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return twirp.NotFoundError(err.Error())
	case errors.Is(err, ErrInvalidInput):
		return twirp.InvalidArgumentError("input", err.Error())
	case errors.Is(err, ErrUnauthorized):
		return twirp.NewError(twirp.Unauthenticated, err.Error())
	case errors.Is(err, ErrTimeout):
		return twirp.NewError(twirp.DeadlineExceeded, err.Error())
	case errors.Is(err, ErrUnavailable):
		return twirp.NewError(twirp.Unavailable, err.Error())
	case errors.Is(err, ErrUnsupported):
		return twirp.NewError(twirp.Unimplemented, err.Error())
	default:
		return twirp.InternalErrorWith(err)
	}
}

// WriteHTTPError writes err as a Twirp JSON error body with the matching HTTP status.
func WriteHTTPError(w http.ResponseWriter, err error) {
	te, ok := ToTwirpError(err).(twirp.Error)
	if !ok {
		te = twirp.InternalErrorWith(err)
	}
	if writeErr := twirp.WriteError(w, te); writeErr != nil {
		slog.Error("Failed to write error response", "error", writeErr)
	}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput checks if an error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsUnavailable checks if an error is an unavailable error
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsUnsupported checks if an error is an unsupported operation error
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
