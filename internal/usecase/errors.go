package usecase

import (
	"errors"
	"fmt"
)

// Sentinel classes returned by the services. Transports map them to status
// codes with errors.Is; the wrapped message is safe to show to clients.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("resource conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func classed(class error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", class, fmt.Sprintf(format, args...))
}

func invalidInput(format string, args ...any) error {
	return classed(ErrInvalidInput, format, args...)
}

func notFound(format string, args ...any) error {
	return classed(ErrNotFound, format, args...)
}

func conflict(format string, args ...any) error {
	return classed(ErrConflict, format, args...)
}
