package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the store, the HTTP API and the client.
var (
	ErrInvalidIndicator = errors.New("not a known indicator")
	ErrNotSelected      = errors.New("no indicator selected")
	ErrNotFound         = errors.New("not a recently updated indicator")
	ErrUnavailable      = errors.New("overlay service unavailable")
	ErrMalformed        = errors.New("malformed response")
)

// Unavailable wraps a persistence or transport failure as ErrUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// Describe returns the user-facing reason for err.
// Malformed responses are shown the same way as an unavailable service.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	case errors.Is(err, ErrInvalidIndicator):
		return ErrInvalidIndicator.Error()
	case errors.Is(err, ErrNotSelected):
		return ErrNotSelected.Error()
	case errors.Is(err, ErrMalformed), errors.Is(err, ErrUnavailable):
		return ErrUnavailable.Error()
	default:
		return err.Error()
	}
}
