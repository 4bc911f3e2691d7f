package service

import (
	"errors"
	"fmt"

	"github.com/alexivanou/geotemp-api/internal/model"
)

var (
	// ErrBadRequest is returned for a malformed, incomplete or mistyped payload.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound is returned for an unknown identifier or an unresolved parent reference.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness key or a rename target is already taken.
	ErrConflict = errors.New("conflict")
)

// Outcome classifies err for logs and metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}

// payloadError converts a payload validation failure
func payloadError(err error) error {
	if errors.Is(err, model.ErrInvalidField) {
		return badRequest(err)
	}
	return err
}
