package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidField is returned when a payload field is missing or has the wrong type
var ErrInvalidField = errors.New("invalid field")

// Payload is a decoded JSON object as received from a client.
// Numbers are expected as json.Number (decoder UseNumber) but plain Go
// numeric values are accepted too.
type Payload map[string]any

// String returns a required, non-empty string field
func (p Payload) String(name string) (string, error) {
	raw, ok := p[name]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %q is required", ErrInvalidField, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string", ErrInvalidField, name)
	}
	if s == "" {
		return "", fmt.Errorf("%w: %q must not be empty", ErrInvalidField, name)
	}
	return s, nil
}

// Float returns a required numeric field
func (p Payload) Float(name string) (float64, error) {
	raw, ok := p[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %q is required", ErrInvalidField, name)
	}

	var f float64
	switch v := raw.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q must be a number", ErrInvalidField, name)
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, fmt.Errorf("%w: %q must be a number", ErrInvalidField, name)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q must be finite", ErrInvalidField, name)
	}
	return f, nil
}

// ID returns a required identifier field: an integral number of at least 1
func (p Payload) ID(name string) (int, error) {
	raw, ok := p[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %q is required", ErrInvalidField, name)
	}

	var id int64
	switch v := raw.(type) {
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q must be an integer", ErrInvalidField, name)
		}
		id = parsed
	case int:
		id = int64(v)
	case int64:
		id = v
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > MaxIdentifier {
			return 0, fmt.Errorf("%w: %q must be an integer", ErrInvalidField, name)
		}
		id = int64(v)
	default:
		return 0, fmt.Errorf("%w: %q must be an integer", ErrInvalidField, name)
	}

	if id < 1 || id > MaxIdentifier {
		return 0, fmt.Errorf("%w: %q must be between 1 and %d", ErrInvalidField, name, int64(MaxIdentifier))
	}
	return int(id), nil
}

// MaxIdentifier is the largest identifier handed out or accepted: the largest
// integer a JSON client can represent exactly.
const MaxIdentifier = 1<<53 - 1
