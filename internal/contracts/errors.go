package contracts

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every InputError
var ErrInvalidInput = errors.New("invalid signal input")

// InputError rejects a malformed or out-of-domain signal record
// ⭐ SSOT: raised before scoring, values are never clamped beyond the normalization clips
type InputError struct {
	CustomerID string
	Week       int
	Field      string
	Message    string
}

func (e *InputError) Error() string {
	if e.CustomerID == "" {
		return fmt.Sprintf("%s: week %d: %s: %s", ErrInvalidInput, e.Week, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: customer %s week %d: %s: %s", ErrInvalidInput, e.CustomerID, e.Week, e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
