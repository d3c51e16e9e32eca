package services

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed or out-of-range input. Handlers map it to
// a 400 so bad input is never confused with a storage failure.
var ErrValidation = errors.New("invalid input")

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
