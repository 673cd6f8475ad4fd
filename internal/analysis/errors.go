package analysis

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound = errors.New("session not found")
	ErrJobExists   = errors.New("session already exists")
	ErrNotReady    = errors.New("video not ready or session not found")
)

// InputError rejects an upload before any job is created.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
