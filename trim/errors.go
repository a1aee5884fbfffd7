package trim

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration = errors.New("trim: invalid configuration")
	// ErrNotInitialized is returned by session operations called before Initialize.
	ErrNotInitialized = errors.New("trim: session not initialized")
)

// ConfigurationError describes an invalid initialization input.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("trim: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
