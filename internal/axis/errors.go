package axis

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an axis that cannot be constructed.
	ErrConfiguration = errors.New("axis configuration")
	// ErrOutOfRange marks a value outside [Min, Max].
	ErrOutOfRange = errors.New("value out of range")
)

// ConfigurationError names the offending field.
type ConfigurationError struct {
	Field  string
	Reason string
}

func configErr(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("axis configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// OutOfRangeError is recoverable: callers clamp and continue.
type OutOfRangeError struct {
	Value    float64
	Min, Max float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %v out of range [%v, %v]", e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }
