// Package apperrors defines the error kinds shared across the engine.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no matching table, customer, or record.
	// Callers report it as an empty result, not a fault.
	ErrNotFound = errors.New("not found")

	// ErrConnectivity indicates the tabular store is unreachable.
	// The request is aborted with no partial state committed.
	ErrConnectivity = errors.New("store unreachable")

	// ErrTimeout indicates a bounded operation exceeded its deadline.
	// Reported distinctly so callers can decide to retry.
	ErrTimeout = errors.New("operation timed out")

	// ErrUnsupported indicates an optional capability (e.g. table
	// enumeration) the store does not provide.
	ErrUnsupported = errors.New("operation not supported by store")
)

// ConfigError reports a missing credential or identifier for a requested
// data source. It carries the corrective action to surface to the caller.
type ConfigError struct {
	Missing string // e.g. "AIRTABLE_API_KEY"
	Hint    string // e.g. "set a Personal Access Token in the environment"
}

func (e *ConfigError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("configuration missing: %s", e.Missing)
	}
	return fmt.Sprintf("configuration missing: %s (%s)", e.Missing, e.Hint)
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
