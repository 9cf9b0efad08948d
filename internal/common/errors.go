// Package common defines shared constants and sentinel errors used across
// the storage, service and CLI layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Storage bootstrap errors.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")

	// Key material errors.
	ErrInvalidKey = errors.New("invalid device key")
)
