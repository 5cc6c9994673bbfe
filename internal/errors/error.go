// Package errors provides custom error types for catalog operations.
package errors

import "errors"

var (
	// ErrProductNotFound is returned when no product row matches the requested ID.
	ErrProductNotFound = errors.New("product not found")

	// ErrStoreNotConfigured is returned when the backing spreadsheet credentials
	// are missing or still hold placeholder values.
	ErrStoreNotConfigured = errors.New("google sheets credentials not properly configured")
)
