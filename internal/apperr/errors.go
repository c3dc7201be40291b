// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidSort = errors.New("invalid sort")
	ErrMalformed   = errors.New("malformed snapshot")
)
