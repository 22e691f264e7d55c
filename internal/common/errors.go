// Package common defines shared constants and sentinel errors used across
// the verilens client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Cache/repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Remote service errors. ErrorUnauthorized signals session loss and must
	// route through forced logout; ErrUnavailable means the call failed before
	// any response arrived; ErrTimeout means the caller-side deadline fired.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrUnavailable    = errors.New("server unavailable")
	ErrTimeout        = errors.New("request timed out")

	// Generic flow control.
	ErrorInternal = errors.New("internal error")

	// Input validation. Blocks the call before it reaches the network layer.
	ErrValidation = errors.New("validation error")
)
