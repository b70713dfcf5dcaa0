package stacapi

import "errors"

var (
	// ErrInvalidHost is returned when the STAC host is not an absolute http(s) URL.
	ErrInvalidHost = errors.New("invalid STAC host")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrUnexpectedStatus reports a response status the client does not handle.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	errRetryableStatus = errors.New("retryable response status")
)
