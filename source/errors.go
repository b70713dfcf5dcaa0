package source

import "errors"

var (
	// ErrNotImplemented is returned by the Failing source.
	ErrNotImplemented = errors.New("data source mode not implemented")

	// ErrFeedUnavailable is returned when a feed cannot be opened or fetched.
	ErrFeedUnavailable = errors.New("record feed unavailable")

	// ErrMalformedFeed is returned when a feed entry cannot be decoded.
	ErrMalformedFeed = errors.New("malformed record feed")
)
