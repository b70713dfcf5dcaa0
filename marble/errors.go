package marble

import "errors"

var (
	// ErrHostNodeUnknown is returned when no registry node serves the catalog host.
	ErrHostNodeUnknown = errors.New("could not infer the Marble node hosting the data")

	// ErrInvalidRegistry is returned when the registry document cannot be decoded.
	ErrInvalidRegistry = errors.New("invalid node registry")

	// ErrRegistryUnavailable is returned when the registry cannot be fetched.
	ErrRegistryUnavailable = errors.New("node registry unavailable")

	// ErrInvalidMatchPolicy is returned for an unknown match policy name.
	ErrInvalidMatchPolicy = errors.New("invalid host match policy")
)
