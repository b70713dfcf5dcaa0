// Package source provides the data sources an ingestion run reads raw dataset records from.
//
// A Source yields records lazily, in order, in a single pass. Iterating again means
// re-invoking ForEach, which starts over from the beginning of the underlying input.
//
// Implementations:
//
//   - Static: a fixed in-memory list, used for explicit records and tests
//   - Feed: a JSON array or newline-delimited JSON stream of records exported from a
//     THREDDS catalog, read from an http(s) URL or a local file
//   - Failing: fails immediately with ErrNotImplemented, for modes that are not available
package source
