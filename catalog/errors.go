package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested collection or item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a create call for an item or collection that exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCollection indicates a collection configuration failed validation.
	ErrInvalidCollection = errors.New("invalid collection")

	// ErrClientClosed indicates the client was used after Close.
	ErrClientClosed = errors.New("catalog client is closed")
)

// PublishError reports a catalog call that was rejected or could not complete.
type PublishError struct {
	Op           string // "collection", "lookup", "create" or "replace"
	CollectionID string
	ItemID       string
	StatusCode   int // HTTP status, 0 when not applicable
	Err          error
}

func (e *PublishError) Error() string {
	target := e.CollectionID
	if e.ItemID != "" {
		target += "/" + e.ItemID
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s %s: status %d: %v", e.Op, target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog %s %s: %v", e.Op, target, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
