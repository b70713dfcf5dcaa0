package catalog

import (
	"context"

	"github.com/poiesic/stacpopulator/core"
)

// Validator checks an item against the catalog item schema and its declared extension schemas.
type Validator interface {
	Validate(item *core.Item) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(item *core.Item) error

func (f ValidatorFunc) Validate(item *core.Item) error {
	return f(item)
}

// Client is a STAC catalog that items are published to.
// Implementations must be safe for concurrent use.
type Client interface {
	Validator

	// EnsureCollection creates the collection if it does not exist.
	// An existing collection is replaced when update is true and left untouched otherwise.
	EnsureCollection(ctx context.Context, collection *Collection, update bool) error

	// ItemExists reports whether the collection already holds an item with this id.
	ItemExists(ctx context.Context, collectionID, itemID string) (bool, error)

	// CreateItem publishes a new item.
	// Returns a *PublishError wrapping ErrAlreadyExists if the item exists.
	CreateItem(ctx context.Context, collectionID string, item *core.Item) error

	// ReplaceItem replaces an existing item.
	// Returns a *PublishError wrapping ErrNotFound if the item does not exist.
	ReplaceItem(ctx context.Context, collectionID, itemID string, item *core.Item) error

	// Close releases resources held by the client.
	Close() error
}

// ValidateItem is the Validate implementation shared by the clients in this module.
func ValidateItem(item *core.Item) error {
	return core.ValidateItem(item)
}
