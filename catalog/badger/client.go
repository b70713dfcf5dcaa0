package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/stacpopulator/catalog"
	"github.com/poiesic/stacpopulator/core"
)

// Client implements catalog.Client for a BadgerDB catalog.
type Client struct {
	backend *Backend
	owned   bool
	logger  *slog.Logger
	now     func() time.Time
}

var _ catalog.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a client over an open backend. The caller keeps ownership of the backend.
func NewClient(backend *Backend, opts ...Option) (*Client, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	c := &Client{
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Open opens (or creates) the catalog in dir. Closing the client closes the database.
func Open(dir string, opts ...Option) (*Client, error) {
	c, err := NewClient(&Backend{}, opts...)
	if err != nil {
		return nil, err
	}
	backend, err := OpenBackend(dir, false, c.logger)
	if err != nil {
		return nil, err
	}
	c.backend = backend
	c.owned = true
	return c, nil
}

// Close releases the database if the client opened it.
func (c *Client) Close() error {
	if !c.owned || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}

// Validate implements catalog.Validator.
func (c *Client) Validate(item *core.Item) error {
	return catalog.ValidateItem(item)
}

// EnsureCollection implements catalog.Client.
func (c *Client) EnsureCollection(ctx context.Context, collection *catalog.Collection, update bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	data, err := json.Marshal(collection)
	if err != nil {
		return &catalog.PublishError{Op: "collection", CollectionID: collection.ID, Err: err}
	}

	var action string
	err = c.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCollectionKey(collection.ID)
		exists, err := keyExists(tx, key)
		if err != nil {
			return err
		}
		switch {
		case exists && !update:
			action = "kept"
			return nil
		case exists:
			action = "updated"
		default:
			action = "created"
		}
		if err := tx.Set(key, marshalDocument(c.envelope(collection.ID, data))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return &catalog.PublishError{Op: "collection", CollectionID: collection.ID, Err: err}
	}

	c.logger.Info("collection "+action, "collection", collection.ID)
	return nil
}

// ItemExists implements catalog.Client.
func (c *Client) ItemExists(ctx context.Context, collectionID, itemID string) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	var exists bool
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		exists, err = keyExists(tx, makeItemKey(collectionID, itemID))
		return err
	}, false)
	if err != nil {
		return false, &catalog.PublishError{Op: "lookup", CollectionID: collectionID, ItemID: itemID, Err: err}
	}
	return exists, nil
}

// CreateItem implements catalog.Client.
func (c *Client) CreateItem(ctx context.Context, collectionID string, item *core.Item) error {
	return c.writeItem("create", collectionID, item.ID, item, false)
}

// ReplaceItem implements catalog.Client.
func (c *Client) ReplaceItem(ctx context.Context, collectionID, itemID string, item *core.Item) error {
	if item.ID != itemID {
		return &catalog.PublishError{Op: "replace", CollectionID: collectionID, ItemID: itemID,
			Err: fmt.Errorf("%w: %q", ErrIDMismatch, item.ID)}
	}
	return c.writeItem("replace", collectionID, itemID, item, true)
}

func (c *Client) writeItem(op, collectionID, itemID string, item *core.Item, replace bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	data, err := json.Marshal(item)
	if err != nil {
		return &catalog.PublishError{Op: op, CollectionID: collectionID, ItemID: itemID, Err: err}
	}

	err = c.backend.WithTx(func(tx *badger.Txn) error {
		hasCollection, err := keyExists(tx, makeCollectionKey(collectionID))
		if err != nil {
			return err
		}
		if !hasCollection {
			return fmt.Errorf("collection %w", catalog.ErrNotFound)
		}

		key := makeItemKey(collectionID, itemID)
		exists, err := keyExists(tx, key)
		if err != nil {
			return err
		}
		if exists && !replace {
			return catalog.ErrAlreadyExists
		}
		if !exists && replace {
			return catalog.ErrNotFound
		}

		if err := tx.Set(key, marshalDocument(c.envelope(itemID, data))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return &catalog.PublishError{Op: op, CollectionID: collectionID, ItemID: itemID, Err: err}
	}

	c.logger.Debug("item stored", "op", op, "collection", collectionID, "item", itemID)
	return nil
}

// GetCollection returns the stored collection document.
func (c *Client) GetCollection(ctx context.Context, collectionID string) (*StoredDocument, error) {
	return c.get(makeCollectionKey(collectionID))
}

// GetItem returns the stored item document.
func (c *Client) GetItem(ctx context.Context, collectionID, itemID string) (*StoredDocument, error) {
	return c.get(makeItemKey(collectionID, itemID))
}

// ListItems returns the stored items of a collection in id order.
func (c *Client) ListItems(ctx context.Context, collectionID string) ([]*StoredDocument, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	var docs []*StoredDocument
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeItemPrefix(collectionID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := readDocument(iter.Item())
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) get(key []byte) (*StoredDocument, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	var doc *StoredDocument
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return catalog.ErrNotFound
		}
		if err != nil {
			return err
		}
		doc, err = readDocument(item)
		return err
	}, false)
	return doc, err
}

func (c *Client) envelope(id string, data []byte) StoredDocument {
	return StoredDocument{
		ID:        id,
		Digest:    core.DigestBytes(data),
		UpdatedAt: c.now().UTC(),
		Document:  data,
	}
}

func (c *Client) checkOpen() error {
	if c.backend.db == nil || c.backend.IsClosed() {
		return catalog.ErrClientClosed
	}
	return nil
}

func readDocument(item *badger.Item) (*StoredDocument, error) {
	var doc *StoredDocument
	err := item.Value(func(val []byte) error {
		var err error
		doc, err = unmarshalDocument(val)
		return err
	})
	return doc, err
}

func keyExists(tx *badger.Txn, key []byte) (bool, error) {
	_, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
