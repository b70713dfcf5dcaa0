package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/stacpopulator/catalog"
	"github.com/poiesic/stacpopulator/core"
)

// fakeCatalog is an in-memory catalog.Client that records calls.
type fakeCatalog struct {
	mu        sync.Mutex
	items     map[string]*core.Item
	created   []string
	replaced  []string
	lookupErr error
	createErr error
}

var _ catalog.Client = (*fakeCatalog)(nil)

func newFakeCatalog(existing ...string) *fakeCatalog {
	c := &fakeCatalog{items: make(map[string]*core.Item)}
	for _, id := range existing {
		c.items[id] = &core.Item{ID: id}
	}
	return c
}

func (c *fakeCatalog) Validate(item *core.Item) error {
	return catalog.ValidateItem(item)
}

func (c *fakeCatalog) EnsureCollection(ctx context.Context, col *catalog.Collection, update bool) error {
	return nil
}

func (c *fakeCatalog) ItemExists(ctx context.Context, collectionID, itemID string) (bool, error) {
	if c.lookupErr != nil {
		return false, c.lookupErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[itemID]
	return ok, nil
}

func (c *fakeCatalog) CreateItem(ctx context.Context, collectionID string, item *core.Item) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[item.ID]; ok {
		return &catalog.PublishError{Op: "create", CollectionID: collectionID, ItemID: item.ID, Err: catalog.ErrAlreadyExists}
	}
	c.items[item.ID] = item
	c.created = append(c.created, item.ID)
	return nil
}

func (c *fakeCatalog) ReplaceItem(ctx context.Context, collectionID, itemID string, item *core.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[itemID]; !ok {
		return &catalog.PublishError{Op: "replace", CollectionID: collectionID, ItemID: itemID, Err: catalog.ErrNotFound}
	}
	c.items[itemID] = item
	c.replaced = append(c.replaced, itemID)
	return nil
}

func (c *fakeCatalog) Close() error {
	return nil
}

// nameIdentifier uses the record name up to the first dot.
func nameIdentifier(raw *core.RawRecord) (string, error) {
	id, _, _ := strings.Cut(raw.Name, ".")
	if id == "" {
		return "", errors.New("record has no name")
	}
	return id, nil
}

var footprintStage = NewStage("footprint", func(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	return draft.SetGeometry(core.NewPolygon(-180, -90, 180, 90), []float64{-180, -90, 180, 90})
})

var datetimeStage = NewStage("datetime", func(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	return draft.SetProperty("datetime", "2000-01-01T00:00:00Z")
})

var requiredStage = NewStage("required_fields", func(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	v, ok := raw.Attributes["experiment_id"]
	if !ok {
		return fmt.Errorf("%w: experiment_id", core.ErrMissingProperty)
	}
	return draft.SetProperty("test:experiment_id", v)
})

// attributesStage copies every attribute into a namespaced property.
var attributesStage = NewStage("attributes", func(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	props := make(map[string]any, len(raw.Attributes))
	for k, v := range raw.Attributes {
		props["attr:"+k] = v
	}
	return draft.SetProperties(props)
})

func newTestPipeline(stages ...Stage) *Pipeline {
	if len(stages) == 0 {
		stages = []Stage{footprintStage, datetimeStage, requiredStage}
	}
	p, err := NewPipeline("test-collection", nameIdentifier, newFakeCatalog(), stages...)
	if err != nil {
		panic(err)
	}
	return p
}

func record(name string, attrs map[string]any) *core.RawRecord {
	return &core.RawRecord{Name: name, Attributes: attrs, AccessURLs: map[string]string{}}
}

func validRecord(name string) *core.RawRecord {
	return record(name, map[string]any{"experiment_id": "historical"})
}
