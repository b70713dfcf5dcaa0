package core

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/go-crypt/x/blake2b"
)

// Draft is the catalog record under construction.
// Stages only add to it: a value that has been set cannot be changed to a different one.
// Once sealed, every mutation fails with ErrDraftSealed.
type Draft struct {
	id         string
	collection string
	geometry   *Geometry
	bbox       []float64
	properties map[string]any
	extensions map[string]map[string]any // extension name -> payload
	schemaURIs []string                  // in application order
	assets     map[string]Asset
	links      []Link
	sealed     bool
}

// NewDraft creates an empty draft for an item of the given collection.
func NewDraft(collection string) *Draft {
	return &Draft{
		collection: collection,
		properties: make(map[string]any),
		extensions: make(map[string]map[string]any),
		assets:     make(map[string]Asset),
	}
}

// ID returns the item identifier, empty until set.
func (d *Draft) ID() string {
	return d.id
}

// Collection returns the collection the item belongs to.
func (d *Draft) Collection() string {
	return d.collection
}

// SetID sets the item identifier.
func (d *Draft) SetID(id string) error {
	if d.sealed {
		return ErrDraftSealed
	}
	if id == "" {
		return ErrEmptyItemID
	}
	if d.id != "" && d.id != id {
		return fmt.Errorf("%w: id already set to %q", ErrFieldConflict, d.id)
	}
	d.id = id
	return nil
}

// SetGeometry sets the footprint and bounding box of the item.
func (d *Draft) SetGeometry(geometry *Geometry, bbox []float64) error {
	if d.sealed {
		return ErrDraftSealed
	}
	if d.geometry != nil && !reflect.DeepEqual(d.geometry, geometry) {
		return fmt.Errorf("%w: geometry already set", ErrFieldConflict)
	}
	d.geometry = geometry
	d.bbox = slices.Clone(bbox)
	return nil
}

// SetProperty sets one item property.
func (d *Draft) SetProperty(key string, value any) error {
	if d.sealed {
		return ErrDraftSealed
	}
	if old, ok := d.properties[key]; ok && !reflect.DeepEqual(old, value) {
		return fmt.Errorf("%w: property %q", ErrFieldConflict, key)
	}
	if owner, ok := d.extensionOwning(key); ok {
		return fmt.Errorf("%w: property %q belongs to extension %q", ErrFieldConflict, key, owner)
	}
	d.properties[key] = cloneValue(value)
	return nil
}

// SetProperties sets several properties, in key order.
func (d *Draft) SetProperties(props map[string]any) error {
	for _, key := range slices.Sorted(maps.Keys(props)) {
		if err := d.SetProperty(key, props[key]); err != nil {
			return err
		}
	}
	return nil
}

// Property returns a property value previously set on the draft.
func (d *Draft) Property(key string) (any, bool) {
	v, ok := d.properties[key]
	return v, ok
}

// StringProperty returns a string property, or "" when absent or not a string.
func (d *Draft) StringProperty(key string) string {
	s, _ := d.properties[key].(string)
	return s
}

// ApplyExtension records an extension payload and declares its schema URI.
// Payload fields are rendered into the item properties.
func (d *Draft) ApplyExtension(name, schemaURI string, payload map[string]any) error {
	if d.sealed {
		return ErrDraftSealed
	}
	if _, ok := d.extensions[name]; ok {
		return fmt.Errorf("%w: extension %q already applied", ErrFieldConflict, name)
	}
	for key := range payload {
		if _, ok := d.properties[key]; ok {
			return fmt.Errorf("%w: extension %q field %q is already a property", ErrFieldConflict, name, key)
		}
		if owner, ok := d.extensionOwning(key); ok {
			return fmt.Errorf("%w: extension %q field %q belongs to extension %q", ErrFieldConflict, name, key, owner)
		}
	}
	d.extensions[name] = cloneMap(payload)
	if schemaURI != "" && !slices.Contains(d.schemaURIs, schemaURI) {
		d.schemaURIs = append(d.schemaURIs, schemaURI)
	}
	return nil
}

// Extension returns the payload of an applied extension.
func (d *Draft) Extension(name string) (map[string]any, bool) {
	p, ok := d.extensions[name]
	return p, ok
}

// SchemaURIs returns the applied extension schema URIs in application order.
func (d *Draft) SchemaURIs() []string {
	return slices.Clone(d.schemaURIs)
}

// AddAsset adds an asset under a unique key.
func (d *Draft) AddAsset(key string, asset Asset) error {
	if d.sealed {
		return ErrDraftSealed
	}
	if _, ok := d.assets[key]; ok {
		return fmt.Errorf("%w: asset %q", ErrFieldConflict, key)
	}
	asset.Roles = slices.Clone(asset.Roles)
	asset.Extra = cloneMap(asset.Extra)
	d.assets[key] = asset
	return nil
}

// AddLink appends a link.
func (d *Draft) AddLink(link Link) error {
	if d.sealed {
		return ErrDraftSealed
	}
	d.links = append(d.links, link)
	return nil
}

// Seal makes the draft immutable.
func (d *Draft) Seal() {
	d.sealed = true
}

// Sealed reports whether the draft was sealed.
func (d *Draft) Sealed() bool {
	return d.sealed
}

// Item renders the draft as a STAC item document. The result shares no state with the draft.
func (d *Draft) Item() *Item {
	props := cloneMap(d.properties)
	for _, name := range slices.Sorted(maps.Keys(d.extensions)) {
		for k, v := range d.extensions[name] {
			props[k] = cloneValue(v)
		}
	}

	item := &Item{
		Type:           "Feature",
		STACVersion:    STACVersion,
		STACExtensions: slices.Clone(d.schemaURIs),
		ID:             d.id,
		Collection:     d.collection,
		BBox:           slices.Clone(d.bbox),
		Properties:     props,
		Links:          slices.Clone(d.links),
		Assets:         make(map[string]Asset, len(d.assets)),
	}
	if item.STACExtensions == nil {
		item.STACExtensions = []string{}
	}
	if item.Links == nil {
		item.Links = []Link{}
	}
	if d.geometry != nil {
		g := *d.geometry
		g.Coordinates = make([][][2]float64, len(d.geometry.Coordinates))
		for i, ring := range d.geometry.Coordinates {
			g.Coordinates[i] = slices.Clone(ring)
		}
		item.Geometry = &g
	}
	for k, a := range d.assets {
		a.Roles = slices.Clone(a.Roles)
		a.Extra = cloneMap(a.Extra)
		item.Assets[k] = a
	}
	return item
}

// MarshalJSON encodes the draft as its item document. Map keys are sorted by encoding/json,
// so equal drafts encode to identical bytes.
func (d *Draft) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Item())
}

// Digest returns the hex BLAKE2b-256 of the draft's JSON encoding.
func (d *Draft) Digest() (string, error) {
	data, err := d.MarshalJSON()
	if err != nil {
		return "", err
	}
	return DigestBytes(data), nil
}

// DigestBytes returns the hex BLAKE2b-256 of data.
func DigestBytes(data []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (d *Draft) extensionOwning(key string) (string, bool) {
	for name, payload := range d.extensions {
		if _, ok := payload[key]; ok {
			return name, true
		}
	}
	return "", false
}
