package core

import (
	"encoding/json"
	"maps"
	"slices"
)

// STACVersion is the STAC version written on every item and collection.
const STACVersion = "1.0.0"

// Variable describes one NcML variable of a dataset.
type Variable struct {
	Dimensions []string       `json:"dimensions,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RawRecord is the descriptive metadata of one remote dataset, as produced by a data source.
// It is never mutated once produced; stages receive a copy.
type RawRecord struct {
	Name       string              `json:"name"`
	Location   string              `json:"location,omitempty"`   // Catalog location of the dataset
	Attributes map[string]any      `json:"attributes"`           // Global NcML attributes
	AccessURLs map[string]string   `json:"access_urls"`          // Service name -> URL
	Dimensions map[string]int      `json:"dimensions,omitempty"` // Dimension name -> length
	Variables  map[string]Variable `json:"variables,omitempty"`
}

// Clone returns a deep copy of the record.
func (r *RawRecord) Clone() *RawRecord {
	if r == nil {
		return nil
	}
	c := &RawRecord{
		Name:       r.Name,
		Location:   r.Location,
		Attributes: cloneMap(r.Attributes),
		AccessURLs: maps.Clone(r.AccessURLs),
		Dimensions: maps.Clone(r.Dimensions),
	}
	if r.Variables != nil {
		c.Variables = make(map[string]Variable, len(r.Variables))
		for name, v := range r.Variables {
			c.Variables[name] = Variable{
				Dimensions: slices.Clone(v.Dimensions),
				Attributes: cloneMap(v.Attributes),
			}
		}
	}
	return c
}

// Geometry is a GeoJSON geometry. Only polygons are produced by the populators.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// NewPolygon returns the closed polygon covering the given bounding box.
func NewPolygon(lonMin, latMin, lonMax, latMax float64) *Geometry {
	return &Geometry{
		Type: "Polygon",
		Coordinates: [][][2]float64{{
			{lonMin, latMin},
			{lonMin, latMax},
			{lonMax, latMax},
			{lonMax, latMin},
			{lonMin, latMin},
		}},
	}
}

// Link is a STAC link object.
type Link struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// Asset is a STAC asset object.
type Asset struct {
	Href        string         `json:"href"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type,omitempty"`
	Roles       []string       `json:"roles,omitempty"`
	Extra       map[string]any `json:"-"`
}

// MarshalJSON inlines Extra (extension fields such as "thredds:service") next to the standard fields.
func (a Asset) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+5)
	for k, v := range a.Extra {
		out[k] = v
	}
	out["href"] = a.Href
	if a.Title != "" {
		out["title"] = a.Title
	}
	if a.Description != "" {
		out["description"] = a.Description
	}
	if a.Type != "" {
		out["type"] = a.Type
	}
	if len(a.Roles) > 0 {
		out["roles"] = a.Roles
	}
	return json.Marshal(out)
}

// Item is the STAC item document handed to the catalog.
type Item struct {
	Type           string           `json:"type"`
	STACVersion    string           `json:"stac_version"`
	STACExtensions []string         `json:"stac_extensions"`
	ID             string           `json:"id"`
	Collection     string           `json:"collection,omitempty"`
	Geometry       *Geometry        `json:"geometry"`
	BBox           []float64        `json:"bbox,omitempty"`
	Properties     map[string]any   `json:"properties"`
	Links          []Link           `json:"links"`
	Assets         map[string]Asset `json:"assets"`
}

// HasExtension reports whether the item declares the extension schema URI.
func (i *Item) HasExtension(uri string) bool {
	return slices.Contains(i.STACExtensions, uri)
}

// PublishDecision tells the orchestrator what to do with a record.
type PublishDecision int

const (
	// DecisionCreate publishes a record that is not in the catalog yet.
	DecisionCreate PublishDecision = iota + 1
	// DecisionUpdate replaces an existing item.
	DecisionUpdate
	// DecisionSkip leaves an existing item untouched.
	DecisionSkip
)

func (d PublishDecision) String() string {
	switch d {
	case DecisionCreate:
		return "create"
	case DecisionUpdate:
		return "update"
	case DecisionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Decide derives the publish decision from catalog state.
// Skip is only returned for an existing item when update is false.
func Decide(exists, update bool) PublishDecision {
	switch {
	case !exists:
		return DecisionCreate
	case update:
		return DecisionUpdate
	default:
		return DecisionSkip
	}
}

// RecordState is the lifecycle state of one record during ingestion.
type RecordState int

const (
	StateFetched RecordState = iota + 1
	StateBuilt
	StateValidated
	StatePublished
	StateFailed
	StateSkipped
)

func (s RecordState) String() string {
	switch s {
	case StateFetched:
		return "fetched"
	case StateBuilt:
		return "built"
	case StateValidated:
		return "validated"
	case StatePublished:
		return "published"
	case StateFailed:
		return "failed"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// cloneMap deep copies JSON-like values (maps, slices, scalars).
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	case []float64:
		return slices.Clone(t)
	default:
		return v
	}
}
