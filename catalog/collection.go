package catalog

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/stacpopulator/core"
	"gopkg.in/yaml.v3"
)

// CollectionConfig is the YAML description of a collection.
type CollectionConfig struct {
	ID             string       `yaml:"id"`
	Title          string       `yaml:"title"`
	Description    string       `yaml:"description"`
	Keywords       []string     `yaml:"keywords"`
	License        string       `yaml:"license"`
	SpatialExtent  []float64    `yaml:"spatialextent"`
	TemporalExtent []*string    `yaml:"temporalextent"`
	Links          []ConfigLink `yaml:"links"`
}

// ConfigLink is a collection link as written in the YAML configuration.
type ConfigLink struct {
	Rel       string `yaml:"rel"`
	Title     string `yaml:"title"`
	Target    string `yaml:"target"`
	MediaType string `yaml:"media_type"`
}

// Collection is a STAC collection document.
type Collection struct {
	Type           string      `json:"type"`
	STACVersion    string      `json:"stac_version"`
	STACExtensions []string    `json:"stac_extensions"`
	ID             string      `json:"id"`
	Title          string      `json:"title,omitempty"`
	Description    string      `json:"description"`
	Keywords       []string    `json:"keywords,omitempty"`
	License        string      `json:"license"`
	Extent         Extent      `json:"extent"`
	Links          []core.Link `json:"links"`
}

// Extent is the spatial and temporal extent of a collection.
type Extent struct {
	Spatial  SpatialExtent  `json:"spatial"`
	Temporal TemporalExtent `json:"temporal"`
}

// SpatialExtent holds collection bounding boxes.
type SpatialExtent struct {
	BBox [][]float64 `json:"bbox"`
}

// TemporalExtent holds collection time intervals; nil bounds are open.
type TemporalExtent struct {
	Interval [][]*string `json:"interval"`
}

// LoadCollectionConfig reads a YAML collection configuration from path.
func LoadCollectionConfig(path string) (*CollectionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection config: %w", err)
	}
	return ParseCollectionConfig(data)
}

// ParseCollectionConfig decodes a YAML collection configuration. Unknown keys are rejected.
func ParseCollectionConfig(data []byte) (*CollectionConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg CollectionConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCollection, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration describes a usable collection.
func (c *CollectionConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidCollection)
	}
	if c.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidCollection)
	}
	if c.SpatialExtent != nil {
		if err := core.ValidateBBox(c.SpatialExtent); err != nil {
			return fmt.Errorf("%w: spatialextent: %w", ErrInvalidCollection, err)
		}
	}
	if c.TemporalExtent != nil && len(c.TemporalExtent) != 2 {
		return fmt.Errorf("%w: temporalextent needs a start and an end", ErrInvalidCollection)
	}
	for _, bound := range c.TemporalExtent {
		if bound == nil {
			continue
		}
		if _, err := normalizeDate(*bound); err != nil {
			return fmt.Errorf("%w: temporalextent: %w", ErrInvalidCollection, err)
		}
	}
	for i, l := range c.Links {
		if l.Rel == "" || l.Target == "" {
			return fmt.Errorf("%w: link %d needs rel and target", ErrInvalidCollection, i)
		}
	}
	return nil
}

// Collection converts the configuration into a STAC collection document.
// The configuration must have passed Validate.
func (c *CollectionConfig) Collection() *Collection {
	bbox := c.SpatialExtent
	if bbox == nil {
		bbox = []float64{-180, -90, 180, 90}
	}
	interval := []*string{nil, nil}
	for i, bound := range c.TemporalExtent {
		if bound == nil {
			continue
		}
		normalized, _ := normalizeDate(*bound)
		interval[i] = &normalized
	}
	license := c.License
	if license == "" {
		license = "other"
	}

	links := make([]core.Link, 0, len(c.Links))
	for _, l := range c.Links {
		links = append(links, core.Link{Rel: l.Rel, Href: l.Target, Type: l.MediaType, Title: l.Title})
	}

	return &Collection{
		Type:           "Collection",
		STACVersion:    core.STACVersion,
		STACExtensions: []string{},
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Keywords:       c.Keywords,
		License:        license,
		Extent: Extent{
			Spatial:  SpatialExtent{BBox: [][]float64{bbox}},
			Temporal: TemporalExtent{Interval: [][]*string{interval}},
		},
		Links: links,
	}
}

// normalizeDate accepts a date or an RFC 3339 timestamp and returns RFC 3339 in UTC.
func normalizeDate(s string) (string, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("unrecognized date %q", s)
	}
	return t.Format(time.RFC3339), nil
}
