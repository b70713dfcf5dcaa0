// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ExtensionSchema is the JSON Schema of one STAC extension, keyed by the URI
// items declare in stac_extensions.
type ExtensionSchema struct {
	Name     string
	URI      string
	Document []byte

	// Validate, when set, checks constraints the document cannot express,
	// such as references between properties and assets.
	Validate func(item *Item) error

	schema *jsonschema.Schema
}

var extensionSchemas = struct {
	mu    sync.RWMutex
	byURI map[string]ExtensionSchema
}{byURI: make(map[string]ExtensionSchema)}

// RegisterExtensionSchema compiles the schema document and makes it known to ValidateItem.
// Registering the same URI again replaces the previous schema.
func RegisterExtensionSchema(schema ExtensionSchema) error {
	if schema.URI == "" {
		return fmt.Errorf("%w: extension %q has no URI", ErrInvalidSchema, schema.Name)
	}
	if len(schema.Document) == 0 {
		return fmt.Errorf("%w: extension %q has no document", ErrInvalidSchema, schema.Name)
	}
	compiled, err := CompileSchema(schema.URI, schema.Document)
	if err != nil {
		return err
	}
	schema.schema = compiled

	extensionSchemas.mu.Lock()
	defer extensionSchemas.mu.Unlock()
	extensionSchemas.byURI[schema.URI] = schema
	return nil
}

// MustRegisterExtensionSchema is like RegisterExtensionSchema but panics on error.
func MustRegisterExtensionSchema(schema ExtensionSchema) {
	if err := RegisterExtensionSchema(schema); err != nil {
		panic(err)
	}
}

// LookupExtensionSchema returns the schema registered for uri.
func LookupExtensionSchema(uri string) (ExtensionSchema, bool) {
	extensionSchemas.mu.RLock()
	defer extensionSchemas.mu.RUnlock()
	s, ok := extensionSchemas.byURI[uri]
	return s, ok
}

// ValidateItem validates an Item against the core item schema and every declared extension.
//
// Checks run in this order:
//   - ID must be set
//   - Geometry must be a closed polygon of finite positions
//   - BBox, when present, must be finite [west, south, east, north] within WGS84 bounds
//   - Properties must carry "datetime", or a null datetime with ordered
//     start_datetime / end_datetime (RFC 3339)
//   - The encoded document must match the STAC item schema
//   - Every stac_extensions URI must have a registered schema that accepts the document
func ValidateItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}
	if item.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyItemID)
	}
	if err := ValidateGeometry(item.Geometry); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}
	if item.BBox != nil {
		if err := ValidateBBox(item.BBox); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidItem, err)
		}
	}
	if err := validateDatetime(item.Properties); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	doc, err := itemInstance(item)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrInvalidItem, err)
	}
	if err := itemSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrInvalidItem, ErrSchemaViolation, err)
	}

	for _, uri := range item.STACExtensions {
		ext, ok := LookupExtensionSchema(uri)
		if !ok {
			return fmt.Errorf("%w: %w: %s", ErrInvalidItem, ErrUnknownExtension, uri)
		}
		if err := ext.schema.Validate(doc); err != nil {
			return fmt.Errorf("%w: %w: %s: %w", ErrInvalidItem, ErrInvalidExtension, ext.Name, err)
		}
		if ext.Validate == nil {
			continue
		}
		if err := ext.Validate(item); err != nil {
			return fmt.Errorf("%w: %w: %s: %w", ErrInvalidItem, ErrInvalidExtension, ext.Name, err)
		}
	}
	return nil
}

// ValidateGeometry checks that g is a closed GeoJSON polygon.
func ValidateGeometry(g *Geometry) error {
	if g == nil {
		return fmt.Errorf("%w: geometry is nil", ErrInvalidGeometry)
	}
	if g.Type != "Polygon" {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidGeometry, g.Type)
	}
	if len(g.Coordinates) == 0 {
		return fmt.Errorf("%w: polygon has no rings", ErrInvalidGeometry)
	}
	for i, ring := range g.Coordinates {
		if len(ring) < 4 {
			return fmt.Errorf("%w: ring %d has %d positions, need at least 4", ErrInvalidGeometry, i, len(ring))
		}
		for j, pos := range ring {
			if !finite(pos[:]...) {
				return fmt.Errorf("%w: ring %d position %d is not finite", ErrInvalidGeometry, i, j)
			}
		}
		if ring[0] != ring[len(ring)-1] {
			return fmt.Errorf("%w: ring %d is not closed", ErrInvalidGeometry, i)
		}
	}
	return nil
}

// ValidateBBox checks a 2D bounding box [west, south, east, north].
func ValidateBBox(bbox []float64) error {
	if len(bbox) != 4 {
		return fmt.Errorf("%w: expected 4 values, got %d", ErrInvalidBBox, len(bbox))
	}
	if !finite(bbox...) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidBBox, bbox)
	}
	west, south, east, north := bbox[0], bbox[1], bbox[2], bbox[3]
	if south > north {
		return fmt.Errorf("%w: south %v is greater than north %v", ErrInvalidBBox, south, north)
	}
	if south < -90 || north > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrInvalidBBox)
	}
	if west < -180 || west > 360 || east < -180 || east > 360 {
		return fmt.Errorf("%w: longitude out of range", ErrInvalidBBox)
	}
	return nil
}

// finite reports whether no value is NaN or infinite.
func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func validateDatetime(props map[string]any) error {
	if props == nil {
		return fmt.Errorf("%w: properties are missing", ErrInvalidDatetime)
	}
	dt, ok := props["datetime"]
	if !ok {
		return fmt.Errorf("%w: datetime is required (may be null)", ErrInvalidDatetime)
	}
	if dt != nil {
		s, isString := dt.(string)
		if !isString {
			return fmt.Errorf("%w: datetime must be a string or null", ErrInvalidDatetime)
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("%w: datetime: %w", ErrInvalidDatetime, err)
		}
		return nil
	}

	start, err := parseRFC3339Property(props, "start_datetime")
	if err != nil {
		return err
	}
	end, err := parseRFC3339Property(props, "end_datetime")
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_datetime is before start_datetime", ErrInvalidDatetime)
	}
	return nil
}

func parseRFC3339Property(props map[string]any, key string) (time.Time, error) {
	s, ok := props[key].(string)
	if !ok || s == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required when datetime is null", ErrInvalidDatetime, key)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrInvalidDatetime, key, err)
	}
	return t, nil
}
