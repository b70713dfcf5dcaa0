package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testExtensionURI = "https://example.org/test-extension/v1.0.0/schema.json"

const testExtensionDocument = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["properties"],
  "properties": {
    "properties": {
      "type": "object",
      "required": ["test:field"],
      "properties": {"test:field": {"type": "string", "enum": ["ok", "fine"]}}
    }
  }
}`

var errTestCheck = errors.New("test:field must not be fine on item-2")

func init() {
	MustRegisterExtensionSchema(ExtensionSchema{
		Name:     "test",
		URI:      testExtensionURI,
		Document: []byte(testExtensionDocument),
		Validate: func(item *Item) error {
			if item.ID == "item-2" && item.Properties["test:field"] == "fine" {
				return errTestCheck
			}
			return nil
		},
	})
}

func validItem() *Item {
	return &Item{
		Type:           "Feature",
		STACVersion:    STACVersion,
		STACExtensions: []string{},
		ID:             "item-1",
		Geometry:       NewPolygon(-10, -20, 10, 20),
		BBox:           []float64{-10, -20, 10, 20},
		Properties: map[string]any{
			"datetime":       nil,
			"start_datetime": "2015-01-01T00:00:00Z",
			"end_datetime":   "2100-12-31T00:00:00Z",
		},
		Links:  []Link{},
		Assets: map[string]Asset{"data": {Href: "https://example.org/x.nc"}},
	}
}

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Item)
		wantErr error
	}{
		{name: "valid item", mutate: func(*Item) {}},
		{name: "single datetime", mutate: func(i *Item) {
			i.Properties = map[string]any{"datetime": "2020-01-01T00:00:00Z"}
		}},
		{name: "wrong type", mutate: func(i *Item) { i.Type = "Collection" }, wantErr: ErrSchemaViolation},
		{name: "wrong stac version", mutate: func(i *Item) { i.STACVersion = "0.9.0" }, wantErr: ErrSchemaViolation},
		{name: "empty id", mutate: func(i *Item) { i.ID = "" }, wantErr: ErrEmptyItemID},
		{name: "missing geometry", mutate: func(i *Item) { i.Geometry = nil }, wantErr: ErrInvalidGeometry},
		{name: "open ring", mutate: func(i *Item) {
			i.Geometry.Coordinates[0][4] = [2]float64{1, 1}
		}, wantErr: ErrInvalidGeometry},
		{name: "NaN position", mutate: func(i *Item) {
			i.Geometry.Coordinates[0][2] = [2]float64{math.NaN(), 20}
		}, wantErr: ErrInvalidGeometry},
		{name: "infinite position", mutate: func(i *Item) {
			i.Geometry.Coordinates[0][2] = [2]float64{10, math.Inf(1)}
		}, wantErr: ErrInvalidGeometry},
		{name: "NaN bbox", mutate: func(i *Item) { i.BBox[3] = math.NaN() }, wantErr: ErrInvalidBBox},
		{name: "infinite bbox", mutate: func(i *Item) { i.BBox[0] = math.Inf(-1) }, wantErr: ErrInvalidBBox},
		{name: "short bbox", mutate: func(i *Item) { i.BBox = []float64{1, 2} }, wantErr: ErrInvalidBBox},
		{name: "inverted latitude", mutate: func(i *Item) { i.BBox = []float64{0, 20, 10, -20} }, wantErr: ErrInvalidBBox},
		{name: "missing datetime", mutate: func(i *Item) { delete(i.Properties, "datetime") }, wantErr: ErrInvalidDatetime},
		{name: "missing end", mutate: func(i *Item) { delete(i.Properties, "end_datetime") }, wantErr: ErrInvalidDatetime},
		{name: "end before start", mutate: func(i *Item) {
			i.Properties["end_datetime"] = "2000-01-01T00:00:00Z"
		}, wantErr: ErrInvalidDatetime},
		{name: "malformed start", mutate: func(i *Item) {
			i.Properties["start_datetime"] = "2015-01-01"
		}, wantErr: ErrInvalidDatetime},
		{name: "asset without href", mutate: func(i *Item) { i.Assets["data"] = Asset{} }, wantErr: ErrSchemaViolation},
		{name: "link without rel", mutate: func(i *Item) { i.Links = []Link{{Href: "x"}} }, wantErr: ErrSchemaViolation},
		{name: "malformed created", mutate: func(i *Item) {
			i.Properties = map[string]any{"datetime": "2020-01-01T00:00:00Z", "created": "yesterday"}
		}, wantErr: ErrSchemaViolation},
		{name: "unknown extension", mutate: func(i *Item) {
			i.STACExtensions = []string{"https://example.org/unknown.json"}
		}, wantErr: ErrUnknownExtension},
		{name: "extension field missing", mutate: func(i *Item) {
			i.STACExtensions = []string{testExtensionURI}
		}, wantErr: ErrInvalidExtension},
		{name: "extension value outside enum", mutate: func(i *Item) {
			i.STACExtensions = []string{testExtensionURI}
			i.Properties["test:field"] = "bad"
		}, wantErr: ErrInvalidExtension},
		{name: "extension check rejects", mutate: func(i *Item) {
			i.ID = "item-2"
			i.STACExtensions = []string{testExtensionURI}
			i.Properties["test:field"] = "fine"
		}, wantErr: errTestCheck},
		{name: "extension field present", mutate: func(i *Item) {
			i.STACExtensions = []string{testExtensionURI}
			i.Properties["test:field"] = "ok"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(item)
			err := ValidateItem(item)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			assert.ErrorIs(t, err, ErrInvalidItem)
		})
	}
}

func TestValidateItem_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateItem(nil), ErrInvalidItem)
}

func TestValidateItem_ExtensionErrorNamesSchema(t *testing.T) {
	item := validItem()
	item.STACExtensions = []string{testExtensionURI}
	err := ValidateItem(item)
	require.ErrorIs(t, err, ErrInvalidExtension)
	assert.Contains(t, err.Error(), "test")
	assert.Contains(t, err.Error(), "test:field")
}

func TestRegisterExtensionSchema_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		schema ExtensionSchema
	}{
		{"no uri", ExtensionSchema{Name: "x", Document: []byte(`{}`)}},
		{"no document", ExtensionSchema{Name: "x", URI: "https://example.org/x.json"}},
		{"malformed document", ExtensionSchema{Name: "x", URI: "https://example.org/x.json", Document: []byte(`{"type":`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, RegisterExtensionSchema(tt.schema), ErrInvalidSchema)
		})
	}
	_, ok := LookupExtensionSchema("https://example.org/x.json")
	assert.False(t, ok)
}

func TestValidateItem_NaNNeverReachesEncoding(t *testing.T) {
	item := validItem()
	item.Geometry = NewPolygon(-10, -20, 10, math.NaN())
	item.BBox = []float64{-10, -20, 10, math.NaN()}
	err := ValidateItem(item)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "unsupported value")
}

func TestLookupExtensionSchema(t *testing.T) {
	s, ok := LookupExtensionSchema(testExtensionURI)
	require.True(t, ok)
	assert.Equal(t, "test", s.Name)

	_, ok = LookupExtensionSchema("nope")
	assert.False(t, ok)
}
