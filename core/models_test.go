package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
		update bool
		want   PublishDecision
	}{
		{name: "new item is created", exists: false, update: false, want: DecisionCreate},
		{name: "new item is created in update mode", exists: false, update: true, want: DecisionCreate},
		{name: "existing item is replaced in update mode", exists: true, update: true, want: DecisionUpdate},
		{name: "existing item is skipped", exists: true, update: false, want: DecisionSkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.exists, tt.update))
		})
	}
}

func TestDecide_PropertyBased_SkipOnlyForExistingWithoutUpdate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		exists := rapid.Bool().Draw(t, "exists")
		update := rapid.Bool().Draw(t, "update")

		decision := Decide(exists, update)
		if decision == DecisionSkip {
			assert.True(t, exists && !update, "skip requires an existing item and update=false")
		}
		if !exists {
			assert.Equal(t, DecisionCreate, decision)
		}
	})
}

func TestPublishDecision_String(t *testing.T) {
	assert.Equal(t, "create", DecisionCreate.String())
	assert.Equal(t, "update", DecisionUpdate.String())
	assert.Equal(t, "skip", DecisionSkip.String())
	assert.Equal(t, "unknown", PublishDecision(0).String())
}

func TestRecordState_String(t *testing.T) {
	assert.Equal(t, "fetched", StateFetched.String())
	assert.Equal(t, "published", StatePublished.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "skipped", StateSkipped.String())
}

func TestRawRecord_CloneIsDeep(t *testing.T) {
	raw := &RawRecord{
		Name:       "tas_day.nc",
		Attributes: map[string]any{"source_type": []any{"AOGCM", "BGC"}, "nested": map[string]any{"k": "v"}},
		AccessURLs: map[string]string{"OPENDAP": "https://example.org/dodsC/tas_day.nc"},
		Dimensions: map[string]int{"time": 10},
		Variables: map[string]Variable{
			"tas": {Dimensions: []string{"time"}, Attributes: map[string]any{"units": "K"}},
		},
	}

	c := raw.Clone()
	require.Equal(t, raw, c)

	c.Attributes["source_type"].([]any)[0] = "changed"
	c.Attributes["nested"].(map[string]any)["k"] = "changed"
	c.AccessURLs["OPENDAP"] = "changed"
	c.Variables["tas"].Attributes["units"] = "changed"
	c.Variables["tas"].Dimensions[0] = "changed"

	assert.Equal(t, "AOGCM", raw.Attributes["source_type"].([]any)[0])
	assert.Equal(t, "v", raw.Attributes["nested"].(map[string]any)["k"])
	assert.Equal(t, "https://example.org/dodsC/tas_day.nc", raw.AccessURLs["OPENDAP"])
	assert.Equal(t, "K", raw.Variables["tas"].Attributes["units"])
	assert.Equal(t, "time", raw.Variables["tas"].Dimensions[0])
}

func TestRawRecord_CloneNil(t *testing.T) {
	var raw *RawRecord
	assert.Nil(t, raw.Clone())
}

func TestNewPolygon_IsClosed(t *testing.T) {
	g := NewPolygon(-180, -90, 180, 90)
	require.NoError(t, ValidateGeometry(g))
	ring := g.Coordinates[0]
	assert.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
}

func TestAsset_MarshalJSONInlinesExtra(t *testing.T) {
	a := Asset{
		Href:  "https://example.org/file.nc",
		Roles: []string{"data"},
		Extra: map[string]any{"thredds:service": "HTTPServer"},
	}
	data, err := a.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"href":"https://example.org/file.nc","roles":["data"],"thredds:service":"HTTPServer"}`, string(data))
}
