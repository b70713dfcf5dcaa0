package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cmip6Config = `
title: CMIP6
id: CMIP6_UofT
description: Coupled Model Intercomparison Project phase 6
keywords: ['CMIP', 'CMIP6', 'WCRP', 'Climate Change']
license: "CC-BY-4.0"
spatialextent: [-180, -90, 180, 90]
temporalextent: ['1850-01-01', null]
links:
  - rel: about
    title: Project homepage
    target: https://wcrp-cmip.org/cmip-phase-6-cmip6/
    media_type: text/html
`

func TestParseCollectionConfig(t *testing.T) {
	cfg, err := ParseCollectionConfig([]byte(cmip6Config))
	require.NoError(t, err)
	assert.Equal(t, "CMIP6_UofT", cfg.ID)
	assert.Equal(t, []string{"CMIP", "CMIP6", "WCRP", "Climate Change"}, cfg.Keywords)
	require.Len(t, cfg.TemporalExtent, 2)
	assert.Nil(t, cfg.TemporalExtent[1])

	col := cfg.Collection()
	assert.Equal(t, "Collection", col.Type)
	assert.Equal(t, [][]float64{{-180, -90, 180, 90}}, col.Extent.Spatial.BBox)
	require.NotNil(t, col.Extent.Temporal.Interval[0][0])
	assert.Equal(t, "1850-01-01T00:00:00Z", *col.Extent.Temporal.Interval[0][0])
	assert.Nil(t, col.Extent.Temporal.Interval[0][1])
	require.Len(t, col.Links, 1)
	assert.Equal(t, "https://wcrp-cmip.org/cmip-phase-6-cmip6/", col.Links[0].Href)

	data, err := json.Marshal(col)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"interval":[["1850-01-01T00:00:00Z",null]]`)
}

func TestParseCollectionConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing id", yaml: "description: x\n"},
		{name: "missing description", yaml: "id: x\n"},
		{name: "unknown key", yaml: "id: x\ndescription: y\ncolour: blue\n"},
		{name: "bad bbox", yaml: "id: x\ndescription: y\nspatialextent: [0, 10, 1, -10]\n"},
		{name: "bad date", yaml: "id: x\ndescription: y\ntemporalextent: ['soon', null]\n"},
		{name: "one bound", yaml: "id: x\ndescription: y\ntemporalextent: ['2000-01-01']\n"},
		{name: "link without target", yaml: "id: x\ndescription: y\nlinks:\n  - rel: about\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCollectionConfig([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidCollection)
		})
	}
}

func TestCollection_Defaults(t *testing.T) {
	cfg, err := ParseCollectionConfig([]byte("id: x\ndescription: y\n"))
	require.NoError(t, err)
	col := cfg.Collection()
	assert.Equal(t, "other", col.License)
	assert.Equal(t, [][]float64{{-180, -90, 180, 90}}, col.Extent.Spatial.BBox)
	assert.Equal(t, [][]*string{{nil, nil}}, col.Extent.Temporal.Interval)
}

func TestLoadCollectionConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection_config.yml")
	require.NoError(t, os.WriteFile(path, []byte(cmip6Config), 0o644))

	cfg, err := LoadCollectionConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "CMIP6", cfg.Title)

	_, err = LoadCollectionConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestPublishError(t *testing.T) {
	err := &PublishError{Op: "create", CollectionID: "c", ItemID: "i", StatusCode: 409, Err: ErrAlreadyExists}
	assert.Equal(t, "catalog create c/i: status 409: already exists", err.Error())
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	var pe *PublishError
	require.True(t, errors.As(error(err), &pe))
	assert.Equal(t, 409, pe.StatusCode)

	noStatus := &PublishError{Op: "lookup", CollectionID: "c", Err: ErrNotFound}
	assert.Equal(t, "catalog lookup c: not found", noStatus.Error())
}
