package extensions

import (
	"context"
	"fmt"

	"github.com/poiesic/stacpopulator/core"
	"github.com/poiesic/stacpopulator/ingestion"
)

// GeometryStage derives the item footprint from the geospatial_lon/lat_min/max attributes.
type GeometryStage struct{}

var _ ingestion.Stage = (*GeometryStage)(nil)

func NewGeometryStage() *GeometryStage {
	return &GeometryStage{}
}

func (s *GeometryStage) Name() string {
	return "geometry"
}

func (s *GeometryStage) Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	var bounds [4]float64
	for i, key := range []string{"geospatial_lon_min", "geospatial_lat_min", "geospatial_lon_max", "geospatial_lat_max"} {
		v, err := floatAttr(raw.Attributes, key)
		if err != nil {
			return err
		}
		bounds[i] = v
	}
	lonMin, latMin, lonMax, latMax := bounds[0], bounds[1], bounds[2], bounds[3]

	bbox := []float64{lonMin, latMin, lonMax, latMax}
	if err := core.ValidateBBox(bbox); err != nil {
		return fmt.Errorf("%w: geospatial bounds: %w", ErrInvalidAttribute, err)
	}
	return draft.SetGeometry(core.NewPolygon(lonMin, latMin, lonMax, latMax), bbox)
}
