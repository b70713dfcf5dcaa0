package extensions

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/poiesic/stacpopulator/core"
	"github.com/poiesic/stacpopulator/ingestion"
)

var (
	longitudeNames = []string{"lon", "longitude", "x", "rlon"}
	latitudeNames  = []string{"lat", "latitude", "y", "rlat"}
	verticalNames  = []string{"height", "depth", "lev", "plev", "level", "z"}
	timeNames      = []string{"time", "t"}
)

// DatacubeStage describes the dataset dimensions and variables with the datacube extension.
// It must run after the geometry and temporal stages to pick up their extents.
type DatacubeStage struct{}

var _ ingestion.Stage = (*DatacubeStage)(nil)

func NewDatacubeStage() *DatacubeStage {
	return &DatacubeStage{}
}

func (s *DatacubeStage) Name() string {
	return "datacube"
}

func (s *DatacubeStage) Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	dimNames := make(map[string]struct{}, len(raw.Dimensions))
	for name := range raw.Dimensions {
		dimNames[name] = struct{}{}
	}
	for _, v := range raw.Variables {
		for _, d := range v.Dimensions {
			dimNames[d] = struct{}{}
		}
	}
	if len(dimNames) == 0 {
		return ErrNoDimensions
	}

	dimensions := make(map[string]any, len(dimNames))
	for _, name := range slices.Sorted(maps.Keys(dimNames)) {
		dimensions[name] = describeDimension(name, raw, draft)
	}

	variables := make(map[string]any, len(raw.Variables))
	for _, name := range slices.Sorted(maps.Keys(raw.Variables)) {
		variables[name] = describeVariable(name, raw)
	}

	return draft.ApplyExtension("datacube", DatacubeSchemaURI, map[string]any{
		"cube:dimensions": dimensions,
		"cube:variables":  variables,
	})
}

func describeDimension(name string, raw *core.RawRecord, draft *core.Draft) map[string]any {
	axis := strings.ToUpper(stringAttr(raw.Variables[name].Attributes, "axis"))
	lower := strings.ToLower(name)

	dim := make(map[string]any)
	switch {
	case axis == "X" || slices.Contains(longitudeNames, lower):
		dim["type"] = "spatial"
		dim["axis"] = "x"
		dim["reference_system"] = 4326
		if extent, ok := numericExtent(raw.Attributes, "geospatial_lon_min", "geospatial_lon_max"); ok {
			dim["extent"] = extent
		}
	case axis == "Y" || slices.Contains(latitudeNames, lower):
		dim["type"] = "spatial"
		dim["axis"] = "y"
		dim["reference_system"] = 4326
		if extent, ok := numericExtent(raw.Attributes, "geospatial_lat_min", "geospatial_lat_max"); ok {
			dim["extent"] = extent
		}
	case axis == "Z" || slices.Contains(verticalNames, lower):
		dim["type"] = "spatial"
		dim["axis"] = "z"
		if extent, ok := numericExtent(raw.Attributes, "geospatial_vertical_min", "geospatial_vertical_max"); ok {
			dim["extent"] = extent
		}
	case axis == "T" || slices.Contains(timeNames, lower):
		dim["type"] = "temporal"
		start, end := draft.StringProperty("start_datetime"), draft.StringProperty("end_datetime")
		if start != "" && end != "" {
			dim["extent"] = []any{start, end}
		}
	default:
		dim["type"] = "other"
	}

	if desc := stringAttr(raw.Variables[name].Attributes, "long_name"); desc != "" {
		dim["description"] = desc
	}
	if unit := stringAttr(raw.Variables[name].Attributes, "units"); unit != "" && dim["type"] != "temporal" {
		dim["unit"] = unit
	}
	if size, ok := raw.Dimensions[name]; ok && dim["type"] == "other" {
		dim["size"] = size
	}
	return dim
}

func describeVariable(name string, raw *core.RawRecord) map[string]any {
	v := raw.Variables[name]
	kind := "data"
	if _, isDim := raw.Dimensions[name]; isDim || isAuxiliary(name, raw) {
		kind = "auxiliary"
	}

	dims := slices.Clone(v.Dimensions)
	if dims == nil {
		dims = []string{}
	}
	out := map[string]any{
		"type":       kind,
		"dimensions": dims,
	}
	if desc := stringAttr(v.Attributes, "long_name"); desc != "" {
		out["description"] = desc
	}
	if unit := stringAttr(v.Attributes, "units"); unit != "" {
		out["unit"] = unit
	}
	return out
}

// isAuxiliary reports whether name is a coordinate bounds variable of another variable.
func isAuxiliary(name string, raw *core.RawRecord) bool {
	if strings.HasSuffix(name, "_bnds") || strings.HasSuffix(name, "_bounds") {
		return true
	}
	for other, v := range raw.Variables {
		if other != name && stringAttr(v.Attributes, "bounds") == name {
			return true
		}
	}
	return false
}

func numericExtent(attrs map[string]any, minKey, maxKey string) ([]any, bool) {
	lo, err := floatAttr(attrs, minKey)
	if err != nil {
		return nil, false
	}
	hi, err := floatAttr(attrs, maxKey)
	if err != nil {
		return nil, false
	}
	return []any{lo, hi}, true
}
