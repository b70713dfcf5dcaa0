package extensions

import (
	"github.com/poiesic/stacpopulator/core"
)

const cesmLocation = "CMIP6/CMIP/NCAR/CESM2/historical/r1i1p1f1/day/tas/gn/v20190308/tas_day_CESM2_historical_r1i1p1f1_gn_18500101-18591231.nc"

// cmip6Record returns a complete CMIP6 dataset description.
func cmip6Record() *core.RawRecord {
	return &core.RawRecord{
		Name:     "tas_day_CESM2_historical_r1i1p1f1_gn_18500101-18591231.nc",
		Location: cesmLocation,
		Attributes: map[string]any{
			"Conventions":         "CF-1.7 CMIP-6.2",
			"mip_era":             "CMIP6",
			"activity_id":         "CMIP",
			"institution_id":      "NCAR",
			"source_id":           "CESM2",
			"experiment_id":       "historical",
			"variant_label":       "r1i1p1f1",
			"table_id":            "day",
			"variable_id":         "tas",
			"grid_label":          "gn",
			"frequency":           "day",
			"realization_index":   float64(1),
			"geospatial_lon_min":  0.0,
			"geospatial_lon_max":  358.75,
			"geospatial_lat_min":  -90.0,
			"geospatial_lat_max":  "90.0",
			"time_coverage_start": "1850-01-01T00:00:00Z",
			"time_coverage_end":   "1859-12-31",
		},
		AccessURLs: map[string]string{
			"HTTPServer": "https://pavics.ouranos.ca/twitcher/ows/proxy/thredds/fileServer/birdhouse/" + cesmLocation,
			"OPENDAP":    "https://pavics.ouranos.ca/twitcher/ows/proxy/thredds/dodsC/birdhouse/" + cesmLocation,
		},
		Dimensions: map[string]int{"time": 3650, "lat": 192, "lon": 288, "bnds": 2},
		Variables: map[string]core.Variable{
			"time": {
				Dimensions: []string{"time"},
				Attributes: map[string]any{"axis": "T", "calendar": "noleap", "bounds": "time_bnds", "units": "days since 1850-01-01"},
			},
			"lat": {
				Dimensions: []string{"lat"},
				Attributes: map[string]any{"axis": "Y", "units": "degrees_north", "long_name": "Latitude"},
			},
			"lon": {
				Dimensions: []string{"lon"},
				Attributes: map[string]any{"axis": "X", "units": "degrees_east", "long_name": "Longitude"},
			},
			"time_bnds": {Dimensions: []string{"time", "bnds"}},
			"tas": {
				Dimensions: []string{"time", "lat", "lon"},
				Attributes: map[string]any{"long_name": "Near-Surface Air Temperature", "units": "K"},
			},
		},
	}
}

// nexgddpRecord returns a complete NEX-GDDP-CMIP6 dataset description.
func nexgddpRecord() *core.RawRecord {
	return &core.RawRecord{
		Name: "tas_day_ACCESS-CM2_ssp245_r1i1p1f1_gn_2015.nc",
		Attributes: map[string]any{
			"scenario":             "ssp245",
			"cmip6_source_id":      "ACCESS-CM2",
			"cmip6_institution_id": "CSIRO-ARCCSS",
			"variant_label":        "r1i1p1f1",
			"institution":          "NASA Earth Exchange, NASA Ames Research Center",
			"frequency":            "day",
			"version":              "1.0",
			"cmip6_license":        "CC-BY-SA 4.0",
			"Conventions":          "CF-1.7",
			"geospatial_lon_min":   0.125,
			"geospatial_lon_max":   359.875,
			"geospatial_lat_min":   -59.875,
			"geospatial_lat_max":   89.875,
			"time_coverage_start":  "2015-01-01T12:00:00",
			"time_coverage_end":    "2015-12-31T12:00:00",
		},
		AccessURLs: map[string]string{
			"HTTPServer": "https://redoak.cs.toronto.edu/twitcher/ows/proxy/thredds/fileServer/datasets/NEX-GDDP-CMIP6/tas_day_ACCESS-CM2_ssp245_r1i1p1f1_gn_2015.nc",
		},
		Dimensions: map[string]int{"time": 365, "lat": 600, "lon": 1440},
		Variables: map[string]core.Variable{
			"time": {Dimensions: []string{"time"}, Attributes: map[string]any{"calendar": "gregorian"}},
			"lat":  {Dimensions: []string{"lat"}},
			"lon":  {Dimensions: []string{"lon"}},
			"tas":  {Dimensions: []string{"time", "lat", "lon"}},
		},
	}
}
