package extensions

import (
	"context"
	"path"
	"strings"

	"github.com/poiesic/stacpopulator/core"
	"github.com/poiesic/stacpopulator/ingestion"
)

// CMIP6Properties are the CMIP6 global attributes recorded on an item.
type CMIP6Properties struct {
	Conventions         string `mapstructure:"Conventions,omitempty"`
	ActivityID          string `mapstructure:"activity_id,omitempty"`
	CreationDate        string `mapstructure:"creation_date,omitempty"`
	DataSpecsVersion    string `mapstructure:"data_specs_version,omitempty"`
	Experiment          string `mapstructure:"experiment,omitempty"`
	ExperimentID        string `mapstructure:"experiment_id,omitempty"`
	Frequency           string `mapstructure:"frequency,omitempty"`
	FurtherInfoURL      string `mapstructure:"further_info_url,omitempty"`
	GridLabel           string `mapstructure:"grid_label,omitempty"`
	Grid                string `mapstructure:"grid,omitempty"`
	Institution         string `mapstructure:"institution,omitempty"`
	InstitutionID       string `mapstructure:"institution_id,omitempty"`
	License             string `mapstructure:"license,omitempty"`
	MipEra              string `mapstructure:"mip_era,omitempty"`
	NominalResolution   string `mapstructure:"nominal_resolution,omitempty"`
	Product             string `mapstructure:"product,omitempty"`
	Realm               string `mapstructure:"realm,omitempty"`
	Source              string `mapstructure:"source,omitempty"`
	SourceID            string `mapstructure:"source_id,omitempty"`
	SourceType          string `mapstructure:"source_type,omitempty"`
	SubExperiment       string `mapstructure:"sub_experiment,omitempty"`
	SubExperimentID     string `mapstructure:"sub_experiment_id,omitempty"`
	TableID             string `mapstructure:"table_id,omitempty"`
	TrackingID          string `mapstructure:"tracking_id,omitempty"`
	VariableID          string `mapstructure:"variable_id,omitempty"`
	VariantLabel        string `mapstructure:"variant_label,omitempty"`
	Version             string `mapstructure:"version,omitempty"`
	InitializationIndex int    `mapstructure:"initialization_index,omitempty"`
	PhysicsIndex        int    `mapstructure:"physics_index,omitempty"`
	RealizationIndex    int    `mapstructure:"realization_index,omitempty"`
	ForcingIndex        int    `mapstructure:"forcing_index,omitempty"`
}

// cmip6Required lists the attributes every CMIP6 item must carry.
var cmip6Required = []string{
	"activity_id", "experiment_id", "frequency", "grid_label", "institution_id",
	"mip_era", "source_id", "table_id", "variable_id", "variant_label", "version",
}

// cmip6IDKeys are joined, in this order, into the item id (Data Reference Syntax order).
var cmip6IDKeys = []string{
	"mip_era", "activity_id", "institution_id", "source_id", "experiment_id",
	"variant_label", "table_id", "variable_id", "grid_label", "version",
}

// CMIP6Attributes returns a copy of the record attributes with "version" filled in.
//
// The data version is not stored in the files; it is the parent directory of the dataset
// in the Data Reference Syntax layout (.../tas/gn/v20190429/tas_file.nc).
func CMIP6Attributes(raw *core.RawRecord) map[string]any {
	attrs := cloneAttributes(raw.Attributes)
	if stringAttr(attrs, "version") != "" {
		return attrs
	}
	for _, loc := range []string{raw.Location, raw.AccessURLs["HTTPServer"], raw.AccessURLs["OPENDAP"]} {
		if v := parentDir(loc); v != "" {
			attrs["version"] = v
			break
		}
	}
	return attrs
}

func parentDir(loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return ""
	}
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	dir := path.Dir(loc)
	if dir == "." || dir == "/" {
		return ""
	}
	return path.Base(dir)
}

// CMIP6ItemID derives the item id of a CMIP6 dataset.
func CMIP6ItemID(raw *core.RawRecord) (string, error) {
	attrs := CMIP6Attributes(raw)
	if err := requireAttrs(attrs, cmip6IDKeys...); err != nil {
		return "", err
	}
	parts := make([]string, len(cmip6IDKeys))
	for i, k := range cmip6IDKeys {
		parts[i] = stringAttr(attrs, k)
	}
	return strings.Join(parts, "_"), nil
}

// CMIP6Stage applies the CMIP6 extension.
type CMIP6Stage struct{}

var _ ingestion.Stage = (*CMIP6Stage)(nil)

func NewCMIP6Stage() *CMIP6Stage {
	return &CMIP6Stage{}
}

func (s *CMIP6Stage) Name() string {
	return "cmip6"
}

func (s *CMIP6Stage) Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	attrs := CMIP6Attributes(raw)
	if err := requireAttrs(attrs, cmip6Required...); err != nil {
		return err
	}

	var props CMIP6Properties
	if err := decodeAttributes(attrs, &props); err != nil {
		return err
	}
	payload, err := encodeProperties("cmip6:", props)
	if err != nil {
		return err
	}
	return draft.ApplyExtension("cmip6", CMIP6SchemaURI, payload)
}
