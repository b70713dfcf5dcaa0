package extensions

import (
	"context"
	"strings"

	"github.com/poiesic/stacpopulator/core"
	"github.com/poiesic/stacpopulator/ingestion"
)

// NEXGDDPProperties are the NEX-GDDP-CMIP6 attributes recorded on an item.
// Attribute names differ from the published property names; see Properties.
type NEXGDDPProperties struct {
	Scenario           string `mapstructure:"scenario"`
	CMIP6SourceID      string `mapstructure:"cmip6_source_id"`
	CMIP6InstitutionID string `mapstructure:"cmip6_institution_id"`
	VariantLabel       string `mapstructure:"variant_label"`
	VariableID         string `mapstructure:"variable_id"`
	Institution        string `mapstructure:"institution"`
	Frequency          string `mapstructure:"frequency"`
	Version            string `mapstructure:"version"`
	CMIP6License       string `mapstructure:"cmip6_license"`
	Conventions        string `mapstructure:"Conventions"`
	Calendar           string `mapstructure:"calendar"`
	CMIPVersion        string `mapstructure:"cmip_version"`
}

// nexgddpRequired lists the attributes every NEX-GDDP item must carry.
var nexgddpRequired = []string{
	"scenario", "cmip6_source_id", "cmip6_institution_id", "variant_label", "variable_id",
	"institution", "frequency", "version", "cmip6_license", "Conventions", "calendar",
}

// Properties returns the item properties under their published names.
func (p NEXGDDPProperties) Properties() map[string]any {
	cmipVersion := p.CMIPVersion
	if cmipVersion == "" {
		cmipVersion = "CMIP6"
	}
	return map[string]any{
		"nexgddp:experiment_id":  p.Scenario,
		"nexgddp:source_id":      p.CMIP6SourceID,
		"nexgddp:institution_id": p.CMIP6InstitutionID,
		"nexgddp:variant_label":  p.VariantLabel,
		"nexgddp:variable_id":    p.VariableID,
		"nexgddp:institution":    p.Institution,
		"nexgddp:frequency":      p.Frequency,
		"nexgddp:version":        p.Version,
		"nexgddp:license":        p.CMIP6License,
		"nexgddp:Conventions":    p.Conventions,
		"nexgddp:calendar":       p.Calendar,
		"nexgddp:cmip_version":   cmipVersion,
	}
}

// NEXGDDPItemID is the file name without its extension
// (tas_day_ACCESS-CM2_ssp245_r1i1p1f1_gn_2015.nc -> tas_day_ACCESS-CM2_ssp245_r1i1p1f1_gn_2015).
func NEXGDDPItemID(raw *core.RawRecord) (string, error) {
	id, _, _ := strings.Cut(strings.TrimSpace(raw.Name), ".")
	if id == "" {
		return "", core.ErrEmptyItemID
	}
	return id, nil
}

// NEXGDDPVariableID is the file name up to the first underscore.
func NEXGDDPVariableID(name string) string {
	v, _, _ := strings.Cut(strings.TrimSpace(name), "_")
	return v
}

// NEXGDDPStage adds the NEX-GDDP properties.
type NEXGDDPStage struct{}

var _ ingestion.Stage = (*NEXGDDPStage)(nil)

func NewNEXGDDPStage() *NEXGDDPStage {
	return &NEXGDDPStage{}
}

func (s *NEXGDDPStage) Name() string {
	return "nexgddp"
}

func (s *NEXGDDPStage) Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	attrs := cloneAttributes(raw.Attributes)
	attrs["variable_id"] = NEXGDDPVariableID(raw.Name)
	attrs["calendar"] = TimeCalendar(raw)
	if err := requireAttrs(attrs, nexgddpRequired...); err != nil {
		return err
	}

	var props NEXGDDPProperties
	if err := decodeAttributes(attrs, &props); err != nil {
		return err
	}
	return draft.SetProperties(props.Properties())
}
