// Package nexgddpuoft ingests the NEX-GDDP-CMIP6 downscaled projections hosted at the
// University of Toronto.
package nexgddpuoft

import (
	"context"
	_ "embed"

	"github.com/poiesic/stacpopulator"
	"github.com/poiesic/stacpopulator/extensions"
	"github.com/poiesic/stacpopulator/implementations"
	"github.com/poiesic/stacpopulator/ingestion"
)

// ModulePath registers the populator as plugin "NEX_GDDP_UofT".
const ModulePath = "NEX_GDDP_UofT/add_NEX-GDDP"

// HostNode is the Marble node serving the data.
const HostNode = "UofTRedOak"

//go:embed collection_config.yml
var collectionConfig []byte

// The module is registered without its runner: the router hands it the raw arguments.
func init() {
	implementations.Namespace.Add(ModulePath, func() (any, error) {
		return NewModule().EntryPointOnly(), nil
	})
}

// Definition describes the NEX-GDDP populator.
func Definition() *stacpopulator.Definition {
	return &stacpopulator.Definition{
		Name:             "NEX_GDDP_UofT",
		Usage:            "NEX-GDDP-CMIP6 STAC populator from a THREDDS catalog or NCML XML.",
		Description:      "Publishes one item per NEX-GDDP-CMIP6 file with the datacube, thredds and marble extensions.",
		CollectionConfig: collectionConfig,
		Identify:         extensions.NEXGDDPItemID,
		Stages:           stages,
	}
}

// NewModule returns the plugin module of the populator.
func NewModule(opts ...stacpopulator.Option) *stacpopulator.Module {
	return stacpopulator.NewModule(Definition(), opts...)
}

func stages(ctx context.Context, env *stacpopulator.Environment) ([]ingestion.Stage, error) {
	host := env.Config.HostNode
	if host == "" {
		host = HostNode
	}
	marble, err := extensions.NewMarbleStage(host)
	if err != nil {
		return nil, err
	}

	return []ingestion.Stage{
		extensions.NewGeometryStage(),
		extensions.NewTemporalStage(nil),
		extensions.NewNEXGDDPStage(),
		extensions.NewDatacubeStage(),
		extensions.NewTHREDDSStage(false),
		marble,
	}, nil
}
