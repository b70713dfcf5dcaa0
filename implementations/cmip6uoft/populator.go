// Package cmip6uoft ingests the CMIP6 archive of the University of Toronto THREDDS server.
package cmip6uoft

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/poiesic/stacpopulator"
	"github.com/poiesic/stacpopulator/extensions"
	"github.com/poiesic/stacpopulator/implementations"
	"github.com/poiesic/stacpopulator/ingestion"
)

// ModulePath registers the populator as plugin "CMIP6_UofT".
const ModulePath = "CMIP6_UofT/add_CMIP6"

//go:embed collection_config.yml
var collectionConfig []byte

func init() {
	implementations.Namespace.Add(ModulePath, func() (any, error) {
		return NewModule(), nil
	})
}

// Definition describes the CMIP6 populator.
func Definition() *stacpopulator.Definition {
	return &stacpopulator.Definition{
		Name:             "CMIP6_UofT",
		Usage:            "CMIP6 STAC populator from a THREDDS catalog or NCML XML.",
		Description:      "Publishes one item per CMIP6 dataset with the cmip6, datacube, thredds and marble extensions.",
		CollectionConfig: collectionConfig,
		Identify:         extensions.CMIP6ItemID,
		Stages:           stages,
	}
}

// NewModule returns the plugin module of the populator.
func NewModule(opts ...stacpopulator.Option) *stacpopulator.Module {
	return stacpopulator.NewModule(Definition(), opts...)
}

func stages(ctx context.Context, env *stacpopulator.Environment) ([]ingestion.Stage, error) {
	host, err := env.HostNode(ctx)
	if err != nil {
		return nil, fmt.Errorf("inferring Marble host node: %w", err)
	}
	marble, err := extensions.NewMarbleStage(host)
	if err != nil {
		return nil, err
	}
	env.Logger.Debug("CMIP6 stages ready", "host_node", host, "magpie_links", env.Config.MagpieLinks)

	return []ingestion.Stage{
		extensions.NewGeometryStage(),
		extensions.NewTemporalStage(nil),
		extensions.NewCMIP6Stage(),
		extensions.NewDatacubeStage(),
		extensions.NewTHREDDSStage(env.Config.MagpieLinks),
		marble,
	}, nil
}
