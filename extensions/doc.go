// Package extensions provides the ingestion stages shared by the populators and the STAC
// extension schemas they declare.
//
// Stages:
//   - GeometryStage: footprint polygon and bbox from the geospatial_* attributes
//   - TemporalStage: start_datetime / end_datetime through a TemporalResolver
//   - CMIP6Stage: "cmip6:*" properties (CMIP6 extension)
//   - NEXGDDPStage: "nexgddp:*" properties
//   - DatacubeStage: "cube:dimensions" / "cube:variables" (datacube extension)
//   - THREDDSStage: one asset per THREDDS service, "thredds:services" (THREDDS extension)
//   - MarbleStage: "marble:host_node" / "marble:is_local" (Marble extension)
//
// Importing the package registers the extension schemas with core, so that
// core.ValidateItem accepts items declaring them.
package extensions
