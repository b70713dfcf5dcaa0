package extensions

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/poiesic/stacpopulator/core"
	"github.com/poiesic/stacpopulator/ingestion"
)

type serviceInfo struct {
	mediaType string
	roles     []string
}

// threddsServices describes the THREDDS service types a catalog may expose.
var threddsServices = map[string]serviceInfo{
	"HTTPServer":   {mediaType: "application/x-netcdf", roles: []string{"data"}},
	"OPENDAP":      {mediaType: "text/html", roles: []string{"data"}},
	"NetcdfSubset": {mediaType: "application/x-netcdf", roles: []string{"data"}},
	"WCS":          {mediaType: "application/xml", roles: []string{"data"}},
	"WMS":          {mediaType: "application/xml", roles: []string{"visual"}},
	"ISO":          {mediaType: "application/xml", roles: []string{"metadata"}},
	"NCML":         {mediaType: "application/xml", roles: []string{"metadata"}},
	"UDDC":         {mediaType: "text/html", roles: []string{"metadata"}},
}

// THREDDSStage publishes one asset per THREDDS access URL.
// With magpie links enabled, the HTTPServer URL is also linked as the item "source",
// which lets Magpie register item-level resources.
type THREDDSStage struct {
	magpieLinks bool
}

var _ ingestion.Stage = (*THREDDSStage)(nil)

func NewTHREDDSStage(magpieLinks bool) *THREDDSStage {
	return &THREDDSStage{magpieLinks: magpieLinks}
}

func (s *THREDDSStage) Name() string {
	return "thredds"
}

func (s *THREDDSStage) Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	if len(raw.AccessURLs) == 0 {
		return fmt.Errorf("%w: record has no THREDDS services", ErrMissingAccessURL)
	}

	services := slices.Sorted(maps.Keys(raw.AccessURLs))
	for _, service := range services {
		href := raw.AccessURLs[service]
		if href == "" {
			return fmt.Errorf("%w: %s", ErrMissingAccessURL, service)
		}
		info, known := threddsServices[service]
		asset := core.Asset{
			Href:  href,
			Title: service,
			Extra: map[string]any{"thredds:service": service},
		}
		if known {
			asset.Type = info.mediaType
			asset.Roles = info.roles
		}
		if err := draft.AddAsset(assetKey(service), asset); err != nil {
			return err
		}
	}

	if s.magpieLinks {
		href, ok := raw.AccessURLs["HTTPServer"]
		if !ok {
			return fmt.Errorf("%w: HTTPServer is required for magpie links", ErrMissingAccessURL)
		}
		if err := draft.AddLink(core.Link{Rel: "source", Href: href, Type: "application/x-netcdf", Title: raw.Name}); err != nil {
			return err
		}
	}

	return draft.ApplyExtension("thredds", THREDDSSchemaURI, map[string]any{
		"thredds:services": services,
	})
}

func assetKey(service string) string {
	return strings.ToLower(service)
}
