package extensions

import (
	_ "embed"
	"fmt"

	"github.com/poiesic/stacpopulator/core"
)

// Extension schema URIs declared in stac_extensions.
const (
	CMIP6SchemaURI    = "https://raw.githubusercontent.com/dchandan/stac-extension-cmip6/main/json-schema/schema.json"
	DatacubeSchemaURI = "https://stac-extensions.github.io/datacube/v2.2.0/schema.json"
	THREDDSSchemaURI  = "https://stac-extensions.github.io/thredds/v1.0.0/schema.json"
	MarbleSchemaURI   = "https://raw.githubusercontent.com/DACCS-Climate/marble-stac-extension/v1.0.0/json-schema/schema.json"
)

var (
	//go:embed schemas/cmip6.json
	cmip6Schema []byte

	//go:embed schemas/datacube.json
	datacubeSchema []byte

	//go:embed schemas/thredds.json
	threddsSchema []byte

	//go:embed schemas/marble.json
	marbleSchema []byte
)

func init() {
	core.MustRegisterExtensionSchema(core.ExtensionSchema{Name: "cmip6", URI: CMIP6SchemaURI, Document: cmip6Schema})
	core.MustRegisterExtensionSchema(core.ExtensionSchema{Name: "datacube", URI: DatacubeSchemaURI, Document: datacubeSchema, Validate: validateDatacube})
	core.MustRegisterExtensionSchema(core.ExtensionSchema{Name: "thredds", URI: THREDDSSchemaURI, Document: threddsSchema, Validate: validateTHREDDS})
	core.MustRegisterExtensionSchema(core.ExtensionSchema{Name: "marble", URI: MarbleSchemaURI, Document: marbleSchema})
}

// validateDatacube checks that variables only use declared dimensions.
func validateDatacube(item *core.Item) error {
	dims, _ := item.Properties["cube:dimensions"].(map[string]any)
	vars, _ := item.Properties["cube:variables"].(map[string]any)
	for name, v := range vars {
		variable, _ := v.(map[string]any)
		vdims, _ := stringList(variable["dimensions"])
		for _, d := range vdims {
			if _, ok := dims[d]; !ok {
				return fmt.Errorf("variable %q uses undeclared dimension %q", name, d)
			}
		}
	}
	return nil
}

// validateTHREDDS checks that every listed service is published as an asset.
func validateTHREDDS(item *core.Item) error {
	services, _ := stringList(item.Properties["thredds:services"])
	for _, s := range services {
		if _, ok := item.Assets[assetKey(s)]; !ok {
			return fmt.Errorf("service %q has no asset", s)
		}
	}
	return nil
}

// stringList accepts []string as rendered from a draft and []any as decoded from JSON.
func stringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
