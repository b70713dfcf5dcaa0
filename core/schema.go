package core

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ItemSchemaURI identifies the STAC item schema every item is validated against.
const ItemSchemaURI = "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json"

//go:embed schemas/item.json
var itemSchemaDocument []byte

var itemSchema = MustCompileSchema(ItemSchemaURI, itemSchemaDocument)

// CompileSchema compiles a JSON Schema document and registers it under uri.
// References are resolved within the document only; nothing is fetched.
func CompileSchema(uri string, document []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchema, uri, err)
	}
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(uri, doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchema, uri, err)
	}
	schema, err := c.Compile(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchema, uri, err)
	}
	return schema, nil
}

// MustCompileSchema is like CompileSchema but panics on error.
// It is meant for schemas embedded in the binary.
func MustCompileSchema(uri string, document []byte) *jsonschema.Schema {
	schema, err := CompileSchema(uri, document)
	if err != nil {
		panic(err)
	}
	return schema
}

// itemInstance encodes the item as the JSON value schemas are evaluated against.
func itemInstance(item *Item) (any, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}
