package extensions

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// floatAttr reads a finite numeric attribute. NcML attributes may arrive as numbers or strings.
func floatAttr(attrs map[string]any, key string) (float64, error) {
	f, err := numberAttr(attrs, key)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrInvalidAttribute, key)
	}
	return f, nil
}

func numberAttr(attrs map[string]any, key string) (float64, error) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingAttribute, key)
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrInvalidAttribute, key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidAttribute, key, v)
	}
}

// stringAttr reads an attribute as a trimmed string; numbers are formatted.
func stringAttr(attrs map[string]any, key string) string {
	switch t := attrs[key].(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// requireAttrs returns an error naming the first key that is absent or empty.
func requireAttrs(attrs map[string]any, keys ...string) error {
	for _, key := range keys {
		if stringAttr(attrs, key) == "" {
			return fmt.Errorf("%w: %s", ErrMissingAttribute, key)
		}
	}
	return nil
}

// decodeAttributes fills a property model from raw attributes.
func decodeAttributes(attrs map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(attrs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAttribute, err)
	}
	return nil
}

// encodeProperties flattens a property model into item properties, prefixing every key.
// Fields tagged omitempty are left out when zero.
func encodeProperties(prefix string, in any) (map[string]any, error) {
	var flat map[string]any
	if err := mapstructure.Decode(in, &flat); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		out[prefix+k] = v
	}
	return out, nil
}

func cloneAttributes(attrs map[string]any) map[string]any {
	if attrs == nil {
		return make(map[string]any)
	}
	return maps.Clone(attrs)
}
