package geo

import (
	"encoding/json"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// String reads an attribute as display text.
// Missing keys, nulls and non-scalar values (objects, arrays) read as "".
// Numbers are formatted without a trailing fractional part.
func String(props geojson.Properties, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Has reports whether key carries a non-empty scalar value.
func Has(props geojson.Properties, key string) bool {
	return String(props, key) != ""
}
