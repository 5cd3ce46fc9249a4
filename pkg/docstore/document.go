package docstore

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// String returns the value of a field as a string. The second value is
// false if the field does not exist or is not a string.
func (d Document) String(field string) (string, bool) {
	v, ok := d[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the value of a numeric field. Backends decode numbers
// differently (int32, int64, float64, json.Number), all of them are
// converted to int.
func (d Document) Int(field string) (int, bool) {
	switch v := d[field].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

// Strings returns the value of an array field as a slice of strings.
// Elements that are not strings are formatted with fmt.Sprint.
func (d Document) Strings(field string) ([]string, bool) {
	switch v := d[field].(type) {
	case []string:
		return v, true
	case []any:
		res := make([]string, len(v))
		for i := range v {
			if s, ok := v[i].(string); ok {
				res[i] = s
				continue
			}
			res[i] = fmt.Sprint(v[i])
		}
		return res, true
	default:
		return nil, false
	}
}
