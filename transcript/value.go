package transcript

import (
	"encoding/json"
	"strconv"
)

// lookup walks v along path. String steps index objects, int steps index arrays.
// It returns nil as soon as a step is missing or v has the wrong shape.
func lookup(v any, path ...any) any {
	cur := v
	for _, step := range path {
		switch key := step.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = obj[key]
		case int:
			arr, ok := cur.([]any)
			if !ok || key < 0 || key >= len(arr) {
				return nil
			}
			cur = arr[key]
		default:
			return nil
		}
	}
	return cur
}

// str returns v if it is a non-empty string, otherwise def.
func str(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// number formats a non-zero JSON number in its shortest decimal form.
// Strings pass through unchanged. Anything else yields def.
func number(v any, def string) string {
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return def
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return number(float64(t), def)
	case int64:
		return number(float64(t), def)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return def
		}
		return number(f, def)
	case string:
		if t == "" {
			return def
		}
		return t
	default:
		return def
	}
}

// list returns v as an array, or nil when it is not one.
func list(v any) []any {
	arr, _ := v.([]any)
	return arr
}
