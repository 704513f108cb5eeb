package pagegen

import (
	"fmt"
	"strconv"
)

// asList returns the elements of a decoded collection. Anything that is not a
// list yields ok=false and is treated as an empty collection by callers.
func asList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []Record:
		out := make([]any, len(list))
		for i, r := range list {
			out[i] = r
		}
		return out, true
	case []map[any]any:
		out := make([]any, len(list))
		for i, r := range list {
			out[i] = r
		}
		return out, true
	default:
		return nil, false
	}
}

// asRecord returns v as a Record. Maps with non-string keys are converted.
func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[any]any:
		out := make(Record, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// displayText formats a raw display name for PageDescriptor.Title and for the
// text fallback of the slug normalizer.
func displayText(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprint(v)
	}
}
