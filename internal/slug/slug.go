// Package slug derives URL-safe path tokens from display names.
//
// A token only contains lower-case ASCII letters, digits, '-' and '_', never
// starts or ends with '-' and never contains "--". Integer keys bypass the text
// rules entirely and keep their base-10 form, so a numeric key such as -5
// yields "-5".
package slug

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator replaces every run of characters that may not appear in a token.
const Separator = "-"

// ErrUnsupportedType is returned by Value for inputs that are neither text nor
// integer-valued numbers. Callers convert such values to a string first.
var ErrUnsupportedType = errors.New("slug: unsupported value type")

var (
	disallowedRun = regexp.MustCompile(`[^a-z0-9\-_]+`)
	separatorRun  = regexp.MustCompile(`-{2,}`)
)

// String normalizes text into a token. Empty input yields an empty token.
func String(s string) string {
	if s == "" {
		return ""
	}
	out := cases.Lower(language.Und).String(s)
	out = disallowedRun.ReplaceAllString(out, Separator)
	out = separatorRun.ReplaceAllString(out, Separator)
	out = strings.TrimPrefix(out, Separator)
	out = strings.TrimSuffix(out, Separator)
	return out
}

// Value normalizes a string or an integer-valued number.
//
// Integers (any Go integer kind, integral floats as produced by JSON decoding,
// and integral json.Number values) are returned as their decimal string with
// no separator handling.
func Value(v any) (string, error) {
	switch n := v.(type) {
	case string:
		return String(n), nil
	case int:
		return strconv.Itoa(n), nil
	case int8:
		return strconv.FormatInt(int64(n), 10), nil
	case int16:
		return strconv.FormatInt(int64(n), 10), nil
	case int32:
		return strconv.FormatInt(int64(n), 10), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case float32:
		return integralFloat(float64(n), v)
	case float64:
		return integralFloat(n, v)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
		if f, err := n.Float64(); err == nil {
			return integralFloat(f, v)
		}
		return "", fmt.Errorf("%w: json.Number %q", ErrUnsupportedType, n.String())
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

func integralFloat(f float64, orig any) (string, error) {
	if !isIntegral(f) {
		return "", fmt.Errorf("%w: non-integral number %v", ErrUnsupportedType, orig)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}
