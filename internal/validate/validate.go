// Package validate checks loosely typed request values decoded from JSON.
package validate

import (
	"math"
	"strconv"
	"strings"
)

// Truthy reports whether v counts as present. Missing values, null, false,
// zero, NaN and the empty string do not.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

// Number returns v as a float64 when it is a JSON number or a string that
// parses as one.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ID returns v as a positive whole number.
func ID(v any) (int64, bool) {
	f, ok := Number(v)
	if !ok || f != math.Trunc(f) || f < 1 || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// Scalar reports whether v is a JSON scalar rather than an object or array.
func Scalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

// Text renders v as the string that gets stored.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return ""
	}
}
