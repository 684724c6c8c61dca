package restrictions

import (
	"fmt"
	"strconv"
	"strings"
)

// looseEqual compares a typed ingredient field value against a JSON
// rule value (bool/string/float64/nil as decoded by encoding/json),
// coercing across the obvious type pairs rule authors rely on (a rule
// value of 5 against a float64 ingredient field, "true" against a bool).
func looseEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
	case float64:
		if bf, ok := toFloat(b); ok {
			return av == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func containsString(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
