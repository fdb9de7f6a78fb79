package expr

import (
	"strconv"
	"strings"
)

// AsNumber reports whether a runtime value can be treated as a number, and
// its numeric value if so. This is the one place the engine decides what
// "numeric-looking" means: whitespace-padded and leading-zero strings parse
// ("007" is 7), the empty string does not, and anything strconv rejects
// compares as a string instead.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		return 0, false
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Stringify renders a runtime value the way comparisons and substring tests
// see it. Floats drop their trailing zeros so 18 and 18.0 stringify alike.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	// Lists and anything exotic: join on comma for substring semantics.
	if items, ok := asList(v); ok {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = Stringify(it)
		}
		return strings.Join(parts, ",")
	}
	return ""
}

// looseEqual implements the asymmetric comparator coercion: a numeric-looking
// string equals a number when the other side is a number; otherwise values
// compare by their string forms.
func looseEqual(a, b any) bool {
	an, aok := AsNumber(a)
	bn, bok := AsNumber(b)
	if (isNumberType(a) || isNumberType(b)) && aok && bok {
		return an == bn
	}
	return Stringify(a) == Stringify(b)
}

func isNumberType(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

// Truthy reports the bare-operand truthiness used when a condition is just a
// field reference: empty string, zero, false, nil and empty lists are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	if items, ok := asList(v); ok {
		return len(items) > 0
	}
	return true
}

func asList(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(items))
		for i, n := range items {
			out[i] = n
		}
		return out, true
	}
	return nil, false
}
