package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Normalize reduces a submitted answer to a single comparable value.
//
// Structured answers resolve, in order, to a numeric "baseIndex", a non-nil
// "value", a non-nil "answer", or the structure itself. Everything else is
// returned unchanged.
func Normalize(raw any) any {
	m, ok := raw.(map[string]any)
	if !ok {
		return raw
	}
	if idx, ok := asNumber(m["baseIndex"]); ok {
		return idx
	}
	if v, ok := m["value"]; ok && v != nil {
		return v
	}
	if v, ok := m["answer"]; ok && v != nil {
		return v
	}
	return m
}

// asNumber reports whether v is a numeric value and returns it as float64.
// Numeric-looking strings are not numbers here.
func asNumber(v any) (float64, bool) {
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
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// coerceNumber is the lenient variant used for bucket ids and counts:
// numbers pass through and numeric strings are parsed.
func coerceNumber(v any) (float64, bool) {
	if n, ok := asNumber(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) {
			return f, true
		}
	}
	return 0, false
}

// foldString returns the case-insensitive, trimmed string form of v.
func foldString(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		if n, ok := asNumber(v); ok {
			s = strconv.FormatFloat(n, 'f', -1, 64)
		} else {
			s = fmt.Sprint(v)
		}
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// matches compares two answers: numerically when both are numbers,
// otherwise by their case-insensitive trimmed string forms.
func matches(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		return an == bn
	}
	return foldString(a) == foldString(b)
}
