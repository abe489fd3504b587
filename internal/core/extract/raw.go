package extract

import (
	"strconv"
	"strings"

	"packdex/internal/core/source"
)

// lookup walks a dotted path ("system.details.cr") through nested maps.
func lookup(doc source.Document, path string) (any, bool) {
	var cur any = map[string]any(doc)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// The helpers below implement the layered per-field fallback chain:
// known locations are tried in priority order, and a location whose
// value cannot be coerced counts as absent.

func str(doc source.Document, paths ...string) string {
	for _, p := range paths {
		v, ok := lookup(doc, p)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func num(doc source.Document, paths ...string) (float64, bool) {
	for _, p := range paths {
		v, ok := lookup(doc, p)
		if !ok {
			continue
		}
		if f, ok := coerceNumber(v); ok {
			return f, true
		}
	}
	return 0, false
}

func intval(doc source.Document, def int, paths ...string) int {
	f, ok := num(doc, paths...)
	if !ok {
		return def
	}
	return int(f)
}

// coerceNumber accepts the numeric encodings seen in the wild: JSON
// numbers, numeric strings, fractional power levels ("1/4" → 0.25), and
// wrapped value objects ({"value": 5}).
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		return parseFraction(s)
	case map[string]any:
		if inner, ok := n["value"]; ok {
			return coerceNumber(inner)
		}
		return 0, false
	default:
		return 0, false
	}
}

func parseFraction(s string) (float64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || b == 0 {
		return 0, false
	}
	return a / b, true
}

// stringSlice collects the string members of a list value, lowercased.
func stringSlice(doc source.Document, paths ...string) []string {
	for _, p := range paths {
		v, ok := lookup(doc, p)
		if !ok {
			continue
		}
		raw, ok := v.([]any)
		if !ok {
			continue
		}
		var out []string
		for _, item := range raw {
			if s, ok := item.(string); ok {
				s = strings.ToLower(strings.TrimSpace(s))
				if s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}
