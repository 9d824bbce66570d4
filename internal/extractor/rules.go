package extractor

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/user/nutrition-scraper/internal/entity"
)

const listSeparator = ", "

// Rule projects one column of the output schema out of a raw product.
type Rule struct {
	Column string
	// Source is the top-level key the rule reads, empty for constant rules.
	Source  string
	Extract func(entity.RawProduct) string
}

// Scalar passes a top-level value through as text.
func Scalar(column, key string) Rule {
	return Rule{Column: column, Source: key, Extract: func(p entity.RawProduct) string {
		v, ok := p.Lookup(key)
		if !ok {
			return ""
		}
		return stringify(v)
	}}
}

// Joined joins a list-valued key with ", ".
func Joined(column, key string) Rule {
	return Rule{Column: column, Source: key, Extract: func(p entity.RawProduct) string {
		return strings.Join(stringList(p, key), listSeparator)
	}}
}

// Tail joins every element of a list-valued key but the first.
func Tail(column, key string) Rule {
	return Rule{Column: column, Source: key, Extract: func(p entity.RawProduct) string {
		items := stringList(p, key)
		if len(items) <= 1 {
			return ""
		}
		return strings.Join(items[1:], listSeparator)
	}}
}

// Nutrient reads id from the nutriments table and appends unit to numeric values.
func Nutrient(column, id, unit string) Rule {
	return Rule{Column: column, Source: "nutriments", Extract: func(p entity.RawProduct) string {
		table := p.Nutriments()
		v, ok := table[id]
		if !ok || v == nil {
			return ""
		}
		if num, ok := numeric(v); ok {
			return num + unit
		}
		return stringify(v)
	}}
}

// Volume returns the quantity text when it looks like a liquid measure, i.e.
// contains an "l" in any case. "1 lb" matches too; kept as is for parity with
// previously produced files.
func Volume(column, key string) Rule {
	return Rule{Column: column, Source: key, Extract: func(p entity.RawProduct) string {
		v, ok := p.Lookup(key)
		if !ok {
			return ""
		}
		s, ok := v.(string)
		if !ok || !strings.Contains(strings.ToLower(s), "l") {
			return ""
		}
		return s
	}}
}

// Empty always yields "", for columns the source never supplies.
func Empty(column string) Rule {
	return Rule{Column: column, Extract: func(entity.RawProduct) string { return "" }}
}

func stringList(p entity.RawProduct, key string) []string {
	v, ok := p.Lookup(key)
	if !ok {
		return nil
	}
	switch items := v.(type) {
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item == nil {
				continue
			}
			out = append(out, stringify(item))
		}
		return out
	case []string:
		return items
	case string:
		if items == "" {
			return nil
		}
		return []string{items}
	default:
		return nil
	}
}

// numeric reports the textual form of v when v is a number.
func numeric(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	default:
		return "", false
	}
}

func stringify(v any) string {
	if s, ok := numeric(v); ok {
		return s
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
