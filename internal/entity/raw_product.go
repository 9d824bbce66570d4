package entity

// RawProduct is a product as returned by the search API. Nothing about its
// shape is guaranteed: any key may be missing or null.
type RawProduct map[string]any

// Lookup returns the value stored under key and whether it is present and non-null.
func (p RawProduct) Lookup(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Nutriments returns the nutrient sub-table, or nil when it is missing or malformed.
func (p RawProduct) Nutriments() map[string]any {
	v, ok := p.Lookup("nutriments")
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}
