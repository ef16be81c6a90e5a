package models

import "strconv"

// DatasetRecord is one loosely-typed record from the government dataset API.
// Field values are usually strings but numeric-looking fields occasionally
// arrive as JSON numbers; normalization flattens both to strings.
type DatasetRecord map[string]any

// Field returns the named field as a string, or "" when the field is
// absent or not representable as text.
func (r DatasetRecord) Field(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
