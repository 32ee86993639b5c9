package realtime

import "github.com/tidwall/gjson"

// Value is an optional scalar read from a feed entity. The zero Value is null
type Value struct {
	text  string
	valid bool
}

// NewValue creates a non-null Value
func NewValue(text string) Value {
	return Value{text: text, valid: true}
}

// valueOf converts a json value to its dataset representation.
// Absent and null are null, numbers keep their literal json text, booleans render as True or False
// to stay compatible with datasets already published
func valueOf(r gjson.Result) Value {
	if !r.Exists() {
		return Value{}
	}
	switch r.Type {
	case gjson.Null:
		return Value{}
	case gjson.String:
		return NewValue(r.Str)
	case gjson.Number:
		return NewValue(r.Raw)
	case gjson.True:
		return NewValue("True")
	case gjson.False:
		return NewValue("False")
	default:
		return NewValue(r.Raw)
	}
}

// IsNull returns true if the field was absent or null in the feed
func (v Value) IsNull() bool {
	return !v.valid
}

// String returns the dataset representation, empty for null
func (v Value) String() string {
	return v.text
}
