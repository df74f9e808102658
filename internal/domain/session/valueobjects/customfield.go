package valueobjects

import "fmt"

// FieldType is the input type of a checkout custom field. The provider
// supports a closed set; anything else is rejected before the remote call.
type FieldType string

const (
	FieldTypeNumeric FieldType = "numeric"
	FieldTypeText    FieldType = "text"
)

func NewFieldType(s string) (FieldType, error) {
	switch s {
	case "numeric":
		return FieldTypeNumeric, nil
	case "text":
		return FieldTypeText, nil
	default:
		return "", fmt.Errorf("unsupported custom field type: %s", s)
	}
}

func (t FieldType) String() string {
	return string(t)
}

// CustomField is a caller-defined input collected on the hosted checkout page.
type CustomField struct {
	key      string
	typ      FieldType
	optional bool
}

func NewCustomField(key string, typ FieldType, optional bool) (CustomField, error) {
	if key == "" {
		return CustomField{}, fmt.Errorf("custom field key is required")
	}
	return CustomField{
		key:      key,
		typ:      typ,
		optional: optional,
	}, nil
}

func (f CustomField) Key() string {
	return f.key
}

func (f CustomField) Type() FieldType {
	return f.typ
}

func (f CustomField) Optional() bool {
	return f.optional
}
