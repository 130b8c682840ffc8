package invoice

import (
	"encoding/json"
	"fmt"
)

// Field is a single extracted invoice attribute. Value is empty when the
// model did not find the field.
type Field struct {
	Found bool   `json:"found"`
	Value string `json:"value,omitempty"`
}

// Address is an extracted postal address. Complete is only true when street,
// house number, postal code and city are all present; a P.O. box alone does
// not make an address complete.
type Address struct {
	Found       bool   `json:"found"`
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"houseNumber,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
	Complete    bool   `json:"complete"`
}

// ExtractedFields holds one entry per registry field, keyed by field name.
type ExtractedFields struct {
	Simple    map[string]Field
	Addresses map[string]Address
}

// ParseExtractedFields decodes a model reply that already passed schema
// validation into typed fields, keyed by the registry. A missing registry
// entry is still an error here so callers can count it as a failed attempt.
func ParseExtractedFields(raw []byte) (ExtractedFields, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ExtractedFields{}, fmt.Errorf("decode fields: %w", err)
	}

	out := ExtractedFields{
		Simple:    make(map[string]Field, len(Registry)),
		Addresses: make(map[string]Address, 2),
	}
	for _, spec := range Registry {
		entry, ok := doc[spec.Name]
		if !ok {
			return ExtractedFields{}, fmt.Errorf("missing field %q", spec.Name)
		}
		switch spec.Kind {
		case KindAddress:
			var a Address
			if err := json.Unmarshal(entry, &a); err != nil {
				return ExtractedFields{}, fmt.Errorf("decode %q: %w", spec.Name, err)
			}
			out.Addresses[spec.Name] = a
		default:
			var f Field
			if err := json.Unmarshal(entry, &f); err != nil {
				return ExtractedFields{}, fmt.Errorf("decode %q: %w", spec.Name, err)
			}
			out.Simple[spec.Name] = f
		}
	}
	return out, nil
}
