package llm

import (
	"github.com/factuurcheck/factuurcheck/internal/invoice"
)

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, built from the field registry. It is used locally to validate
// the model's reply before we trust its shape.
func BuildInvoiceJSONSchema() map[string]any {
	props := make(map[string]any, len(invoice.Registry))
	required := make([]string, 0, len(invoice.Registry))
	for _, spec := range invoice.Registry {
		switch spec.Kind {
		case invoice.KindAddress:
			props[spec.Name] = addressProp()
		default:
			props[spec.Name] = fieldProp()
		}
		required = append(required, spec.Name)
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func fieldProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"found": map[string]any{"type": "boolean"},
			"value": map[string]any{"type": "string"},
		},
		"required": []string{"found"},
	}
}

func addressProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"found":       map[string]any{"type": "boolean"},
			"street":      map[string]any{"type": "string"},
			"houseNumber": map[string]any{"type": "string"},
			"postalCode":  map[string]any{"type": "string"},
			"city":        map[string]any{"type": "string"},
			"complete":    map[string]any{"type": "boolean"},
		},
		"required": []string{"found", "complete"},
	}
}
