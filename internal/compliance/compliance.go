package compliance

import (
	"strings"

	"github.com/factuurcheck/factuurcheck/internal/invoice"
)

// Status is the traffic-light verdict over the checklist.
type Status string

const (
	StatusGreen  Status = "green"
	StatusOrange Status = "orange"
	StatusRed    Status = "red"
)

// FieldResult is one checklist row in the API response.
type FieldResult struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Value string `json:"value,omitempty"`
}

// Result is the verdict returned to the client. Fields keep the registry
// declaration order.
type Result struct {
	Status Status        `json:"status"`
	Fields []FieldResult `json:"fields"`
}

// FormatAddress joins the present address parts for display: street and
// house number first, then postal code and city, pairs separated by ", ".
// A house number without a street is dropped; no parts at all yields "".
func FormatAddress(a invoice.Address) string {
	var parts []string
	if a.Street != "" && a.HouseNumber != "" {
		parts = append(parts, a.Street+" "+a.HouseNumber)
	} else if a.Street != "" {
		parts = append(parts, a.Street)
	}
	switch {
	case a.PostalCode != "" && a.City != "":
		parts = append(parts, a.PostalCode+" "+a.City)
	case a.PostalCode != "":
		parts = append(parts, a.PostalCode)
	case a.City != "":
		parts = append(parts, a.City)
	}
	return strings.Join(parts, ", ")
}

// Calculate maps extracted fields onto the checklist verdict. For addresses
// the displayed found flag is the complete flag: an address that was
// detected but incomplete counts as missing. Zero missing fields is green,
// one or two is orange, three or more is red.
func Calculate(fields invoice.ExtractedFields) Result {
	results := make([]FieldResult, 0, len(invoice.Registry))
	missing := 0

	for _, spec := range invoice.Registry {
		var fr FieldResult
		switch spec.Kind {
		case invoice.KindAddress:
			addr := fields.Addresses[spec.Name]
			fr = FieldResult{Name: spec.Name, Found: addr.Complete, Value: FormatAddress(addr)}
		default:
			f := fields.Simple[spec.Name]
			fr = FieldResult{Name: spec.Name, Found: f.Found, Value: f.Value}
		}
		if !fr.Found {
			missing++
		}
		results = append(results, fr)
	}

	var status Status
	switch {
	case missing == 0:
		status = StatusGreen
	case missing <= 2:
		status = StatusOrange
	default:
		status = StatusRed
	}

	return Result{Status: status, Fields: results}
}
