package invoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() map[string]any {
	doc := make(map[string]any, len(Registry))
	for _, spec := range Registry {
		switch spec.Kind {
		case KindAddress:
			doc[spec.Name] = map[string]any{
				"found": true, "street": "Teststraat", "houseNumber": "1",
				"postalCode": "1234AB", "city": "Amsterdam", "complete": true,
			}
		default:
			doc[spec.Name] = map[string]any{"found": true, "value": "x"}
		}
	}
	return doc
}

func TestParseExtractedFields(t *testing.T) {
	raw, err := json.Marshal(validDoc())
	require.NoError(t, err)

	fields, err := ParseExtractedFields(raw)
	require.NoError(t, err)

	assert.Len(t, fields.Simple, 12)
	assert.Len(t, fields.Addresses, 2)
	assert.True(t, fields.Simple["factuurnummer"].Found)
	assert.Equal(t, "x", fields.Simple["btwNummer"].Value)

	addr := fields.Addresses["leverancierAdres"]
	assert.True(t, addr.Complete)
	assert.Equal(t, "Teststraat", addr.Street)
	assert.Equal(t, "Amsterdam", addr.City)
}

func TestParseExtractedFieldsMissingKey(t *testing.T) {
	doc := validDoc()
	delete(doc, "kvkNummer")
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = ParseExtractedFields(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kvkNummer")
}

func TestParseExtractedFieldsInvalidJSON(t *testing.T) {
	_, err := ParseExtractedFields([]byte("not json"))
	assert.Error(t, err)
}

func TestParseExtractedFieldsAbsentValueStaysEmpty(t *testing.T) {
	doc := validDoc()
	doc["omschrijving"] = map[string]any{"found": false}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	fields, err := ParseExtractedFields(raw)
	require.NoError(t, err)
	assert.False(t, fields.Simple["omschrijving"].Found)
	assert.Empty(t, fields.Simple["omschrijving"].Value)
}
