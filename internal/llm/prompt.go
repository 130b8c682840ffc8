package llm

import (
	"fmt"
	"strings"

	"github.com/factuurcheck/factuurcheck/internal/invoice"
)

// BuildSystemPrompt composes the Dutch system instruction from the field
// registry: one numbered line per checklist field plus the exact JSON shape
// the model must return. Prompt and schema read the same registry, so a new
// field shows up in both without further edits.
func BuildSystemPrompt() string {
	var b strings.Builder
	b.WriteString("Je bent een Nederlandse factuur-analyzer. Je taak is om te controleren of bepaalde verplichte velden aanwezig zijn in de factuur tekst.\n\n")
	b.WriteString("Analyseer de gegeven factuur tekst en bepaal of de volgende velden aanwezig zijn:\n")
	for i, spec := range invoice.Registry {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, spec.Name, spec.Prompt)
	}

	b.WriteString("\nGeef je antwoord als JSON in exact dit formaat:\n{\n")
	for i, spec := range invoice.Registry {
		sep := ","
		if i == len(invoice.Registry)-1 {
			sep = ""
		}
		switch spec.Kind {
		case invoice.KindAddress:
			fmt.Fprintf(&b, "  %q: { \"found\": true/false, \"street\": \"...\", \"houseNumber\": \"...\", \"postalCode\": \"...\", \"city\": \"...\", \"complete\": true/false }%s\n", spec.Name, sep)
		default:
			fmt.Fprintf(&b, "  %q: { \"found\": true/false, \"value\": \"waarde indien gevonden\" }%s\n", spec.Name, sep)
		}
	}
	b.WriteString("}\n\n")

	b.WriteString("Laat \"value\" weg als een veld niet gevonden is; geef nooit null terug.\n")
	b.WriteString("Zet \"complete\" bij een adres alleen op true als straat, huisnummer, postcode en plaats allemaal aanwezig zijn. Alleen een postbus is niet compleet.\n")
	b.WriteString("Wees streng: markeer een veld alleen als \"found\": true als je er zeker van bent dat het veld daadwerkelijk aanwezig is.")
	return b.String()
}

// BuildUserPrompt wraps the OCR text in the analysis request.
func BuildUserPrompt(text string) string {
	return "Analyseer deze factuur tekst en geef aan welke verplichte velden aanwezig zijn:\n\n" + text
}
