package invoice

// FieldKind distinguishes the two value shapes on the checklist.
type FieldKind int

const (
	KindSimple FieldKind = iota
	KindAddress
)

// FieldSpec describes one checklist entry: its JSON name, the Dutch
// instruction line shown to the model, and its value shape. The registry is
// the single source of truth for the prompt builder, the JSON schema, the
// reply parser and the compliance ordering, so adding a field is one edit.
type FieldSpec struct {
	Name   string
	Prompt string
	Kind   FieldKind
}

// Registry lists the checklist fields in display order.
var Registry = []FieldSpec{
	{"factuurnummer", "Een uniek nummer voor de factuur", KindSimple},
	{"factuurdatum", "De datum van de factuur", KindSimple},
	{"leverancierNaam", "De naam van de leverancier/verkoper", KindSimple},
	{"btwNummer", "Het BTW-nummer (format: NL + 9 cijfers + B + 2 cijfers, of vergelijkbaar EU formaat)", KindSimple},
	{"klantNaam", "De naam van de klant/koper", KindSimple},
	{"totaalbedrag", "Het totaalbedrag van de factuur", KindSimple},
	{"kvkNummer", "Het KVK-nummer van de leverancier (8 cijfers)", KindSimple},
	{"leverancierAdres", "Het volledige adres van de leverancier (straat, huisnummer, postcode, plaats)", KindAddress},
	{"klantAdres", "Het volledige adres van de klant (straat, huisnummer, postcode, plaats)", KindAddress},
	{"omschrijving", "Een omschrijving van de geleverde goederen of diensten", KindSimple},
	{"leveringsdatum", "De datum van levering, indien afwijkend van de factuurdatum", KindSimple},
	{"bedragExclBtw", "Het bedrag exclusief BTW", KindSimple},
	{"btwTarief", "Het toegepaste BTW-tarief (bijv. 21%)", KindSimple},
	{"btwBedrag", "Het BTW-bedrag", KindSimple},
}
