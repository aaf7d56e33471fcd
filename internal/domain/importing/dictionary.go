package importing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CanonicalField identifies one of the client attributes the import
// pipeline knows how to extract from a spreadsheet column.
type CanonicalField string

const (
	FieldCompanyName CanonicalField = "companyName"
	FieldContactName CanonicalField = "contactName"
	FieldFirstName   CanonicalField = "firstName"
	FieldLastName    CanonicalField = "lastName"
	FieldClientName  CanonicalField = "clientName"
	FieldEmail       CanonicalField = "email"
	FieldPhone       CanonicalField = "phone"
	FieldCUI         CanonicalField = "cui"
	FieldRegCom      CanonicalField = "regCom"
	FieldAddress     CanonicalField = "address"
	FieldCity        CanonicalField = "city"
	FieldCounty      CanonicalField = "county"
	FieldCountry     CanonicalField = "country"
	FieldZipCode     CanonicalField = "zipCode"
)

// AllFields lists every canonical field in resolution order
var AllFields = []CanonicalField{
	FieldCompanyName,
	FieldContactName,
	FieldFirstName,
	FieldLastName,
	FieldClientName,
	FieldEmail,
	FieldPhone,
	FieldCUI,
	FieldRegCom,
	FieldAddress,
	FieldCity,
	FieldCounty,
	FieldCountry,
	FieldZipCode,
}

// Dictionary maps canonical fields to ordered multilingual synonym lists.
// Synonyms are stored lowercase; matching happens on normalized forms.
// The zero value is unusable; construct via NewDictionary (or a custom one
// in tests).
type Dictionary struct {
	synonyms map[CanonicalField][]string
}

// NewDictionary returns the built-in header dictionary covering English,
// Romanian, German, Dutch, French, Italian, Spanish and the Nordic languages.
func NewDictionary() Dictionary {
	return Dictionary{synonyms: defaultSynonyms}
}

// NewCustomDictionary builds a dictionary from the given synonym lists
func NewCustomDictionary(synonyms map[CanonicalField][]string) Dictionary {
	copied := make(map[CanonicalField][]string, len(synonyms))
	for field, list := range synonyms {
		copied[field] = append([]string(nil), list...)
	}
	return Dictionary{synonyms: copied}
}

// Synonyms returns the ordered synonym list for a field
func (d Dictionary) Synonyms(field CanonicalField) []string {
	return d.synonyms[field]
}

var defaultSynonyms = map[CanonicalField][]string{
	FieldCompanyName: {
		"company name", "company", "business name", "legal name", "organization",
		"organisation", "firma", "denumire firma", "denumire companie", "societate",
		"firmenname", "unternehmen", "bedrijf", "bedrijfsnaam", "societe",
		"raison sociale", "azienda", "ragione sociale", "empresa", "foretag",
		"firmanavn",
	},
	FieldContactName: {
		"contact person", "contact name", "contact", "persoana de contact",
		"ansprechpartner", "contactpersoon", "personne de contact", "referente",
		"persona de contacto", "kontaktperson",
	},
	FieldFirstName: {
		"first name", "firstname", "given name", "prenume", "vorname", "voornaam",
		"prenom", "nome", "nombre", "fornavn", "fornamn",
	},
	FieldLastName: {
		"last name", "lastname", "surname", "family name", "nume de familie",
		"nachname", "achternaam", "nom de famille", "cognome", "apellido",
		"efternavn", "efternamn",
	},
	FieldClientName: {
		"name", "client name", "client", "customer name", "customer", "full name",
		"nume client", "nume", "denumire", "naam", "klant", "nom", "nome cliente",
		"cliente", "kunde", "kundenname", "navn", "namn",
	},
	FieldEmail: {
		"email", "e-mail", "email address", "mail", "adresa de email",
		"e-mail adresse", "e-mailadres", "courriel", "adresse e-mail", "correo",
		"posta elettronica", "epost",
	},
	FieldPhone: {
		"phone", "phone number", "telephone", "telefon", "telefoon", "telefono",
		"mobile", "mobil", "gsm", "tel",
	},
	FieldCUI: {
		"cui", "cif", "cod fiscal", "cod unic de inregistrare", "vat number",
		"vat", "tax id", "tax number", "ust-idnr", "btw nummer", "numero de tva",
		"tva", "partita iva", "nif", "organisationsnummer", "cvr",
	},
	FieldRegCom: {
		"reg com", "nr reg com", "registrul comertului", "trade register",
		"commercial register", "registration number", "company number",
		"handelsregister", "kvk", "rcs", "registro imprese", "registro mercantil",
	},
	FieldAddress: {
		"address", "billing address", "street", "adresa", "strada", "adresse",
		"adres", "straat", "strasse", "indirizzo", "direccion", "adress",
	},
	FieldCity: {
		"city", "town", "oras", "localitate", "stadt", "ort", "plaats", "stad",
		"ville", "citta", "ciudad",
	},
	FieldCounty: {
		"county", "judet", "state", "province", "provincie", "bundesland",
		"departement", "provincia", "region", "district", "lan",
	},
	FieldCountry: {
		"country", "tara", "land", "pays", "paese", "pais", "nation",
	},
	FieldZipCode: {
		"zip code", "zip", "postal code", "postcode", "cod postal", "plz",
		"postleitzahl", "code postal", "cap", "codigo postal", "postnummer",
	},
}

// headerKeywords is the fixed keyword list the header row detector counts.
// Deliberately short: it only needs to tell a header row from a data row.
var headerKeywords = []string{
	"name", "company", "email", "phone", "address", "cui", "vat", "contact",
	"city", "firma", "nume", "telefon", "adresa", "client",
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowercases, trims, folds diacritics ("Județ" -> "judet")
// and strips every non-alphanumeric rune, so "E-Mail Adresse" and
// "emailadresse" compare equal.
func normalizeHeader(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	if folded, _, err := transform.String(foldDiacritics, header); err == nil {
		header = folded
	}

	var b strings.Builder
	b.Grow(len(header))
	for _, r := range header {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
