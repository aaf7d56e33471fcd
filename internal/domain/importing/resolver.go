package importing

import "strings"

// ExtractedRow maps canonical fields to the raw cell value of one data row,
// produced by looking up the column mapping per row.
type ExtractedRow map[CanonicalField]string

// RawRow is the same data row keyed by raw header string. The resolver only
// consults it for the company-key rescue when no company column was mapped.
type RawRow map[string]string

// rescueKeys are matched case- and space-insensitively against raw row keys
var rescueKeys = []string{"company", "firma", "company name", "business"}

// ResolvedClient is the final shape a data row resolves to before
// persistence. Name is always non-empty; everything else is best effort.
type ResolvedClient struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	CUI           string
	RegCom        string
	Address       string
	City          string
	County        string
	Country       string
	ZipCode       string
}

// NameResolver decides per data row whether the name-like cells describe a
// company, a person, or both.
type NameResolver struct {
	scorer CompanyScorer
}

// NewNameResolver creates a resolver backed by the given scorer
func NewNameResolver(scorer CompanyScorer) NameResolver {
	return NameResolver{scorer: scorer}
}

// Resolve produces the client record for one extracted row, or ok=false when
// no usable name exists and the row must be skipped. hasCompanyColumn states
// whether the column mapping resolved a companyName column at all; it gates
// the score-based promotion of clientName. Resolve never mutates its inputs.
func (r NameResolver) Resolve(extracted ExtractedRow, raw RawRow, hasCompanyColumn bool) (ResolvedClient, bool) {
	companyName := trimmed(extracted, FieldCompanyName)
	contactName := trimmed(extracted, FieldContactName)
	firstName := trimmed(extracted, FieldFirstName)
	lastName := trimmed(extracted, FieldLastName)
	clientName := trimmed(extracted, FieldClientName)

	// A lone "Name" column next to a "Last Name" column usually carries the
	// first name. Only when the two differ; otherwise it is the same value
	// exported twice.
	if firstName == "" && clientName != "" && lastName != "" && clientName != lastName {
		firstName = clientName
	}
	personNameFromSplit := combineName(firstName, lastName)
	rescuedCompany := r.rescueFromRawKeys(raw)

	var name, contactPerson string
	switch {
	case companyName != "":
		name = companyName
		contactPerson = firstNonEmpty(contactName, personNameFromSplit, clientName)

	case rescuedCompany != "":
		name = rescuedCompany
		contactPerson = firstNonEmpty(clientName, personNameFromSplit)

	case clientName != "" && !hasCompanyColumn && r.scorer.Score(clientName) > 0:
		name = clientName
		contactPerson = firstNonEmpty(contactName, personNameFromSplit)

	case clientName != "":
		name = clientName
		contactPerson = firstNonEmpty(contactName, personNameFromSplit)

	case personNameFromSplit != "":
		name = personNameFromSplit
		contactPerson = personNameFromSplit

	case contactName != "":
		name = contactName
		contactPerson = contactName

	default:
		return ResolvedClient{}, false
	}

	return ResolvedClient{
		Name:          name,
		ContactPerson: contactPerson,
		Email:         trimmed(extracted, FieldEmail),
		Phone:         trimmed(extracted, FieldPhone),
		CUI:           trimmed(extracted, FieldCUI),
		RegCom:        trimmed(extracted, FieldRegCom),
		Address:       trimmed(extracted, FieldAddress),
		City:          trimmed(extracted, FieldCity),
		County:        trimmed(extracted, FieldCounty),
		Country:       trimmed(extracted, FieldCountry),
		ZipCode:       trimmed(extracted, FieldZipCode),
	}, true
}

// rescueFromRawKeys scans the raw row for a literal company-style key
func (r NameResolver) rescueFromRawKeys(raw RawRow) string {
	for _, rescue := range rescueKeys {
		for key, value := range raw {
			if strings.ToLower(strings.TrimSpace(key)) != rescue {
				continue
			}
			if v := strings.TrimSpace(value); v != "" {
				return v
			}
		}
	}
	return ""
}

func trimmed(extracted ExtractedRow, field CanonicalField) string {
	return strings.TrimSpace(extracted[field])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func combineName(firstName, lastName string) string {
	switch {
	case firstName != "" && lastName != "":
		if firstName == lastName {
			return firstName
		}
		return firstName + " " + lastName
	case firstName != "":
		return firstName
	case lastName != "":
		return lastName
	}
	return ""
}
