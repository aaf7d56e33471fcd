package importing

import "strings"

const (
	// contentScanLimit bounds how many data rows the companyName content
	// fallback samples per column.
	contentScanLimit = 20
)

// companyLiteralTokens are the last-resort header tokens for locating a
// company column when neither the dictionary nor content scoring found one.
var companyLiteralTokens = []string{"company", "firma", "business"}

// companyLiteralExclusions reject headers like "Company Phone" in the
// contains pass of the literal scan.
var companyLiteralExclusions = []string{"phone", "email", "address"}

// ColumnMapping is the result of resolving canonical fields against a
// detected header row.
type ColumnMapping struct {
	// Columns maps each resolved field to the raw header that claimed it
	Columns map[CanonicalField]string
	// Ambiguous lists, per field, every header that matched exactly when
	// more than one did. The first header still wins in Columns.
	Ambiguous map[CanonicalField][]string
}

// Header returns the raw header mapped to a field
func (m ColumnMapping) Header(field CanonicalField) (string, bool) {
	h, ok := m.Columns[field]
	return h, ok
}

// MappedFields returns the resolved fields in canonical order
func (m ColumnMapping) MappedFields() []CanonicalField {
	fields := make([]CanonicalField, 0, len(m.Columns))
	for _, field := range AllFields {
		if _, ok := m.Columns[field]; ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// ColumnMapper resolves canonical fields to spreadsheet columns
type ColumnMapper struct {
	dict   Dictionary
	scorer CompanyScorer
}

// NewColumnMapper creates a mapper over the given dictionary and scorer
func NewColumnMapper(dict Dictionary, scorer CompanyScorer) ColumnMapper {
	return ColumnMapper{dict: dict, scorer: scorer}
}

// MapColumns resolves every canonical field against the header row. Fields
// resolve independently; one header may serve several fields. dataRows are
// the rows below the header row, used only by the companyName content
// fallback.
func (m ColumnMapper) MapColumns(headers []string, dataRows [][]string) ColumnMapping {
	mapping := ColumnMapping{
		Columns:   make(map[CanonicalField]string),
		Ambiguous: make(map[CanonicalField][]string),
	}

	for _, field := range AllFields {
		if header, matches, ok := m.findBestMatch(headers, field); ok {
			mapping.Columns[field] = header
			if len(matches) > 1 {
				mapping.Ambiguous[field] = matches
			}
		}
	}

	if _, ok := mapping.Columns[FieldCompanyName]; !ok {
		if header, ok := m.companyColumnByContent(headers, dataRows); ok {
			mapping.Columns[FieldCompanyName] = header
		} else if header, ok := m.companyColumnByLiteral(headers); ok {
			mapping.Columns[FieldCompanyName] = header
		}
	}

	return mapping
}

// findBestMatch tries exact normalized equality first, then substring
// containment. On the exact pass it keeps collecting so ambiguity can be
// reported; the first match stays authoritative.
func (m ColumnMapper) findBestMatch(headers []string, field CanonicalField) (string, []string, bool) {
	synonyms := m.dict.Synonyms(field)

	var exact []string
	for _, header := range headers {
		normalized := normalizeHeader(header)
		if normalized == "" {
			continue
		}
		for _, synonym := range synonyms {
			if normalized == normalizeHeader(synonym) {
				exact = append(exact, header)
				break
			}
		}
	}
	if len(exact) > 0 {
		return exact[0], exact, true
	}

	for _, header := range headers {
		normalized := normalizeHeader(header)
		if normalized == "" {
			continue
		}
		for _, synonym := range synonyms {
			if strings.Contains(normalized, normalizeHeader(synonym)) {
				return header, nil, true
			}
		}
	}

	return "", nil, false
}

// companyColumnByContent scores each column's cell values over the first
// contentScanLimit data rows and picks the strictly highest total, accepted
// only above companyColumnThreshold.
func (m ColumnMapper) companyColumnByContent(headers []string, dataRows [][]string) (string, bool) {
	limit := len(dataRows)
	if limit > contentScanLimit {
		limit = contentScanLimit
	}

	bestCol := -1
	bestTotal := 0
	for col := range headers {
		total := 0
		for row := 0; row < limit; row++ {
			if col < len(dataRows[row]) {
				total += m.scorer.Score(dataRows[row][col])
			}
		}
		if total > bestTotal {
			bestTotal = total
			bestCol = col
		}
	}

	if bestCol < 0 || bestTotal <= companyColumnThreshold {
		return "", false
	}
	if strings.TrimSpace(headers[bestCol]) == "" {
		return "", false
	}
	return headers[bestCol], true
}

// companyColumnByLiteral searches headers for the literal company tokens,
// exact first, then contains with the phone/email/address exclusions.
func (m ColumnMapper) companyColumnByLiteral(headers []string) (string, bool) {
	for _, header := range headers {
		lowered := strings.ToLower(strings.TrimSpace(header))
		for _, token := range companyLiteralTokens {
			if lowered == token {
				return header, true
			}
		}
	}

	for _, header := range headers {
		lowered := strings.ToLower(strings.TrimSpace(header))
		if containsAnyToken(lowered, companyLiteralExclusions) {
			continue
		}
		if containsAnyToken(lowered, companyLiteralTokens) {
			return header, true
		}
	}

	return "", false
}

func containsAnyToken(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
