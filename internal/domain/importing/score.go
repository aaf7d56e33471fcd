package importing

import (
	"strings"
	"unicode"
)

// Scoring weights. The companyColumnThreshold interacts with
// businessKeywordScore: exactly two keyword hits total 10 and do NOT clear
// the strictly-greater threshold; two hits plus any structural bonus do.
// The boundary is observable, keep the exact values.
const (
	legalSuffixScore       = 10
	businessKeywordScore   = 5
	symbolScore            = 3
	digitLetterScore       = 1
	companyColumnThreshold = 10
)

// legalSuffixes are legal-entity indicators across European jurisdictions.
// Matched with word boundaries (space-delimited or exact), first hit only.
var legalSuffixes = []string{
	"srl", "srls", "sa", "pfa", "gmbh", "ag", "kg", "ohg", "gbr", "ug",
	"ltd", "llc", "llp", "plc", "inc", "corp", "co",
	"bv", "nv", "vof", "sarl", "sas", "sasu", "eurl",
	"spa", "snc", "sl", "slu", "sau",
	"ab", "oy", "as", "aps", "kft", "bt", "zrt",
	"doo", "dooel", "sro", "sp z oo", "se", "ev",
}

// businessKeywords are generic business words scored cumulatively wherever
// they appear in the value.
// Keep the entries substring-disjoint ("holding" covers "holdings"); a value
// hitting two distinct keywords must total exactly 2*businessKeywordScore.
var businessKeywords = []string{
	"group", "holding", "solutions", "services", "consulting",
	"consultancy", "logistics", "tech", "software", "systems", "digital",
	"media", "marketing", "agency", "studio", "design", "construct",
	"trading", "trade", "distribution", "transport", "shipping",
	"industries", "industrial", "engineering", "energy", "pharma",
	"medical", "clinic", "dental", "auto", "motors", "travel", "tours",
	"hotel", "restaurant", "catering", "retail", "wholesale",
	"international", "global", "partners", "ventures", "capital",
	"invest", "finance", "insurance", "properties", "development",
	"estate", "academy",
}

// CompanyScorer rates how company-like a free-text value looks. Higher is
// more company-like; 0 carries no signal either way. Pure and deterministic.
type CompanyScorer struct {
	suffixes []string
	keywords []string
}

// NewCompanyScorer returns a scorer with the built-in indicator lists
func NewCompanyScorer() CompanyScorer {
	return CompanyScorer{suffixes: legalSuffixes, keywords: businessKeywords}
}

// Score computes the company-likelihood of a single cell value
func (s CompanyScorer) Score(value string) int {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0
	}

	score := 0

	for _, suffix := range s.suffixes {
		if value == suffix ||
			strings.HasPrefix(value, suffix+" ") ||
			strings.HasSuffix(value, " "+suffix) ||
			strings.Contains(value, " "+suffix+" ") {
			score += legalSuffixScore
			break
		}
	}

	for _, keyword := range s.keywords {
		if strings.Contains(value, keyword) {
			score += businessKeywordScore
		}
	}

	if strings.ContainsAny(value, "&+") {
		score += symbolScore
	}
	if containsDigit(value) && containsLetter(value) {
		score += digitLetterScore
	}

	return score
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
