package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// conditionPatterns maps a canonical condition to the phrases that identify it.
// Order matters only for ties between equally long matches.
type conditionPatterns struct {
	canonical string
	patterns  []string
}

// defaultConditions is the built-in synonym table.
var defaultConditions = []conditionPatterns{
	{"strep throat", []string{"strep throat", "streptococcal pharyngitis", "strep"}},
	{"pharyngitis", []string{"pharyngitis", "sore throat", "throat"}},
	{"diabetes", []string{"diabetes", "diabetic", "blood sugar", "hyperglycemia", "insulin resistance"}},
	{"hypertension", []string{"hypertension", "high blood pressure", "blood pressure"}},
	{"malaria", []string{"malaria", "plasmodium"}},
	{"tuberculosis", []string{"tuberculosis", "tb"}},
	{"covid-19", []string{"covid-19", "covid", "coronavirus", "sars-cov-2"}},
	{"influenza", []string{"influenza", "flu"}},
	{"heart disease", []string{"heart disease", "cardiovascular disease", "coronary artery disease", "heart attack"}},
	{"stroke", []string{"stroke", "cerebrovascular"}},
	{"asthma", []string{"asthma", "wheezing"}},
	{"migraine", []string{"migraine"}},
	{"cancer", []string{"cancer", "tumor", "tumour", "malignancy", "carcinoma"}},
	{"hiv", []string{"hiv", "aids", "human immunodeficiency virus"}},
	{"hepatitis", []string{"hepatitis", "liver inflammation"}},
	{"pneumonia", []string{"pneumonia", "lung infection"}},
	{"obesity", []string{"obesity", "obese", "overweight"}},
	{"depression", []string{"depression", "depressive disorder"}},
	{"anemia", []string{"anemia", "anaemia", "iron deficiency"}},
	{"cholera", []string{"cholera"}},
	{"dengue", []string{"dengue", "dengue fever"}},
	{"measles", []string{"measles", "rubeola"}},
	{"arthritis", []string{"arthritis", "joint inflammation"}},
	{"common cold", []string{"common cold", "cold"}},
}

// stopWords are dropped by the token fallback.
var stopWords = map[string]struct{}{
	"what": {}, "which": {}, "who": {}, "whom": {}, "whose": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"are": {}, "is": {}, "was": {}, "were": {}, "be": {}, "been": {}, "does": {}, "do": {}, "did": {},
	"can": {}, "could": {}, "should": {}, "would": {}, "will": {}, "have": {}, "has": {}, "had": {},
	"the": {}, "a": {}, "an": {}, "of": {}, "for": {}, "about": {}, "with": {}, "without": {}, "from": {},
	"into": {}, "onto": {}, "in": {}, "on": {}, "at": {}, "to": {}, "by": {}, "and": {}, "or": {},
	"symptoms": {}, "symptom": {}, "causes": {}, "cause": {}, "treatment": {}, "treatments": {},
	"treat": {}, "treated": {}, "signs": {}, "tell": {}, "please": {}, "explain": {}, "there": {},
	"some": {}, "they": {}, "them": {}, "this": {}, "that": {}, "these": {}, "those": {}, "your": {},
	"main": {}, "common": {}, "best": {}, "know": {}, "need": {}, "prevent": {}, "prevention": {},
}

// TermExtractor maps a free-text question to a canonical lookup term.
// It is pure and safe for concurrent use.
type TermExtractor struct {
	conditions []conditionPatterns
}

// NewTermExtractor creates an extractor with the built-in condition table.
func NewTermExtractor() *TermExtractor {
	return &TermExtractor{conditions: defaultConditions}
}

// Extract returns the canonical term for query. It never fails: when nothing
// matches it degrades to the first significant token, then to the query itself.
func (e *TermExtractor) Extract(query string) string {
	lower := strings.ToLower(query)

	best, bestLen := "", 0
	for _, c := range e.conditions {
		for _, p := range c.patterns {
			if len(p) > bestLen && containsPhrase(lower, p) {
				best, bestLen = c.canonical, len(p)
			}
		}
	}
	if best != "" {
		return best
	}

	for _, tok := range strings.Fields(lower) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
		})
		if len([]rune(tok)) <= 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		return tok
	}
	return query
}

// containsPhrase reports whether pattern occurs in text. Short patterns
// (three characters or fewer, such as "tb") must sit on word boundaries.
func containsPhrase(text, pattern string) bool {
	if len(pattern) > 3 {
		return strings.Contains(text, pattern)
	}
	for i := 0; ; {
		j := strings.Index(text[i:], pattern)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(pattern)
		if boundaryBefore(text[:start]) && boundaryAfter(text[end:]) {
			return true
		}
		i = start + 1
	}
}

func boundaryBefore(prefix string) bool {
	r, size := utf8.DecodeLastRuneInString(prefix)
	return size == 0 || !isWordRune(r)
}

func boundaryAfter(suffix string) bool {
	r, size := utf8.DecodeRuneInString(suffix)
	return size == 0 || !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
