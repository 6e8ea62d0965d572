package who

import (
	"sort"
	"strings"
	"unicode"
)

// synonyms expands a condition into the vocabulary used by indicator names.
var synonyms = []struct {
	condition string
	terms     []string
}{
	{"diabetes", []string{"diabetes", "blood glucose", "glucose", "insulin"}},
	{"hypertension", []string{"hypertension", "blood pressure", "raised blood pressure"}},
	{"malaria", []string{"malaria", "plasmodium", "anopheles", "antimalarial"}},
	{"tuberculosis", []string{"tuberculosis", "tb"}},
	{"hiv", []string{"hiv", "aids", "antiretroviral"}},
	{"covid-19", []string{"covid", "covid-19", "sars-cov-2", "coronavirus"}},
	{"heart disease", []string{"cardiovascular", "ischaemic heart", "heart disease", "cvd"}},
	{"stroke", []string{"stroke", "cerebrovascular"}},
	{"cancer", []string{"cancer", "neoplasm", "neoplasms", "tumour"}},
	{"obesity", []string{"obesity", "overweight", "bmi", "body mass index"}},
	{"asthma", []string{"asthma", "chronic respiratory"}},
	{"influenza", []string{"influenza", "flu"}},
	{"measles", []string{"measles", "mcv"}},
	{"hepatitis", []string{"hepatitis", "hbv", "hcv"}},
	{"depression", []string{"depression", "mental health", "suicide"}},
	{"cholera", []string{"cholera", "diarrhoea", "diarrhoeal"}},
}

// normalize lower-cases s and reduces it to space-separated alphanumeric words,
// padded so whole-word matches can use strings.Contains.
func normalize(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	return " " + strings.Join(words, " ") + " "
}

// keywords returns the term's own words plus the synonyms of every condition
// the term mentions or names through a synonym.
func keywords(term string) []string {
	t := normalize(term)
	if t == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(k string) {
		k = normalize(k)
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, k)
	}

	add(term)
	for _, w := range strings.Fields(t) {
		if len(w) >= 3 {
			add(w)
		}
	}
	for _, entry := range synonyms {
		hit := strings.Contains(t, normalize(entry.condition))
		for _, syn := range entry.terms {
			if hit {
				break
			}
			hit = strings.TrimSpace(t) == strings.TrimSpace(normalize(syn))
		}
		if !hit {
			continue
		}
		for _, syn := range entry.terms {
			add(syn)
		}
	}
	return out
}

// score rates how well an indicator matches the keywords.
// A whole-word hit in the name counts 2, a longer keyword inside the code counts 1.
func score(ind Indicator, kws []string) int {
	name := normalize(ind.Name)
	code := strings.ToLower(ind.Code)

	total := 0
	for _, kw := range kws {
		if strings.Contains(name, kw) {
			total += 2
		}
		compact := strings.ReplaceAll(strings.TrimSpace(kw), " ", "")
		if len(compact) >= 4 && strings.Contains(code, compact) {
			total++
		}
	}
	return total
}

// rankIndicators returns up to limit indicators with a positive score,
// best first. Ties keep catalog order.
func rankIndicators(catalog []Indicator, term string, limit int) []Indicator {
	kws := keywords(term)
	if len(kws) == 0 {
		return nil
	}

	type scored struct {
		ind   Indicator
		score int
	}
	var hits []scored
	for _, ind := range catalog {
		if sc := score(ind, kws); sc > 0 {
			hits = append(hits, scored{ind, sc})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Indicator, len(hits))
	for i, h := range hits {
		out[i] = h.ind
	}
	return out
}
