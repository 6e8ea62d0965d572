package who

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, " covid 19 ", normalize("COVID-19"))
	assert.Equal(t, " raised blood pressure ", normalize("Raised  blood-pressure!"))
	assert.Equal(t, "", normalize(" ?! "))
}

func TestKeywords(t *testing.T) {
	t.Run("condition expands to synonyms", func(t *testing.T) {
		kws := keywords("hypertension")
		assert.Contains(t, kws, " blood pressure ")
		assert.Contains(t, kws, " hypertension ")
	})

	t.Run("synonym names its condition", func(t *testing.T) {
		assert.Contains(t, keywords("tb"), " tuberculosis ")
	})

	t.Run("unknown term keeps its own words", func(t *testing.T) {
		assert.Equal(t, []string{" kidney stones ", " kidney ", " stones "}, keywords("kidney stones"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, keywords(""))
	})
}

func TestRankIndicators(t *testing.T) {
	catalog := []Indicator{
		{Code: "A", Name: "Prevalence of obesity among adults"},
		{Code: "MALARIA_B", Name: "Malaria deaths"},
		{Code: "C", Name: "Malaria cases"},
		{Code: "D", Name: "Antenatal care coverage"},
	}

	got := rankIndicators(catalog, "malaria", 3)

	if assert.Len(t, got, 2) {
		assert.Equal(t, "MALARIA_B", got[0].Code, "code match ranks higher")
		assert.Equal(t, "C", got[1].Code)
	}
	assert.Empty(t, rankIndicators(catalog, "gout", 3))
	assert.Len(t, rankIndicators(catalog, "malaria", 1), 1)
}

func TestFindFactSheet(t *testing.T) {
	tests := []struct {
		term string
		want string
		ok   bool
	}{
		{"malaria", "malaria", true},
		{"HIV", "hiv", true},
		{"childhood asthma", "asthma", true},
		{"coronary heart attack", "heart disease", true},
		{"gout", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			sheet, ok := findFactSheet(tt.term)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, sheet.Condition)
		})
	}
}
