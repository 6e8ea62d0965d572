package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Strategy
		wantErr  bool
	}{
		{name: "empty selects default", input: "", expected: StrategyComprehensive},
		{name: "whitespace selects default", input: "  ", expected: StrategyComprehensive},
		{name: "sequential", input: "sequential", expected: StrategySequential},
		{name: "iterative", input: "iterative", expected: StrategyIterative},
		{name: "comprehensive", input: "comprehensive", expected: StrategyComprehensive},
		{name: "standard alias", input: "standard", expected: StrategySequential},
		{name: "enhanced alias", input: "enhanced", expected: StrategyIterative},
		{name: "case insensitive", input: "Comprehensive", expected: StrategyComprehensive},
		{name: "unknown", input: "exhaustive", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStrategy_IsValid(t *testing.T) {
	for _, s := range AllStrategies() {
		assert.True(t, s.IsValid(), s)
		assert.NotEqual(t, unknownDescription, s.Description(), s)
	}
	assert.False(t, Strategy("standard").IsValid())
	assert.False(t, Strategy("").IsValid())
}

func TestDefaultStrategy(t *testing.T) {
	assert.Equal(t, StrategyComprehensive, DefaultStrategy())
}

func TestStrategyCatalogue(t *testing.T) {
	catalogue := StrategyCatalogue()

	require.Len(t, catalogue, len(AllStrategies()))
	defaults := 0
	for i, info := range catalogue {
		assert.Equal(t, AllStrategies()[i], info.Name)
		assert.NotEmpty(t, info.Description)
		assert.NotEmpty(t, info.Sources)
		if info.Default {
			defaults++
			assert.Equal(t, DefaultStrategy(), info.Name)
		}
	}
	assert.Equal(t, 1, defaults)
	assert.NotContains(t, catalogue[0].Sources, SourceAuthority)
}
