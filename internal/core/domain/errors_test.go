package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrSourceUnavailable", ErrSourceUnavailable},
		{"ErrSourceTimeout", ErrSourceTimeout},
		{"ErrSourceNetwork", ErrSourceNetwork},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrSynthesisUnavailable", ErrSynthesisUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("local corpus: %w", ErrSourceUnavailable)

	assert.True(t, errors.Is(wrapped, ErrSourceUnavailable))
	assert.False(t, errors.Is(wrapped, ErrSourceTimeout))
	assert.Contains(t, wrapped.Error(), "knowledge source unavailable")
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrSynthesisUnavailable, ErrLLMUnavailable))
	assert.False(t, errors.Is(ErrSourceNetwork, ErrSourceUnavailable))
}
