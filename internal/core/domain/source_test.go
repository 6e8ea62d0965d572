package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceName_IsValid(t *testing.T) {
	for _, s := range AllSources() {
		assert.True(t, s.IsValid(), s)
		assert.NotEqual(t, unknownDescription, s.Description())
	}
	assert.False(t, SourceName("pubmed").IsValid())
}

func TestAllSources_Order(t *testing.T) {
	assert.Equal(t, []SourceName{SourceLocal, SourceLiterature, SourceAuthority}, AllSources())
}

func TestOutcomeConstructors(t *testing.T) {
	found := Found(SourceLocal, "body")
	assert.True(t, found.IsFound())
	assert.False(t, found.IsFailure())
	assert.Equal(t, "body", found.Text)

	nf := NotFound(SourceLiterature)
	assert.Equal(t, OutcomeNotFound, nf.Kind)
	assert.False(t, nf.IsFailure())

	failed := Failed(SourceAuthority, "boom")
	assert.True(t, failed.IsFailure())
	assert.Equal(t, "boom", failed.Message)

	timedOut := TimedOut(SourceAuthority)
	assert.True(t, timedOut.IsFailure())
	assert.Equal(t, OutcomeTimedOut, timedOut.Kind)
}
