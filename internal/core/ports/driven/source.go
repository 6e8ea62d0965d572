package driven

import (
	"context"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// KnowledgeSource looks a search term up in one external or local source.
//
// Implementations return a typed outcome. Infrastructure failures are returned
// as errors wrapping domain.ErrSourceUnavailable, domain.ErrSourceNetwork or a
// context error; the caller classifies them. The deadline travels in ctx.
type KnowledgeSource interface {
	// Name identifies the source in outcomes and logs.
	Name() domain.SourceName

	// Lookup returns Found with text, or NotFound.
	Lookup(ctx context.Context, term string) (domain.SourceOutcome, error)
}
