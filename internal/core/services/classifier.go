package services

import (
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Classify turns an adapter's return values into a single outcome stamped
// with its provenance. Errors are absorbed here and never propagated.
func Classify(source domain.SourceName, outcome domain.SourceOutcome, err error) domain.SourceOutcome {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrSourceTimeout) {
			logger.Warn("Source %s timed out: %v", source, err)
			return domain.TimedOut(source)
		}
		logger.Warn("Source %s failed: %v", source, err)
		return domain.Failed(source, err.Error())
	}

	outcome.Source = source
	switch outcome.Kind {
	case domain.OutcomeFound:
		if strings.TrimSpace(outcome.Text) == "" {
			return domain.NotFound(source)
		}
		return outcome
	case domain.OutcomeNotFound, domain.OutcomeError, domain.OutcomeTimedOut:
		return outcome
	default:
		logger.Warn("Source %s returned unknown outcome kind %q", source, outcome.Kind)
		return domain.Failed(source, "unknown outcome kind "+string(outcome.Kind))
	}
}
