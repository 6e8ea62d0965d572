// Package who implements the health authority knowledge source.
//
// Lookups go through three tiers: the WHO Global Health Observatory
// indicator catalog, a built-in fact-sheet table, and generic guidance.
// The source never reports NotFound.
package who

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/healthrag/internal/adapters/driven/sources/remote"
	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.KnowledgeSource = (*Source)(nil)

// Catalog defaults.
const (
	DefaultCatalogTTL = 24 * time.Hour
	maxIndicators     = 3
	catalogRate       = 5.0
)

// Config holds configuration for the authority source.
type Config struct {
	// BaseURL is the GHO OData root (default: domain.DefaultWHOBaseURL).
	BaseURL string

	// CatalogTTL is how long a fetched indicator catalog is reused.
	CatalogTTL time.Duration
}

// Indicator is one entry of the GHO indicator catalog.
type Indicator struct {
	Code     string `json:"IndicatorCode"`
	Name     string `json:"IndicatorName"`
	Language string `json:"Language"`
}

// Source answers from the GHO catalog, then fact sheets, then generic guidance.
type Source struct {
	client *remote.Client
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	catalog   []Indicator
	fetchedAt time.Time
}

// NewSource creates an authority source.
func NewSource(cfg Config) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultWHOBaseURL
	}
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = DefaultCatalogTTL
	}
	return &Source{
		client: remote.New(remote.Config{
			Service:       "who",
			BaseURL:       cfg.BaseURL,
			RatePerSecond: catalogRate,
		}),
		ttl: cfg.CatalogTTL,
		now: time.Now,
	}
}

// Name identifies the source.
func (s *Source) Name() domain.SourceName {
	return domain.SourceAuthority
}

// Lookup returns matching indicators, a fact sheet, or generic guidance.
// Only a failure to obtain the catalog is returned as an error.
func (s *Source) Lookup(ctx context.Context, term string) (domain.SourceOutcome, error) {
	catalog, err := s.indicators(ctx)
	if err != nil {
		return domain.SourceOutcome{}, err
	}

	if matches := rankIndicators(catalog, term, maxIndicators); len(matches) > 0 {
		logger.Debug("who: %q matched %d indicators", term, len(matches))
		return domain.Found(domain.SourceAuthority, formatIndicators(term, matches)), nil
	}

	if sheet, ok := findFactSheet(term); ok {
		logger.Debug("who: %q matched fact sheet %q", term, sheet.Condition)
		return domain.Found(domain.SourceAuthority, sheet.Text), nil
	}

	logger.Debug("who: %q has no specific match, using generic guidance", term)
	return domain.Found(domain.SourceAuthority, genericGuidance(term)), nil
}

// indicators returns the cached catalog, refreshing it once the TTL expires.
// A failed refresh falls back to a stale catalog when one exists.
func (s *Source) indicators(ctx context.Context) ([]Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.catalog, nil
	}

	catalog, err := s.fetchCatalog(ctx)
	if err != nil {
		if s.catalog != nil && ctx.Err() == nil {
			logger.Warn("who: catalog refresh failed, using cached copy: %v", err)
			return s.catalog, nil
		}
		return nil, err
	}

	s.catalog = catalog
	s.fetchedAt = s.now()
	logger.Debug("who: loaded %d indicators", len(catalog))
	return catalog, nil
}

type catalogResponse struct {
	Value []Indicator `json:"value"`
}

func (s *Source) fetchCatalog(ctx context.Context) ([]Indicator, error) {
	body, err := s.client.Get(ctx, "/Indicator", nil)
	if err != nil {
		return nil, err
	}

	var resp catalogResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("who: %w: decode catalog: %w", domain.ErrSourceNetwork, err)
	}

	catalog := make([]Indicator, 0, len(resp.Value))
	for _, ind := range resp.Value {
		if ind.Name == "" {
			continue
		}
		if ind.Language != "" && !strings.EqualFold(ind.Language, "EN") {
			continue
		}
		catalog = append(catalog, ind)
	}
	return catalog, nil
}

func formatIndicators(term string, matches []Indicator) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Global health indicators tracked for %s:\n", term)
	for _, ind := range matches {
		fmt.Fprintf(&sb, "- %s (%s)\n", ind.Name, ind.Code)
	}
	return strings.TrimRight(sb.String(), "\n")
}
