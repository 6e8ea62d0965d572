// Package pubmed implements the literature knowledge source on NCBI E-utilities.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/healthrag/internal/adapters/driven/sources/remote"
	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.KnowledgeSource = (*Source)(nil)

// NCBI request limits per second.
const (
	anonymousRate = 3.0
	apiKeyRate    = 10.0
)

// DefaultTool identifies this client to NCBI.
const DefaultTool = "healthrag"

// Config holds configuration for the PubMed source.
type Config struct {
	// BaseURL is the E-utilities root (default: domain.DefaultPubMedBaseURL).
	BaseURL string

	// Tool and Email identify the caller as NCBI asks.
	Tool  string
	Email string

	// APIKey raises the rate limit from 3 to 10 requests per second.
	APIKey string
}

// Source fetches the single most relevant PubMed abstract for a term.
type Source struct {
	client *remote.Client
	params url.Values
}

// NewSource creates a PubMed source.
func NewSource(cfg Config) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultPubMedBaseURL
	}
	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}

	ratePerSecond := anonymousRate
	params := url.Values{"db": {"pubmed"}, "tool": {cfg.Tool}}
	if cfg.Email != "" {
		params.Set("email", cfg.Email)
	}
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
		ratePerSecond = apiKeyRate
	}

	return &Source{
		client: remote.New(remote.Config{
			Service:       "pubmed",
			BaseURL:       cfg.BaseURL,
			RatePerSecond: ratePerSecond,
		}),
		params: params,
	}
}

// Name identifies the source.
func (s *Source) Name() domain.SourceName {
	return domain.SourceLiterature
}

// Lookup searches for the most relevant article and returns its title and abstract.
// Articles without an abstract count as NotFound.
func (s *Source) Lookup(ctx context.Context, term string) (domain.SourceOutcome, error) {
	pmid, err := s.search(ctx, term)
	if err != nil {
		return domain.SourceOutcome{}, err
	}
	if pmid == "" {
		logger.Debug("pubmed: no results for %q", term)
		return domain.NotFound(domain.SourceLiterature), nil
	}

	article, err := s.fetch(ctx, pmid)
	if remote.IsNotFound(err) {
		logger.Debug("pubmed: PMID %s has no record", pmid)
		return domain.NotFound(domain.SourceLiterature), nil
	}
	if err != nil {
		return domain.SourceOutcome{}, err
	}
	if article.Abstract == "" {
		logger.Debug("pubmed: PMID %s has no abstract", pmid)
		return domain.NotFound(domain.SourceLiterature), nil
	}

	logger.Debug("pubmed: %q -> PMID %s", term, pmid)
	return domain.Found(domain.SourceLiterature, article.String()), nil
}

type searchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// search returns the top PMID for term, or "" when there is none.
func (s *Source) search(ctx context.Context, term string) (string, error) {
	q := s.query()
	q.Set("term", term)
	q.Set("retmax", "1")
	q.Set("sort", "relevance")
	q.Set("retmode", "json")

	body, err := s.client.Get(ctx, "/esearch.fcgi", q)
	if err != nil {
		return "", err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("pubmed: %w: decode esearch: %w", domain.ErrSourceNetwork, err)
	}
	if len(resp.Result.IDList) == 0 {
		return "", nil
	}
	return resp.Result.IDList[0], nil
}

// Article is the part of a PubMed record used for synthesis.
type Article struct {
	PMID     string
	Title    string
	Abstract string
}

// String renders the article as a synthesis fragment.
func (a Article) String() string {
	return fmt.Sprintf("Title: %s\n\nAbstract: %s", a.Title, a.Abstract)
}

type articleSet struct {
	Articles []struct {
		PMID     string `xml:"MedlineCitation>PMID"`
		Title    inner  `xml:"MedlineCitation>Article>ArticleTitle"`
		Abstract []struct {
			Label string `xml:"Label,attr"`
			XML   string `xml:",innerxml"`
		} `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	} `xml:"PubmedArticle"`
}

// inner captures mixed content such as <i> and <sup> inside titles and abstracts.
type inner struct {
	XML string `xml:",innerxml"`
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func (i inner) text() string {
	return cleanText(i.XML)
}

func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

func (s *Source) fetch(ctx context.Context, pmid string) (Article, error) {
	q := s.query()
	q.Set("id", pmid)
	q.Set("retmode", "xml")
	q.Set("rettype", "abstract")

	body, err := s.client.Get(ctx, "/efetch.fcgi", q)
	if err != nil {
		return Article{}, err
	}

	var set articleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return Article{}, fmt.Errorf("pubmed: %w: decode efetch: %w", domain.ErrSourceNetwork, err)
	}
	if len(set.Articles) == 0 {
		return Article{PMID: pmid}, nil
	}

	raw := set.Articles[0]
	var parts []string
	for _, a := range raw.Abstract {
		text := cleanText(a.XML)
		if text == "" {
			continue
		}
		if a.Label != "" {
			text = a.Label + ": " + text
		}
		parts = append(parts, text)
	}

	return Article{
		PMID:     pmid,
		Title:    raw.Title.text(),
		Abstract: strings.Join(parts, "\n"),
	}, nil
}

func (s *Source) query() url.Values {
	q := make(url.Values, len(s.params)+4)
	for k, v := range s.params {
		q[k] = append([]string(nil), v...)
	}
	return q
}
