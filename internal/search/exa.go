// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/source-aggregator/internal/httputil"
	"github.com/pdiddy/source-aggregator/pkg/types"
)

// exaAPIBase is the Exa search endpoint. Declared as a var so tests can
// substitute an httptest server.
var exaAPIBase = "https://api.exa.ai/search"

// ExaBackend queries the Exa neural search API. Exa accepts one query per
// call and returns scored results.
type ExaBackend struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the backend identifier.
func (b *ExaBackend) Name() string { return "exa" }

// Search sends the primary query to Exa. When a document-type category
// hint is set and the filtered call returns fewer results than requested,
// a supplemental unfiltered call tops up the batch; the processor's dedup
// removes any overlap.
func (b *ExaBackend) Search(ctx context.Context, queries []string, opts BackendOptions) ([]RawResult, error) {
	if len(queries) == 0 || queries[0] == "" {
		return nil, fmt.Errorf("empty Exa query")
	}
	query := queries[0]

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	category := exaCategory(opts.DocType)
	results, err := b.call(ctx, query, maxResults, category, opts.DomainFilter)
	if err != nil {
		return nil, err
	}

	// Category filters can be sparse; top up from the unfiltered index.
	if category != "" && len(results) < maxResults {
		extra, err := b.call(ctx, query, maxResults-len(results), "", opts.DomainFilter)
		if err == nil {
			results = append(results, extra...)
		}
	}

	return results, nil
}

func (b *ExaBackend) call(ctx context.Context, query string, numResults int, category string, domains []string) ([]RawResult, error) {
	reqBody := exaRequest{
		Query:          query,
		NumResults:     numResults,
		Category:       category,
		IncludeDomains: domains,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling Exa request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, exaAPIBase, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", b.UserAgent)
	req.Header.Set("x-api-key", b.APIKey)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Exa API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Exa API returned HTTP %d", resp.StatusCode)
	}

	var er exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing Exa response: %w", err)
	}

	var results []RawResult
	untitled := 0
	for _, hit := range er.Results {
		if hit.URL == "" {
			continue
		}

		title := hit.Title
		if title == "" {
			untitled++
			title = fmt.Sprintf("Untitled %d", untitled)
		}

		snippet := hit.Snippet
		if snippet == "" {
			snippet = hit.Text
		}

		r := RawResult{
			ID:       hit.ID,
			Title:    title,
			URL:      hit.URL,
			Snippet:  snippet,
			Author:   inferAuthor(hit.Author, hit.URL, title),
			Provider: b.Name(),
		}
		// A pointer keeps an explicit 0.0 distinct from a missing score.
		if hit.Score != nil {
			r.Score = *hit.Score
			r.HasScore = true
		}

		if hit.PublishedDate != "" {
			if t, parseErr := time.Parse(time.RFC3339, hit.PublishedDate); parseErr == nil {
				r.Date = t
			} else if t, parseErr := time.Parse("2006-01-02", hit.PublishedDate); parseErr == nil {
				r.Date = t
			}
		}

		results = append(results, r)
	}
	return results, nil
}

// exaCategory maps a document type to Exa's category hint.
func exaCategory(docType types.DocumentType) string {
	switch docType {
	case types.DocResearchPaper:
		return "research paper"
	case types.DocReport:
		return "pdf"
	default:
		return ""
	}
}

// Exa API JSON structures.
type exaRequest struct {
	Query          string   `json:"query"`
	NumResults     int      `json:"numResults"`
	Category       string   `json:"category,omitempty"`
	IncludeDomains []string `json:"includeDomains,omitempty"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Snippet       string   `json:"snippet"`
	Text          string   `json:"text"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"publishedDate"`
	Score         *float64 `json:"score"`
}
