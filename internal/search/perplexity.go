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
)

// perplexityAPIBase is the Perplexity search endpoint. Declared as a var
// so tests can substitute an httptest server.
var perplexityAPIBase = "https://api.perplexity.ai/search"

// perplexityMaxQueries is the most queries one API call accepts; extra
// queries are truncated silently.
const perplexityMaxQueries = 5

// PerplexityBackend queries the Perplexity search API. It accepts up to
// five queries per call and returns unscored results.
type PerplexityBackend struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the backend identifier.
func (b *PerplexityBackend) Name() string { return "perplexity" }

// Search sends the query set (truncated to five) in one call.
func (b *PerplexityBackend) Search(ctx context.Context, queries []string, opts BackendOptions) ([]RawResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("empty Perplexity query set")
	}
	if len(queries) > perplexityMaxQueries {
		queries = queries[:perplexityMaxQueries]
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	reqBody := perplexityRequest{
		Query:              queries,
		MaxResults:         maxResults,
		SearchDomainFilter: opts.DomainFilter,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling Perplexity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, perplexityAPIBase, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", b.UserAgent)
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Perplexity API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Perplexity API returned HTTP %d", resp.StatusCode)
	}

	var pr perplexityResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing Perplexity response: %w", err)
	}

	var results []RawResult
	untitled := 0
	for _, hit := range pr.Results {
		if hit.URL == "" {
			continue
		}

		title := hit.Title
		if title == "" {
			untitled++
			title = fmt.Sprintf("Untitled %d", untitled)
		}

		r := RawResult{
			Title:    title,
			URL:      hit.URL,
			Snippet:  hit.Snippet,
			Provider: b.Name(),
		}

		if hit.Date != "" {
			if t, parseErr := time.Parse("2006-01-02", hit.Date); parseErr == nil {
				r.Date = t
			}
		}

		results = append(results, r)
	}
	return results, nil
}

// Perplexity API JSON structures.
type perplexityRequest struct {
	Query              []string `json:"query"`
	MaxResults         int      `json:"max_results"`
	SearchDomainFilter []string `json:"search_domain_filter,omitempty"`
}

type perplexityResponse struct {
	Results []perplexityResult `json:"results"`
}

type perplexityResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}
