// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

// titleSimilarityThreshold is the Jaccard word-set overlap above which
// two titles are treated as the same source.
const titleSimilarityThreshold = 0.85

// defaultOverFetch is the per-provider request multiplier compensating
// for losses during dedup and domain-diversity filtering.
const defaultOverFetch = 2.0

// Options holds the parameters of one aggregated search.
type Options struct {
	// DocType selects query prefixes and provider category hints.
	DocType types.DocumentType

	// Instructions is optional free-text refinement whose key phrases
	// are folded into the query set.
	Instructions string

	// NumResults is the number of sources the caller wants (default 10).
	NumResults int

	// MaxSourcesPerDomain caps results per registrable domain (default 2).
	MaxSourcesPerDomain int

	// OverFetchFactor overrides the per-provider request multiplier
	// (default 2.0).
	OverFetchFactor float64

	// ExcludeURLs drops results already shown to the user, matched by
	// normalized URL.
	ExcludeURLs []string

	// ExcludeTitles drops results whose title is near-identical to one
	// already shown.
	ExcludeTitles []string

	// DisableExpansion searches with the single enhanced query instead
	// of the expanded set.
	DisableExpansion bool
}

// Output holds the merged sources and per-backend failure notes.
type Output struct {
	Sources       []types.ResearchSource
	Queries       []string
	BackendErrors []string
}

// SearchParallel fans one query set out to all backends concurrently,
// merges and ranks the raw results, applies exclusions, and converts to
// ResearchSources. A backend failure is isolated: it is logged to w and
// recorded in Output.BackendErrors, and the remaining backends' results
// are still used. When every backend fails the output is an empty source
// list, not an error; callers must treat "no sources found" as a valid
// state.
func SearchParallel(ctx context.Context, topic string, backends []Backend, expander *Expander, opts Options, w io.Writer) (Output, error) {
	if strings.TrimSpace(topic) == "" {
		return Output{}, fmt.Errorf("topic is empty: provide a research topic")
	}
	if len(backends) == 0 {
		return Output{}, fmt.Errorf("no search backends configured")
	}

	numResults := opts.NumResults
	if numResults <= 0 {
		numResults = 10
	}
	maxPerDomain := opts.MaxSourcesPerDomain
	if maxPerDomain <= 0 {
		maxPerDomain = 2
	}
	overFetch := opts.OverFetchFactor
	if overFetch <= 0 {
		overFetch = defaultOverFetch
	}

	queries := buildQueries(topic, expander, opts)
	perBackend := int(math.Ceil(float64(numResults) * overFetch))

	type backendResult struct {
		results []RawResult
		err     error
	}

	// Collected per backend slot so downstream dedup sees results in
	// backend-list order, not goroutine completion order. First-seen-wins
	// dedup must be deterministic about which provider's entry survives.
	collected := make([]backendResult, len(backends))
	var wg sync.WaitGroup

	for i, b := range backends {
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			results, err := b.Search(ctx, queries, BackendOptions{
				MaxResults: perBackend,
				DocType:    opts.DocType,
			})
			collected[i] = backendResult{results: results, err: err}
		}(i, b)
	}

	wg.Wait()

	var all []RawResult
	var backendErrors []string
	for i, br := range collected {
		if br.err != nil {
			name := backends[i].Name()
			backendErrors = append(backendErrors, fmt.Sprintf("%s: %v", name, br.err))
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", name, br.err)
			continue
		}
		all = append(all, br.results...)
	}

	merged := MergeResults(all, nil, MergeOptions{
		MaxSourcesPerDomain: maxPerDomain,
		// Intentionally generous: the final trim to NumResults is the
		// caller's decision.
		TotalMaxResults: numResults * 2,
	})

	merged = FilterExistingURLs(merged, opts.ExcludeURLs)
	merged = FilterSimilarTitles(merged, opts.ExcludeTitles, titleSimilarityThreshold)

	return Output{
		Sources:       toSources(merged),
		Queries:       queries,
		BackendErrors: backendErrors,
	}, nil
}

// buildQueries expands the topic unless expansion is disabled, in which
// case a single query enhanced with instruction phrases is used.
func buildQueries(topic string, expander *Expander, opts Options) []string {
	if opts.DisableExpansion {
		query := topic
		for i, phrase := range ExtractKeyPhrases(opts.Instructions) {
			if i >= 2 {
				break
			}
			query += " " + phrase
		}
		return []string{query}
	}
	if expander == nil {
		expander = NewExpander(nil)
	}
	return expander.Expand(topic, opts.DocType, opts.Instructions, 3)
}

// toSources converts merged raw results into the externally consumed
// shape. Provider and domain are always set; Selected defaults true.
func toSources(results []RawResult) []types.ResearchSource {
	sources := make([]types.ResearchSource, 0, len(results))
	for _, r := range results {
		sources = append(sources, types.ResearchSource{
			ID:            uuid.NewString(),
			Title:         r.Title,
			URL:           r.URL,
			Author:        r.Author,
			PublishedDate: r.Date,
			Excerpt:       r.Snippet,
			Score:         r.Score,
			Selected:      true,
			Provider:      r.Provider,
			Domain:        Domain(r.URL),
		})
	}
	return sources
}
