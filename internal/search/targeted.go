// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

// targetedResultsPerQuery is the small top-N requested for each
// feedback-driven query.
const targetedResultsPerQuery = 4

// ConductTargetedResearch runs each gap-filling query sequentially,
// growing an exclusion set so no source surfaces twice across the batch.
// Queries run in the given order; each entry's rationale records what the
// query found. A failing query is recorded and the loop continues.
func ConductTargetedResearch(ctx context.Context, queries []string, backends []Backend, docType types.DocumentType, existingURLs []string, w io.Writer) []types.TargetedSearchResult {
	exclude := make([]string, 0, len(existingURLs))
	exclude = append(exclude, existingURLs...)
	var excludeTitles []string

	results := make([]types.TargetedSearchResult, 0, len(queries))
	for _, query := range queries {
		entry := types.TargetedSearchResult{Query: query}

		out, err := SearchParallel(ctx, query, backends, nil, Options{
			DocType:          docType,
			NumResults:       targetedResultsPerQuery,
			ExcludeURLs:      exclude,
			ExcludeTitles:    excludeTitles,
			DisableExpansion: true,
		}, w)

		switch {
		case err != nil:
			entry.Rationale = fmt.Sprintf("search failed: %v", err)
		case len(out.Sources) == 0 && len(out.BackendErrors) == len(backends):
			entry.Rationale = fmt.Sprintf("search failed: %s", out.BackendErrors[0])
		case len(out.Sources) == 0:
			entry.Rationale = fmt.Sprintf("no additional unique sources for %q", query)
		default:
			// SearchParallel returns up to 2x the ask; the final trim is
			// ours.
			sources := out.Sources
			if len(sources) > targetedResultsPerQuery {
				sources = sources[:targetedResultsPerQuery]
			}
			entry.Sources = sources
			entry.Rationale = fmt.Sprintf("found %d new sources for %q", len(sources), query)
		}

		// Grow the exclusion set before the next query runs.
		for _, s := range entry.Sources {
			exclude = append(exclude, s.URL)
			excludeTitles = append(excludeTitles, s.Title)
		}

		results = append(results, entry)
	}
	return results
}
