// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

// FormatTable writes sources as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Sources) == 0 {
		fmt.Fprintln(w, "No sources found. Try a different topic.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-56s  %-24s  %-6s  %-10s  %s\n",
		"Rank", "Title", "Domain", "Score", "Provider", "Author")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, s := range out.Sources {
		fmt.Fprintf(w, "%-4d  %-56s  %-24s  %-6.2f  %-10s  %s\n",
			i+1, truncate(s.Title, 56), truncate(s.Domain, 24), s.Score, s.Provider, truncate(s.Author, 24))
	}

	fmt.Fprintf(w, "\n%d sources", len(out.Sources))
	if len(out.BackendErrors) > 0 {
		fmt.Fprintf(w, " (%d backend failures)", len(out.BackendErrors))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes sources as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Sources)
}

// FormatTargeted writes one line per targeted query plus its sources.
func FormatTargeted(results []types.TargetedSearchResult, w io.Writer) {
	total := 0
	for _, r := range results {
		fmt.Fprintf(w, "%s\n", r.Rationale)
		for _, s := range r.Sources {
			fmt.Fprintf(w, "  %-56s  %s\n", truncate(s.Title, 56), s.URL)
		}
		total += len(r.Sources)
	}
	fmt.Fprintf(w, "\n%d queries, %d new sources\n", len(results), total)
}

// truncate cuts s to at most max characters, counting runes so a
// multi-byte character is never split.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
