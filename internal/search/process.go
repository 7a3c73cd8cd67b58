// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// MergeOptions controls how cross-provider result batches are combined.
type MergeOptions struct {
	// MaxSourcesPerDomain caps results per registrable domain.
	MaxSourcesPerDomain int

	// TotalMaxResults bounds the merged batch size.
	TotalMaxResults int
}

// NormalizeURL returns the canonical dedup key for a URL: lowercased,
// scheme stripped, leading "www." stripped, trailing slash stripped.
func NormalizeURL(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

// Domain extracts the registrable domain of a URL (e.g. "example.com"
// for "https://blog.example.com/post"). It falls back to the bare
// hostname when the public suffix list cannot resolve it.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		// Dedup keys have no scheme; retry with one.
		u, err = url.Parse("https://" + NormalizeURL(raw))
		if err != nil || u.Hostname() == "" {
			return ""
		}
	}
	host := strings.ToLower(u.Hostname())
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return strings.TrimPrefix(host, "www.")
	}
	return registrable
}

// DeduplicateByURL removes results whose normalized URL was already seen.
// First seen wins.
func DeduplicateByURL(results []RawResult) []RawResult {
	seen := make(map[string]struct{}, len(results))
	deduped := make([]RawResult, 0, len(results))
	for _, r := range results {
		key := NormalizeURL(r.URL)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}

// NormalizeScores rescales scores into [0,1] per provider group. Within a
// group that carries scores, min-max normalization applies and scoreless
// results get 0.5. A group with no scores at all gets position-decay
// scores (1 - 0.05 per rank, floored at 0) from its original ordering.
// Normalization is never global: raw score scales differ across providers.
func NormalizeScores(results []RawResult) []RawResult {
	byProvider := make(map[string][]int)
	order := make([]string, 0, 2)
	for i, r := range results {
		if _, ok := byProvider[r.Provider]; !ok {
			order = append(order, r.Provider)
		}
		byProvider[r.Provider] = append(byProvider[r.Provider], i)
	}

	out := make([]RawResult, len(results))
	copy(out, results)

	for _, provider := range order {
		indices := byProvider[provider]
		normalizeGroup(out, indices)
	}
	return out
}

func normalizeGroup(results []RawResult, indices []int) {
	minScore, maxScore := 0.0, 0.0
	scored := false
	for _, i := range indices {
		if !results[i].HasScore {
			continue
		}
		if !scored || results[i].Score < minScore {
			minScore = results[i].Score
		}
		if !scored || results[i].Score > maxScore {
			maxScore = results[i].Score
		}
		scored = true
	}

	if !scored {
		// Unscored provider: decay by original rank.
		for rank, i := range indices {
			score := 1.0 - float64(rank)*0.05
			if score < 0 {
				score = 0
			}
			results[i].Score = score
			results[i].HasScore = true
		}
		return
	}

	span := maxScore - minScore
	for _, i := range indices {
		switch {
		case !results[i].HasScore:
			results[i].Score = 0.5
			results[i].HasScore = true
		case span == 0:
			results[i].Score = 1.0
		default:
			results[i].Score = (results[i].Score - minScore) / span
		}
	}
}

// EnforceDomainDiversity keeps at most maxPerDomain results per
// registrable domain in a single streaming pass. Callers pass results
// sorted by score descending, so a domain's slots go to its
// highest-scored entries.
func EnforceDomainDiversity(results []RawResult, maxPerDomain int) []RawResult {
	if maxPerDomain <= 0 {
		return results
	}
	counts := make(map[string]int)
	kept := make([]RawResult, 0, len(results))
	for _, r := range results {
		domain := Domain(r.URL)
		if counts[domain] >= maxPerDomain {
			continue
		}
		counts[domain]++
		kept = append(kept, r)
	}
	return kept
}

// MergeResults combines two provider batches: concatenate, dedup by URL,
// normalize scores per provider, sort by score descending, enforce the
// domain cap, and bound the batch size. Output order is deterministic for
// deterministic inputs.
func MergeResults(a, b []RawResult, opts MergeOptions) []RawResult {
	merged := make([]RawResult, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)

	merged = DeduplicateByURL(merged)
	merged = NormalizeScores(merged)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	merged = EnforceDomainDiversity(merged, opts.MaxSourcesPerDomain)

	if opts.TotalMaxResults > 0 && len(merged) > opts.TotalMaxResults {
		merged = merged[:opts.TotalMaxResults]
	}
	return merged
}

// FilterExistingURLs drops results whose normalized URL is in exclude.
func FilterExistingURLs(results []RawResult, exclude []string) []RawResult {
	if len(exclude) == 0 {
		return results
	}
	excluded := make(map[string]struct{}, len(exclude))
	for _, u := range exclude {
		excluded[NormalizeURL(u)] = struct{}{}
	}
	kept := make([]RawResult, 0, len(results))
	for _, r := range results {
		if _, ok := excluded[NormalizeURL(r.URL)]; ok {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// FilterSimilarTitles drops results whose title is at least threshold
// Jaccard-similar (word-set overlap) to any excluded title.
func FilterSimilarTitles(results []RawResult, exclude []string, threshold float64) []RawResult {
	if len(exclude) == 0 {
		return results
	}
	excludedSets := make([]map[string]struct{}, 0, len(exclude))
	for _, t := range exclude {
		excludedSets = append(excludedSets, titleWordSet(t))
	}

	kept := make([]RawResult, 0, len(results))
	for _, r := range results {
		words := titleWordSet(r.Title)
		similar := false
		for _, ex := range excludedSets {
			if jaccard(words, ex) >= threshold {
				similar = true
				break
			}
		}
		if !similar {
			kept = append(kept, r)
		}
	}
	return kept
}

func titleWordSet(title string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, `.,;:!?"'()[]`)
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// jaccard computes intersection-over-union for two word sets. Two empty
// sets are considered identical.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
