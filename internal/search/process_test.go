// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"math"
	"testing"
)

// --- URL normalization ---

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"https with www and slash", "https://www.Example.com/Path/", "example.com/path"},
		{"http scheme", "http://example.com/a", "example.com/a"},
		{"no scheme", "example.com/a", "example.com/a"},
		{"trailing whitespace", "  https://example.com/a  ", "example.com/a"},
		{"root url", "https://example.com/", "example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.raw); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain host", "https://example.com/post", "example.com"},
		{"subdomain collapses", "https://blog.example.com/post", "example.com"},
		{"www stripped", "https://www.example.com/", "example.com"},
		{"co.uk suffix", "https://news.bbc.co.uk/story", "bbc.co.uk"},
		{"scheme-less", "example.com/post", "example.com"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Domain(tt.raw); got != tt.want {
				t.Errorf("Domain(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// --- Deduplication ---

func TestDeduplicateByURL(t *testing.T) {
	results := []RawResult{
		{Title: "First", URL: "http://a.com/1", Provider: "exa"},
		{Title: "Same page", URL: "https://www.a.com/1/", Provider: "perplexity"},
		{Title: "Other", URL: "https://b.com/2", Provider: "exa"},
	}

	deduped := DeduplicateByURL(results)
	if len(deduped) != 2 {
		t.Fatalf("len(deduped) = %d, want 2", len(deduped))
	}
	// First seen wins.
	if deduped[0].Title != "First" {
		t.Errorf("deduped[0].Title = %q, want %q", deduped[0].Title, "First")
	}
}

func TestDeduplicateByURLIdempotent(t *testing.T) {
	results := []RawResult{
		{URL: "https://a.com/1"},
		{URL: "https://b.com/2"},
	}
	once := DeduplicateByURL(results)
	twice := DeduplicateByURL(once)
	if len(once) != len(twice) {
		t.Errorf("second pass removed results: %d -> %d", len(once), len(twice))
	}
}

// --- Score normalization ---

func TestNormalizeScoresMinMax(t *testing.T) {
	results := []RawResult{
		{URL: "https://a.com/1", Score: 0.9, HasScore: true, Provider: "exa"},
		{URL: "https://b.com/2", Score: 0.5, HasScore: true, Provider: "exa"},
		{URL: "https://c.com/3", Score: 0.1, HasScore: true, Provider: "exa"},
	}

	out := NormalizeScores(results)
	if out[0].Score != 1.0 {
		t.Errorf("max score = %f, want 1.0", out[0].Score)
	}
	if math.Abs(out[1].Score-0.5) > 1e-9 {
		t.Errorf("mid score = %f, want 0.5", out[1].Score)
	}
	if out[2].Score != 0.0 {
		t.Errorf("min score = %f, want 0.0", out[2].Score)
	}
}

func TestNormalizeScoresScorelessInScoredGroup(t *testing.T) {
	results := []RawResult{
		{URL: "https://a.com/1", Score: 0.8, HasScore: true, Provider: "exa"},
		{URL: "https://b.com/2", Provider: "exa"},
		{URL: "https://c.com/3", Score: 0.2, HasScore: true, Provider: "exa"},
	}

	out := NormalizeScores(results)
	if out[1].Score != 0.5 {
		t.Errorf("scoreless result = %f, want 0.5", out[1].Score)
	}
	if !out[1].HasScore {
		t.Error("scoreless result should gain a score")
	}
}

func TestNormalizeScoresIdenticalScores(t *testing.T) {
	results := []RawResult{
		{URL: "https://a.com/1", Score: 0.7, HasScore: true, Provider: "exa"},
		{URL: "https://b.com/2", Score: 0.7, HasScore: true, Provider: "exa"},
	}

	out := NormalizeScores(results)
	for i, r := range out {
		if r.Score != 1.0 {
			t.Errorf("out[%d].Score = %f, want 1.0 when all scores match", i, r.Score)
		}
	}
}

func TestNormalizeScoresPositionDecay(t *testing.T) {
	var results []RawResult
	for i := 0; i < 25; i++ {
		results = append(results, RawResult{
			URL:      fmt.Sprintf("https://site%d.com/p", i),
			Provider: "perplexity",
		})
	}

	out := NormalizeScores(results)
	if out[0].Score != 1.0 {
		t.Errorf("rank 0 score = %f, want 1.0", out[0].Score)
	}
	if math.Abs(out[1].Score-0.95) > 1e-9 {
		t.Errorf("rank 1 score = %f, want 0.95", out[1].Score)
	}
	// Decay floors at zero instead of going negative.
	if out[20].Score != 0.0 {
		t.Errorf("rank 20 score = %f, want 0.0", out[20].Score)
	}
	if out[24].Score != 0.0 {
		t.Errorf("rank 24 score = %f, want 0.0", out[24].Score)
	}
}

func TestNormalizeScoresPerProviderGroups(t *testing.T) {
	results := []RawResult{
		// Exa scores on an arbitrary scale.
		{URL: "https://a.com/1", Score: 18.0, HasScore: true, Provider: "exa"},
		{URL: "https://b.com/2", Score: 12.0, HasScore: true, Provider: "exa"},
		// Perplexity unscored.
		{URL: "https://c.com/3", Provider: "perplexity"},
		{URL: "https://d.com/4", Provider: "perplexity"},
	}

	out := NormalizeScores(results)
	for i, r := range out {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("out[%d].Score = %f, want within [0,1]", i, r.Score)
		}
	}
	if out[0].Score != 1.0 || out[1].Score != 0.0 {
		t.Errorf("exa group = %f, %f, want 1.0, 0.0", out[0].Score, out[1].Score)
	}
	if out[2].Score != 1.0 || math.Abs(out[3].Score-0.95) > 1e-9 {
		t.Errorf("perplexity group = %f, %f, want 1.0, 0.95", out[2].Score, out[3].Score)
	}
}

// --- Domain diversity ---

func TestEnforceDomainDiversity(t *testing.T) {
	results := []RawResult{
		{URL: "https://a.com/1", Score: 1.0},
		{URL: "https://a.com/2", Score: 0.9},
		{URL: "https://a.com/3", Score: 0.8},
		{URL: "https://b.com/1", Score: 0.7},
	}

	kept := EnforceDomainDiversity(results, 2)
	if len(kept) != 3 {
		t.Fatalf("len(kept) = %d, want 3", len(kept))
	}
	// Sorted input means the domain's slots go to its top entries.
	if kept[0].URL != "https://a.com/1" || kept[1].URL != "https://a.com/2" {
		t.Errorf("kept a.com entries = %q, %q, want the two highest-scored", kept[0].URL, kept[1].URL)
	}
	if kept[2].URL != "https://b.com/1" {
		t.Errorf("kept[2].URL = %q, want b.com entry", kept[2].URL)
	}
}

func TestEnforceDomainDiversitySubdomainsShareCap(t *testing.T) {
	results := []RawResult{
		{URL: "https://blog.example.com/1"},
		{URL: "https://docs.example.com/2"},
		{URL: "https://www.example.com/3"},
	}

	kept := EnforceDomainDiversity(results, 2)
	if len(kept) != 2 {
		t.Errorf("len(kept) = %d, want 2: subdomains count against one domain", len(kept))
	}
}

func TestEnforceDomainDiversityDisabled(t *testing.T) {
	results := []RawResult{
		{URL: "https://a.com/1"},
		{URL: "https://a.com/2"},
	}
	if kept := EnforceDomainDiversity(results, 0); len(kept) != 2 {
		t.Errorf("cap 0 should disable the filter, got %d results", len(kept))
	}
}

// --- Merge ---

func TestMergeResults(t *testing.T) {
	exa := []RawResult{
		{Title: "Alpha", URL: "http://a.com/1", Score: 0.9, HasScore: true, Provider: "exa"},
		{Title: "Beta", URL: "https://b.com/1", Score: 0.3, HasScore: true, Provider: "exa"},
	}
	perplexity := []RawResult{
		{Title: "Alpha again", URL: "https://www.a.com/1/", Provider: "perplexity"},
		{Title: "Gamma", URL: "https://c.com/1", Provider: "perplexity"},
	}

	merged := MergeResults(exa, perplexity, MergeOptions{MaxSourcesPerDomain: 2, TotalMaxResults: 10})
	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3 after dedup", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].Score > merged[i-1].Score {
			t.Errorf("results not sorted: [%d].Score=%f > [%d].Score=%f",
				i, merged[i].Score, i-1, merged[i-1].Score)
		}
	}
	for i, r := range merged {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("merged[%d].Score = %f, want within [0,1]", i, r.Score)
		}
	}
}

func TestMergeResultsTotalCap(t *testing.T) {
	var results []RawResult
	for i := 0; i < 30; i++ {
		results = append(results, RawResult{
			URL:      fmt.Sprintf("https://site%d.com/p", i),
			Score:    float64(30-i) / 30.0,
			HasScore: true,
			Provider: "exa",
		})
	}

	merged := MergeResults(results, nil, MergeOptions{MaxSourcesPerDomain: 2, TotalMaxResults: 10})
	if len(merged) != 10 {
		t.Errorf("len(merged) = %d, want 10", len(merged))
	}
}

// --- Exclusion filters ---

func TestFilterExistingURLs(t *testing.T) {
	results := []RawResult{
		{URL: "https://a.com/1"},
		{URL: "https://b.com/2"},
	}

	kept := FilterExistingURLs(results, []string{"http://www.a.com/1/"})
	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	if kept[0].URL != "https://b.com/2" {
		t.Errorf("kept[0].URL = %q, want b.com entry", kept[0].URL)
	}
}

func TestFilterSimilarTitles(t *testing.T) {
	results := []RawResult{
		{Title: "The Future Of Solar Energy ", URL: "https://a.com/1"},
		{Title: "Wind Power Economics", URL: "https://b.com/2"},
	}

	kept := FilterSimilarTitles(results, []string{"The Future of Solar Energy"}, 0.85)
	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	if kept[0].Title != "Wind Power Economics" {
		t.Errorf("kept[0].Title = %q, want the dissimilar title", kept[0].Title)
	}
}

func TestFilterSimilarTitlesBelowThreshold(t *testing.T) {
	results := []RawResult{
		{Title: "Solar Energy in Rural India", URL: "https://a.com/1"},
	}
	kept := FilterSimilarTitles(results, []string{"Wind Turbines of Northern Europe"}, 0.85)
	if len(kept) != 1 {
		t.Errorf("dissimilar title should survive, got %d results", len(kept))
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "solar energy future", "solar energy future", 1.0},
		{"case and punctuation ignored", "Solar Energy!", "solar energy", 1.0},
		{"disjoint", "solar energy", "wind turbines", 0.0},
		{"both empty", "", "", 1.0},
		{"half overlap", "solar energy", "solar power", 1.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccard(titleWordSet(tt.a), titleWordSet(tt.b))
			if got != tt.want {
				t.Errorf("jaccard(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
