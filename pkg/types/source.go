// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the source-aggregator engine.
package types

import (
	"fmt"
	"time"
)

// DocumentType identifies the kind of document being researched. It
// selects query-expansion prefixes and provider category hints.
type DocumentType string

const (
	DocResearchPaper DocumentType = "research_paper"
	DocReport        DocumentType = "report"
	DocArticle       DocumentType = "article"
	DocBlogPost      DocumentType = "blog_post"
	DocDocumentation DocumentType = "documentation"
	DocGeneral       DocumentType = "general"
)

// ParseDocumentType converts a string into a DocumentType, returning an
// error for unknown values. The empty string maps to DocGeneral.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocResearchPaper, DocReport, DocArticle, DocBlogPost, DocDocumentation, DocGeneral:
		return DocumentType(s), nil
	case "":
		return DocGeneral, nil
	default:
		return "", fmt.Errorf("unknown document type %q", s)
	}
}

// ResearchSource is the externally consumed shape of one candidate web
// source. It is what downstream generation and persistence see.
type ResearchSource struct {
	// ID is a generated unique identifier for this source.
	ID string `json:"id" yaml:"id"`

	// Title is the page title, never empty (placeholders are synthesized
	// for untitled results).
	Title string `json:"title" yaml:"title"`

	// URL is the source URL as returned by the provider.
	URL string `json:"url" yaml:"url"`

	// Author is a best-effort author attribution, possibly empty.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// PublishedDate is the publication date if the provider reported one.
	PublishedDate time.Time `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// Excerpt is the provider snippet or, after content fetching, the
	// opening of the extracted full text.
	Excerpt string `json:"excerpt" yaml:"excerpt"`

	// Score is the normalized relevance score in [0,1].
	Score float64 `json:"score" yaml:"score"`

	// Selected reports whether the source is included in generation.
	// New sources default to true.
	Selected bool `json:"selected" yaml:"selected"`

	// Provider identifies which search backend found this source.
	Provider string `json:"provider" yaml:"provider"`

	// Domain is the registrable domain of the URL (e.g. "example.com").
	Domain string `json:"domain" yaml:"domain"`
}

// FetchRequest asks the content fetcher to retrieve full text for one source.
type FetchRequest struct {
	ID    string `json:"id" yaml:"id"`
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title" yaml:"title"`
}

// FetchResult is the outcome of one content fetch. Exactly one FetchResult
// is produced per FetchRequest; failures are recorded, never raised.
type FetchResult struct {
	// SourceID matches the FetchRequest ID.
	SourceID string `json:"source_id" yaml:"source_id"`

	// URL is the requested URL.
	URL string `json:"url" yaml:"url"`

	// Success reports whether extraction produced content.
	Success bool `json:"success" yaml:"success"`

	// Content is the extracted plain/markdown text, truncated to the
	// configured word budget. Empty when Success is false.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Excerpt is the first part of Content (at most 200 words).
	Excerpt string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`

	// WordCount is the number of words in Content.
	WordCount int `json:"word_count,omitempty" yaml:"word_count,omitempty"`

	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// FetchDuration is the wall time spent on this request, including retries.
	FetchDuration time.Duration `json:"fetch_duration" yaml:"fetch_duration"`
}

// TargetedSearchResult is the outcome of one feedback-driven query.
type TargetedSearchResult struct {
	// Query is the targeted search query as given by the caller.
	Query string `json:"query" yaml:"query"`

	// Sources are the new, previously unseen sources found for the query.
	Sources []ResearchSource `json:"sources" yaml:"sources"`

	// Rationale is a human-readable account of what the query found.
	Rationale string `json:"rationale" yaml:"rationale"`
}
