// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search locates, merges, and ranks candidate web sources across
// multiple search providers.
package search

import (
	"context"
	"time"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

// Backend searches a single external provider. Each backend (Exa,
// Perplexity) implements this interface per the Strategy pattern.
type Backend interface {
	Name() string
	Search(ctx context.Context, queries []string, opts BackendOptions) ([]RawResult, error)
}

// BackendOptions carries per-call search parameters.
type BackendOptions struct {
	// MaxResults is the number of results requested from the provider.
	MaxResults int

	// DocType selects provider-specific category hints.
	DocType types.DocumentType

	// DomainFilter restricts results to the given domains when non-empty.
	DomainFilter []string
}

// RawResult is a single search hit in near-provider shape, before
// normalization. Score is present only for providers that return one.
type RawResult struct {
	ID       string
	Title    string
	URL      string
	Snippet  string
	Author   string
	Date     time.Time
	Score    float64
	HasScore bool
	Provider string
}
