// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pdiddy/source-aggregator/internal/httputil"
	"github.com/pdiddy/source-aggregator/pkg/types"
)

// Extractor retrieves readable text for one URL. *HTMLExtractor is the
// production implementation; tests substitute fakes.
type Extractor interface {
	Extract(ctx context.Context, url string) (Extraction, error)
}

// Fetcher runs batches of content fetches under a concurrency cap, a
// start-rate limit, and per-request retry with backoff.
type Fetcher struct {
	extractor     Extractor
	limiter       *rate.Limiter
	maxConcurrent int
	retries       int
}

// NewFetcher validates the configuration and builds a Fetcher. A
// non-positive MaxConcurrent is a programmer error and fails
// synchronously; all I/O failures later surface inside FetchResults.
func NewFetcher(extractor Extractor, cfg types.FetchConfig) (*Fetcher, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor is nil")
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent == 0 {
		maxConcurrent = 3
	}
	if maxConcurrent < 0 {
		return nil, fmt.Errorf("max_concurrent must be positive, got %d", cfg.MaxConcurrent)
	}
	retries := cfg.Retries
	if retries < 0 {
		return nil, fmt.Errorf("retries must be non-negative, got %d", cfg.Retries)
	}
	if retries == 0 {
		retries = 2
	}
	burst := cfg.BurstPerSecond
	if burst <= 0 {
		burst = 5
	}

	return &Fetcher{
		extractor:     extractor,
		limiter:       rate.NewLimiter(rate.Limit(burst), burst),
		maxConcurrent: maxConcurrent,
		retries:       retries,
	}, nil
}

// FetchMultiple fetches every request and returns exactly one FetchResult
// per request, in request order. Individual failures are captured into
// the result's Error field; FetchMultiple itself never fails and always
// returns the full batch.
func (f *Fetcher) FetchMultiple(ctx context.Context, requests []types.FetchRequest) []types.FetchResult {
	results := make([]types.FetchResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	for i, req := range requests {
		g.Go(func() error {
			results[i] = f.fetchOne(gctx, req)
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()
	return results
}

// fetchOne runs one extraction with rate-limited admission and bounded
// retries. Exhausted retries become a failure result, not an error.
func (f *Fetcher) fetchOne(ctx context.Context, req types.FetchRequest) types.FetchResult {
	start := time.Now()
	result := types.FetchResult{
		SourceID: req.ID,
		URL:      req.URL,
	}

	if err := f.limiter.Wait(ctx); err != nil {
		result.Error = fmt.Sprintf("waiting for fetch slot: %v", err)
		result.FetchDuration = time.Since(start)
		return result
	}

	var extraction Extraction
	err := httputil.Retry(ctx, f.retries, func() error {
		var attemptErr error
		extraction, attemptErr = f.extractor.Extract(ctx, req.URL)
		return attemptErr
	})
	result.FetchDuration = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Content = extraction.Content
	result.Excerpt = extraction.Excerpt
	result.WordCount = extraction.WordCount
	return result
}
