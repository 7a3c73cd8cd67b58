package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/source-aggregator/internal/fetch"
	"github.com/pdiddy/source-aggregator/internal/search"
	"github.com/pdiddy/source-aggregator/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls...]",
	Short: "Fetch and extract full page content for sources",
	Long: `Fetch retrieves page content for the given URLs (or for every source
in a saved search run), extracts the readable text, and truncates it to a
word budget. Fetches run under a concurrency cap and a start-rate limit;
individual failures are reported per URL and never abort the batch.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("from-file", "", "fetch the sources of a saved run file instead of URL arguments")
	fetchCmd.Flags().Int("max-concurrent", 3, "maximum fetches in flight at once")
	fetchCmd.Flags().Int("retries", 2, "retry attempts per URL after a failure")
	fetchCmd.Flags().Int("max-words", 500, "word budget for extracted content")
	fetchCmd.Flags().Duration("timeout", 8*time.Second, "per-attempt fetch timeout")
	fetchCmd.Flags().String("out", "", "write fetch results to a YAML run file update (requires --from-file)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	fromFile, _ := cmd.Flags().GetString("from-file")

	cfg := pipelineConfig().Fetch
	if cmd.Flags().Changed("max-concurrent") {
		cfg.MaxConcurrent, _ = cmd.Flags().GetInt("max-concurrent")
	}
	if cmd.Flags().Changed("retries") {
		cfg.Retries, _ = cmd.Flags().GetInt("retries")
	}
	if cmd.Flags().Changed("max-words") {
		cfg.MaxWords, _ = cmd.Flags().GetInt("max-words")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	requests, runFile, err := collectRequests(args, fromFile)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return fmt.Errorf("provide one or more URLs or --from-file")
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	extractor := &fetch.HTMLExtractor{
		Client:    &http.Client{Timeout: cfg.Timeout + time.Second},
		UserAgent: userAgent,
		Timeout:   cfg.Timeout,
		MaxWords:  cfg.MaxWords,
	}
	fetcher, err := fetch.NewFetcher(extractor, cfg)
	if err != nil {
		return err
	}

	results := fetcher.FetchMultiple(cmd.Context(), requests)

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
			fmt.Fprintf(os.Stdout, "fetched: %s (%d words, %v)\n", r.URL, r.WordCount, r.FetchDuration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(os.Stdout, "failed:  %s (%s)\n", r.URL, r.Error)
		}
	}
	fmt.Fprintf(os.Stdout, "\nBatch summary: %d fetched, %d failed (total: %d)\n",
		succeeded, len(results)-succeeded, len(results))

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" && runFile != nil {
		applyFetchResults(runFile, results)
		if err := search.WriteRunFile(outPath, runFile.Topic, runFile.DocType, search.Output{
			Queries: runFile.Queries,
			Sources: runFile.Sources,
		}); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Updated run written to %s\n", outPath)
	}

	return nil
}

// collectRequests builds the fetch batch from URL arguments or a saved
// run file.
func collectRequests(args []string, fromFile string) ([]types.FetchRequest, *search.RunFile, error) {
	if fromFile == "" {
		requests := make([]types.FetchRequest, 0, len(args))
		for i, u := range args {
			requests = append(requests, types.FetchRequest{
				ID:  fmt.Sprintf("url-%d", i+1),
				URL: u,
			})
		}
		return requests, nil, nil
	}

	rf, err := search.ReadRunFile(fromFile)
	if err != nil {
		return nil, nil, err
	}
	requests := make([]types.FetchRequest, 0, len(rf.Sources))
	for _, s := range rf.Sources {
		if !s.Selected {
			continue
		}
		requests = append(requests, types.FetchRequest{
			ID:    s.ID,
			URL:   s.URL,
			Title: s.Title,
		})
	}
	return requests, rf, nil
}

// applyFetchResults enriches run-file sources with fetched excerpts.
func applyFetchResults(rf *search.RunFile, results []types.FetchResult) {
	byID := make(map[string]types.FetchResult, len(results))
	for _, r := range results {
		byID[r.SourceID] = r
	}
	for i, s := range rf.Sources {
		if r, ok := byID[s.ID]; ok && r.Success && r.Excerpt != "" {
			rf.Sources[i].Excerpt = r.Excerpt
		}
	}
}
