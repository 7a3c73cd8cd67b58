package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/source-aggregator/internal/search"
	"github.com/pdiddy/source-aggregator/internal/store"
	"github.com/pdiddy/source-aggregator/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "source-aggregator/0.1"
	defaultDataDir   = "data"
)

var searchCmd = &cobra.Command{
	Use:   "search <topic>",
	Short: "Search providers for candidate sources on a topic",
	Long: `Search expands the topic into a diversified query set, queries all
configured providers in parallel, and prints a deduplicated,
domain-diverse, relevance-ranked source list. A provider failure reduces
the result set instead of failing the search.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("doc-type", "general", "document type: research_paper, report, article, blog_post, documentation, general")
	searchCmd.Flags().String("instructions", "", "free-text refinement folded into the queries")
	searchCmd.Flags().Int("num-results", 10, "number of sources wanted")
	searchCmd.Flags().Int("max-per-domain", 2, "maximum sources per registrable domain")
	searchCmd.Flags().Bool("no-expand", false, "search with the single topic query instead of the expanded set")
	searchCmd.Flags().Bool("json", false, "output sources as JSON")
	searchCmd.Flags().String("save", "", "save the run to a YAML file")
	searchCmd.Flags().String("project", "", "persist found sources under this project")
	searchCmd.Flags().String("data-dir", defaultDataDir, "base directory for persisted data")
	searchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	topic := args[0]

	docTypeStr, _ := cmd.Flags().GetString("doc-type")
	docType, err := types.ParseDocumentType(docTypeStr)
	if err != nil {
		return err
	}

	instructions, _ := cmd.Flags().GetString("instructions")
	noExpand, _ := cmd.Flags().GetBool("no-expand")
	asJSON, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")
	project, _ := cmd.Flags().GetString("project")

	cfg := pipelineConfig()
	if cmd.Flags().Changed("num-results") {
		cfg.Search.MaxResults, _ = cmd.Flags().GetInt("num-results")
	}
	if cmd.Flags().Changed("max-per-domain") {
		cfg.Search.MaxSourcesPerDomain, _ = cmd.Flags().GetInt("max-per-domain")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Search.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Store.DataDir, _ = cmd.Flags().GetString("data-dir")
	}

	backends, err := buildBackends(cfg.Search)
	if err != nil {
		return err
	}

	out, err := search.SearchParallel(cmd.Context(), topic, backends, nil, search.Options{
		DocType:             docType,
		Instructions:        instructions,
		NumResults:          cfg.Search.MaxResults,
		MaxSourcesPerDomain: cfg.Search.MaxSourcesPerDomain,
		OverFetchFactor:     cfg.Search.OverFetchFactor,
		DisableExpansion:    noExpand,
	}, os.Stderr)
	if err != nil {
		return err
	}

	if asJSON {
		if err := search.FormatJSON(out, os.Stdout); err != nil {
			return err
		}
	} else {
		search.FormatTable(out, os.Stdout)
	}

	if savePath != "" {
		if err := search.WriteRunFile(savePath, topic, docType, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run to %s\n", savePath)
	}

	if project != "" {
		s, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		n, err := s.SaveSources(cmd.Context(), project, out.Sources)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Stored %d sources under project %s\n", n, project)
	}

	return nil
}

// buildBackends constructs a backend per enabled provider whose API key
// is available. Keys come from the config file, .secrets/, or the
// environment. At least one key must be configured.
func buildBackends(cfg types.SearchConfig) ([]search.Backend, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := &http.Client{Timeout: timeout}

	var backends []search.Backend
	if cfg.EnableExa {
		key := cfg.ExaAPIKey
		if key == "" {
			key = secretDefault("exa-api-key", os.Getenv("EXA_API_KEY"))
		}
		if key != "" {
			backends = append(backends, &search.ExaBackend{
				Client:    client,
				APIKey:    key,
				UserAgent: userAgent,
			})
		}
	}
	if cfg.EnablePerplexity {
		key := cfg.PerplexityAPIKey
		if key == "" {
			key = secretDefault("perplexity-api-key", os.Getenv("PERPLEXITY_API_KEY"))
		}
		if key != "" {
			backends = append(backends, &search.PerplexityBackend{
				Client:    client,
				APIKey:    key,
				UserAgent: userAgent,
			})
		}
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no provider API keys configured: add exa-api-key or perplexity-api-key to .secrets/ or set EXA_API_KEY / PERPLEXITY_API_KEY")
	}
	return backends, nil
}
