package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/source-aggregator/internal/search"
	"github.com/pdiddy/source-aggregator/internal/store"
	"github.com/pdiddy/source-aggregator/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research --project <id> <queries...>",
	Short: "Run targeted gap-filling searches for a project",
	Long: `Research runs targeted queries sequentially to fill gaps identified
from user feedback. Sources already stored for the project are excluded,
and every source found by an earlier query is excluded from later ones,
so nothing surfaces twice. New sources are appended to the project.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("project", "", "project whose sources seed the exclusion set (required)")
	researchCmd.Flags().String("doc-type", "general", "document type for provider category hints")
	researchCmd.Flags().String("data-dir", defaultDataDir, "base directory for persisted data")
	researchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	researchCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	docTypeStr, _ := cmd.Flags().GetString("doc-type")

	docType, err := types.ParseDocumentType(docTypeStr)
	if err != nil {
		return err
	}

	cfg := pipelineConfig()
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

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	existing, err := s.ProjectURLs(cmd.Context(), project)
	if err != nil {
		return err
	}

	results := search.ConductTargetedResearch(cmd.Context(), args, backends, docType, existing, os.Stderr)
	search.FormatTargeted(results, os.Stdout)

	var found []types.ResearchSource
	for _, r := range results {
		found = append(found, r.Sources...)
	}
	if len(found) > 0 {
		n, err := s.SaveSources(cmd.Context(), project, found)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Stored %d new sources under project %s\n", n, project)
	}

	return nil
}
