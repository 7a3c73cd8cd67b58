package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/source-aggregator/internal/store"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources --project <id>",
	Short: "List the sources stored for a project",
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().String("project", "", "project to list (required)")
	sourcesCmd.Flags().String("data-dir", defaultDataDir, "base directory for persisted data")
	sourcesCmd.Flags().Bool("json", false, "output sources as JSON")
	sourcesCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	asJSON, _ := cmd.Flags().GetBool("json")

	storeCfg := pipelineConfig().Store
	if cmd.Flags().Changed("data-dir") {
		storeCfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}

	s, err := store.NewStore(storeCfg)
	if err != nil {
		return err
	}
	defer s.Close()

	sources, err := s.ListSources(cmd.Context(), project)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sources)
	}

	if len(sources) == 0 {
		fmt.Println("No sources stored for project", project)
		return nil
	}

	fmt.Printf("%-4s  %-56s  %-24s  %-10s  %s\n", "Pos", "Title", "Domain", "Provider", "Selected")
	fmt.Println(strings.Repeat("-", 110))
	for i, src := range sources {
		title := src.Title
		if runes := []rune(title); len(runes) > 56 {
			title = string(runes[:53]) + "..."
		}
		fmt.Printf("%-4d  %-56s  %-24s  %-10s  %v\n", i+1, title, src.Domain, src.Provider, src.Selected)
	}
	fmt.Printf("\n%d sources\n", len(sources))
	return nil
}
