// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

func TestRunFileRoundTrip(t *testing.T) {
	out := Output{
		Queries: []string{"academic research solar energy"},
		Sources: []types.ResearchSource{
			{
				ID:       "id-1",
				Title:    "Solar Outlook",
				URL:      "https://example.com/solar",
				Author:   "Jane Doe",
				Excerpt:  "A summary.",
				Score:    0.91,
				Selected: true,
				Provider: "exa",
				Domain:   "example.com",
			},
		},
		BackendErrors: []string{"perplexity: HTTP 500"},
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := WriteRunFile(path, "solar energy", types.DocResearchPaper, out); err != nil {
		t.Fatalf("WriteRunFile: %v", err)
	}

	rf, err := ReadRunFile(path)
	if err != nil {
		t.Fatalf("ReadRunFile: %v", err)
	}

	if rf.Topic != "solar energy" {
		t.Errorf("Topic = %q, want %q", rf.Topic, "solar energy")
	}
	if rf.DocType != types.DocResearchPaper {
		t.Errorf("DocType = %q, want %q", rf.DocType, types.DocResearchPaper)
	}
	if len(rf.Sources) != 1 {
		t.Fatalf("len(Sources) = %d, want 1", len(rf.Sources))
	}
	src := rf.Sources[0]
	if src.URL != "https://example.com/solar" || src.Provider != "exa" || !src.Selected {
		t.Errorf("source fields lost in round trip: %+v", src)
	}
	if rf.Summary.Total != 1 {
		t.Errorf("Summary.Total = %d, want 1", rf.Summary.Total)
	}
	if len(rf.Summary.BackendErrors) != 1 {
		t.Errorf("len(Summary.BackendErrors) = %d, want 1", len(rf.Summary.BackendErrors))
	}
	if rf.Summary.Timestamp.IsZero() {
		t.Error("Summary.Timestamp should be set")
	}
}

func TestReadRunFileMissing(t *testing.T) {
	if _, err := ReadRunFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadRunFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("topic: [unclosed"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := ReadRunFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
