// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

// RunFile is the on-disk representation of one search run and its
// sources. A run can be saved to a file and reloaded later (e.g. to feed
// the content fetcher) without re-querying providers.
type RunFile struct {
	Topic   string                 `yaml:"topic"`
	DocType types.DocumentType     `yaml:"doc_type"`
	Queries []string               `yaml:"queries"`
	Sources []types.ResearchSource `yaml:"sources"`
	Summary RunSummary             `yaml:"summary"`
}

// RunSummary stores result statistics and a timestamp.
type RunSummary struct {
	Total         int       `yaml:"total"`
	BackendErrors []string  `yaml:"backend_errors,omitempty"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// WriteRunFile saves a search run to a YAML file.
func WriteRunFile(path, topic string, docType types.DocumentType, out Output) error {
	rf := RunFile{
		Topic:   topic,
		DocType: docType,
		Queries: out.Queries,
		Sources: out.Sources,
		Summary: RunSummary{
			Total:         len(out.Sources),
			BackendErrors: out.BackendErrors,
			Timestamp:     time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved search run from disk.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}
