// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists ranked research sources per project in SQLite.
// The engine itself holds no state; this store backs the CLI's project
// workflow and seeds exclusion sets for targeted re-research.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "sources.db"
)

// Store manages the project source SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the source database at dataDir/index/sources.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			project_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			author TEXT,
			published_date TEXT,
			excerpt TEXT,
			score REAL,
			provider TEXT NOT NULL,
			domain TEXT NOT NULL,
			selected INTEGER NOT NULL DEFAULT 1,
			UNIQUE(project_id, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sources_project ON sources(project_id, position)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveSources appends sources to a project, position-ordered after the
// project's existing sources. URLs already stored for the project are
// skipped. It returns the number of rows inserted.
func (s *Store) SaveSources(ctx context.Context, projectID string, sources []types.ResearchSource) (int, error) {
	if projectID == "" {
		return 0, fmt.Errorf("project id is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM sources WHERE project_id = ?`, projectID,
	).Scan(&next); err != nil {
		return 0, fmt.Errorf("reading max position: %w", err)
	}

	inserted := 0
	for _, src := range sources {
		published := ""
		if !src.PublishedDate.IsZero() {
			published = src.PublishedDate.Format(time.RFC3339)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO sources
			(project_id, position, id, title, url, author, published_date, excerpt, score, provider, domain, selected)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			projectID, next, src.ID, src.Title, src.URL, src.Author, published,
			src.Excerpt, src.Score, src.Provider, src.Domain, boolToInt(src.Selected),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting source %s: %w", src.URL, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			next++
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sources: %w", err)
	}
	return inserted, nil
}

// ListSources returns a project's sources in position order.
func (s *Store) ListSources(ctx context.Context, projectID string) ([]types.ResearchSource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, url, author, published_date, excerpt, score, provider, domain, selected
		FROM sources WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []types.ResearchSource
	for rows.Next() {
		var src types.ResearchSource
		var published string
		var selected int
		if err := rows.Scan(&src.ID, &src.Title, &src.URL, &src.Author, &published,
			&src.Excerpt, &src.Score, &src.Provider, &src.Domain, &selected); err != nil {
			return nil, fmt.Errorf("scanning source row: %w", err)
		}
		if published != "" {
			if t, parseErr := time.Parse(time.RFC3339, published); parseErr == nil {
				src.PublishedDate = t
			}
		}
		src.Selected = selected != 0
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// ProjectURLs returns the URLs already stored for a project, in position
// order. Targeted research seeds its exclusion set from this list.
func (s *Store) ProjectURLs(ctx context.Context, projectID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url FROM sources WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying project URLs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning URL row: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
