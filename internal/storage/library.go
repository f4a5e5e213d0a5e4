// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/brightfold/studio-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrResultNotFound is returned when a tool result doesn't exist.
	ErrResultNotFound = errors.New("tool result not found")
	// ErrArtifactNotFound is returned when a code artifact doesn't exist.
	ErrArtifactNotFound = errors.New("code artifact not found")
)

// =============================================================================
// RESULTS LIBRARY
// =============================================================================

// librarySchema holds tool results and code artifacts. Results live
// independently of their originating messages and are deleted from here
// without touching the conversation.
const librarySchema = `
CREATE TABLE IF NOT EXISTS tool_results (
	id         TEXT PRIMARY KEY,
	tool_name  TEXT NOT NULL,
	url        TEXT,
	content    TEXT NOT NULL,
	summary    TEXT NOT NULL,
	share_url  TEXT,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS code_artifacts (
	id          TEXT PRIMARY KEY,
	code        TEXT NOT NULL,
	language    TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT,
	preview     TEXT,
	created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_created ON tool_results(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_artifacts_created ON code_artifacts(created_at DESC);
`

// Library is the durable store for tool results and code artifacts.
type Library struct {
	db *sql.DB
}

// OpenLibrary opens (creating if needed) the library database at path.
func OpenLibrary(path string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(librarySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Library{db: db}, nil
}

// DefaultLibraryPath returns ~/.studio/library.db.
func DefaultLibraryPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".studio", "library.db"), nil
}

// Close releases the database handle.
func (l *Library) Close() error {
	return l.db.Close()
}

// =============================================================================
// TOOL RESULTS
// =============================================================================

// SaveResult stores a tool result.
func (l *Library) SaveResult(res *model.ToolResult) error {
	_, err := l.db.Exec(
		`INSERT OR REPLACE INTO tool_results (id, tool_name, url, content, summary, share_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.ToolName, res.URL, string(res.Content), res.Summary, res.ShareURL, res.CreatedAt,
	)
	return err
}

// GetResult loads one tool result by id.
func (l *Library) GetResult(id string) (*model.ToolResult, error) {
	row := l.db.QueryRow(
		`SELECT id, tool_name, url, content, summary, share_url, created_at
		 FROM tool_results WHERE id = ?`, id)
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	return res, err
}

// ListResults returns all tool results, most recent first.
func (l *Library) ListResults() ([]*model.ToolResult, error) {
	rows, err := l.db.Query(
		`SELECT id, tool_name, url, content, summary, share_url, created_at
		 FROM tool_results ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*model.ToolResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// DeleteResult removes a tool result from the library. The originating
// message keeps its reference; dangling references render without a link.
func (l *Library) DeleteResult(id string) error {
	res, err := l.db.Exec(`DELETE FROM tool_results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrResultNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*model.ToolResult, error) {
	var res model.ToolResult
	var content string
	var url, shareURL sql.NullString
	var created time.Time
	if err := row.Scan(&res.ID, &res.ToolName, &url, &content, &res.Summary, &shareURL, &created); err != nil {
		return nil, err
	}
	res.URL = url.String
	res.ShareURL = shareURL.String
	res.Content = []byte(content)
	res.CreatedAt = created
	return &res, nil
}

// =============================================================================
// CODE ARTIFACTS
// =============================================================================

// SaveArtifact stores a code artifact.
func (l *Library) SaveArtifact(art *model.CodeArtifact) error {
	_, err := l.db.Exec(
		`INSERT OR REPLACE INTO code_artifacts (id, code, language, title, description, preview, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		art.ID, art.Code, art.Language, art.Title, art.Description, art.Preview, art.CreatedAt,
	)
	return err
}

// GetArtifact loads one code artifact by id.
func (l *Library) GetArtifact(id string) (*model.CodeArtifact, error) {
	row := l.db.QueryRow(
		`SELECT id, code, language, title, description, preview, created_at
		 FROM code_artifacts WHERE id = ?`, id)
	art, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtifactNotFound
	}
	return art, err
}

// ListArtifacts returns all code artifacts, most recent first.
func (l *Library) ListArtifacts() ([]*model.CodeArtifact, error) {
	rows, err := l.db.Query(
		`SELECT id, code, language, title, description, preview, created_at
		 FROM code_artifacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []*model.CodeArtifact
	for rows.Next() {
		art, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, art)
	}
	return artifacts, rows.Err()
}

// DeleteArtifact removes a code artifact.
func (l *Library) DeleteArtifact(id string) error {
	res, err := l.db.Exec(`DELETE FROM code_artifacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrArtifactNotFound
	}
	return nil
}

func scanArtifact(row rowScanner) (*model.CodeArtifact, error) {
	var art model.CodeArtifact
	var description, preview sql.NullString
	var created time.Time
	if err := row.Scan(&art.ID, &art.Code, &art.Language, &art.Title, &description, &preview, &created); err != nil {
		return nil, err
	}
	art.Description = description.String
	art.Preview = preview.String
	art.CreatedAt = created
	return &art, nil
}
