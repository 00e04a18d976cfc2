// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists completed pipeline results for the CLI.
//
// This is a convenience layer outside the pipeline core: the pipeline itself
// holds nothing beyond the request, and results reach the archive only when
// the caller explicitly saves them.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/answer-engine/pkg/types"
)

const defaultDBFile = "answers.db"

// Store manages the SQLite answer archive.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at cfg.Path, creating the
// schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBFile
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS answers (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			refined_query TEXT NOT NULL,
			final_answer_html TEXT NOT NULL,
			web_results TEXT NOT NULL,
			literature_results TEXT NOT NULL,
			degraded TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_created_at ON answers(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save inserts one pipeline result. Saving the same result twice is an error
// (results are immutable, so there is nothing to update).
func (s *Store) Save(ctx context.Context, r *types.PipelineResult) error {
	web, err := json.Marshal(r.WebResults)
	if err != nil {
		return fmt.Errorf("encoding web results: %w", err)
	}
	lit, err := json.Marshal(r.LiteratureResults)
	if err != nil {
		return fmt.Errorf("encoding literature results: %w", err)
	}
	degraded, err := json.Marshal(r.Degraded)
	if err != nil {
		return fmt.Errorf("encoding degraded flags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO answers
			(id, question, refined_query, final_answer_html,
			 web_results, literature_results, degraded, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Question, r.RefinedQuery, r.FinalAnswerHTML,
		string(web), string(lit), string(degraded),
		r.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting answer %s: %w", r.ID, err)
	}
	return nil
}

// Summary is one archived answer's listing row.
type Summary struct {
	ID        string    `json:"id" yaml:"id"`
	Question  string    `json:"question" yaml:"question"`
	Degraded  bool      `json:"degraded" yaml:"degraded"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// List returns the most recent archived answers, newest first. A zero limit
// returns up to 20.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, degraded, created_at
		 FROM answers ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			sum          Summary
			degradedJSON string
			createdAt    string
		)
		if err := rows.Scan(&sum.ID, &sum.Question, &degradedJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning answer row: %w", err)
		}

		var d types.Degraded
		if err := json.Unmarshal([]byte(degradedJSON), &d); err != nil {
			return nil, fmt.Errorf("decoding degraded flags: %w", err)
		}
		sum.Degraded = d.Any()

		if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			sum.CreatedAt = t
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Get loads one archived answer by ID.
func (s *Store) Get(ctx context.Context, id string) (*types.PipelineResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, refined_query, final_answer_html,
			web_results, literature_results, degraded, created_at
		 FROM answers WHERE id = ?`, id)

	var (
		r                              types.PipelineResult
		webJSON, litJSON, degradedJSON string
		createdAt                      string
	)
	err := row.Scan(&r.ID, &r.Question, &r.RefinedQuery, &r.FinalAnswerHTML,
		&webJSON, &litJSON, &degradedJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("answer %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading answer %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(webJSON), &r.WebResults); err != nil {
		return nil, fmt.Errorf("decoding web results: %w", err)
	}
	if err := json.Unmarshal([]byte(litJSON), &r.LiteratureResults); err != nil {
		return nil, fmt.Errorf("decoding literature results: %w", err)
	}
	if err := json.Unmarshal([]byte(degradedJSON), &r.Degraded); err != nil {
		return nil, fmt.Errorf("decoding degraded flags: %w", err)
	}
	if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		r.Timestamp = t
	}
	return &r, nil
}
