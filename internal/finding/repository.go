package finding

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/repost"
)

// Stored is a repost finding as recorded by one detection run.
type Stored struct {
	ID      int64
	RunID   string
	FoundAt time.Time
	repost.Finding
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func NewRunID() string {
	return uuid.NewString()
}

// Save records the findings of a run in order.
func (r *Repository) Save(runID string, findings []repost.Finding) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO findings (run_id, source_title, source_url, matched_title, matched_url, snippet, similarity, match_basis, target_domain)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range findings {
		if _, err := stmt.Exec(runID, f.SourceTitle, f.SourceURL, f.MatchedTitle, f.MatchedURL,
			f.Snippet, f.Similarity, string(f.Basis), f.TargetDomain); err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	return tx.Commit()
}

// ListRun returns the findings of one run in discovery order.
func (r *Repository) ListRun(runID string) ([]Stored, error) {
	return r.list(`
		SELECT id, run_id, COALESCE(source_title, ''), COALESCE(source_url, ''), COALESCE(matched_title, ''),
			matched_url, COALESCE(snippet, ''), COALESCE(similarity, 0), COALESCE(match_basis, ''), target_domain, found_at
		FROM findings WHERE run_id = ? ORDER BY id
	`, runID)
}

// Recent returns the latest findings across runs, newest first.
func (r *Repository) Recent(limit int) ([]Stored, error) {
	return r.list(`
		SELECT id, run_id, COALESCE(source_title, ''), COALESCE(source_url, ''), COALESCE(matched_title, ''),
			matched_url, COALESCE(snippet, ''), COALESCE(similarity, 0), COALESCE(match_basis, ''), target_domain, found_at
		FROM findings ORDER BY id DESC LIMIT ?
	`, limit)
}

// LatestRun returns the id of the most recent run, or "" when none exist.
func (r *Repository) LatestRun() (string, error) {
	var runID string
	err := r.db.QueryRow(`SELECT COALESCE((SELECT run_id FROM findings ORDER BY id DESC LIMIT 1), '')`).Scan(&runID)
	return runID, err
}

func (r *Repository) list(query string, args ...any) ([]Stored, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stored
	for rows.Next() {
		var s Stored
		var basis string
		if err := rows.Scan(&s.ID, &s.RunID, &s.SourceTitle, &s.SourceURL, &s.MatchedTitle, &s.MatchedURL,
			&s.Snippet, &s.Similarity, &basis, &s.TargetDomain, &s.FoundAt); err != nil {
			return nil, err
		}
		s.Basis = repost.MatchBasis(basis)
		out = append(out, s)
	}
	return out, rows.Err()
}
