// internal/article/repository.go
package article

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julienpequegnot/presswatch/internal/database"
)

// Item is a single news entry as seen by the scoring pipeline.
// Score is nil until the item has been scored and kept.
type Item struct {
	ID          int64
	Title       string
	Summary     string
	Link        string
	Source      string
	PublishedAt time.Time
	FetchedAt   time.Time
	Score       *int
}

// ScoreValue returns the score or 0 when the item is unscored.
func (it Item) ScoreValue() int {
	if it.Score == nil {
		return 0
	}
	return *it.Score
}

var ErrNotFound = errors.New("article not found")

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts items keyed by their dedup key. Items whose key is already
// stored are skipped so the first stored copy wins. Returns the number of
// rows actually inserted.
func (r *Repository) Save(items []Item, key func(Item) string) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO articles (source, url, dedup_key, title, summary, published_at, score)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, it := range items {
		var score sql.NullInt64
		if it.Score != nil {
			score = sql.NullInt64{Int64: int64(*it.Score), Valid: true}
		}
		res, err := stmt.Exec(it.Source, it.Link, key(it), it.Title, it.Summary, it.PublishedAt.UTC(), score)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert article: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit articles: %w", err)
	}
	return inserted, nil
}

func (r *Repository) Exists(key string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE dedup_key = ?`, key).Scan(&count)
	return count > 0, err
}

// Keys returns every stored dedup key, used to seed deduplication of new batches.
func (r *Repository) Keys() ([]string, error) {
	rows, err := r.db.Query(`SELECT dedup_key FROM articles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// ListBetween returns articles published on calendar days in [from, to]
// (UTC), optionally restricted to the given sources.
func (r *Repository) ListBetween(from, to time.Time, sources []string) ([]Item, error) {
	query := `
		SELECT id, source, url, title, COALESCE(summary, ''), published_at, fetched_at, score
		FROM articles
		WHERE date(published_at) BETWEEN ? AND ?`
	args := []any{from.Format("2006-01-02"), to.Format("2006-01-02")}

	if len(sources) > 0 {
		query += ` AND source IN (?` + strings.Repeat(", ?", len(sources)-1) + `)`
		for _, s := range sources {
			args = append(args, s)
		}
	}
	query += ` ORDER BY published_at DESC`

	return r.list(query, args...)
}

func (r *Repository) List(limit, offset int) ([]Item, error) {
	return r.list(`
		SELECT id, source, url, title, COALESCE(summary, ''), published_at, fetched_at, score
		FROM articles
		ORDER BY published_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
}

func (r *Repository) ListSorted(limit, offset int, sortBy string) ([]Item, error) {
	orderClause := "ORDER BY published_at DESC"
	switch sortBy {
	case "score":
		orderClause = "ORDER BY COALESCE(score, 0) DESC, published_at DESC"
	case "source":
		orderClause = "ORDER BY source ASC, published_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, source, url, title, COALESCE(summary, ''), published_at, fetched_at, score
		FROM articles
		%s
		LIMIT ? OFFSET ?
	`, orderClause)

	return r.list(query, limit, offset)
}

func (r *Repository) UpdateScore(id int64, score *int) error {
	var v sql.NullInt64
	if score != nil {
		v = sql.NullInt64{Int64: int64(*score), Valid: true}
	}
	_, err := r.db.Exec(`UPDATE articles SET score = ? WHERE id = ?`, v, id)
	return err
}

// Get returns one article, or ErrNotFound.
func (r *Repository) Get(id int64) (*Item, error) {
	items, err := r.list(`
		SELECT id, source, url, title, COALESCE(summary, ''), published_at, fetched_at, score
		FROM articles WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

func (r *Repository) list(query string, args ...any) ([]Item, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var published, fetched sql.NullTime
		var score sql.NullInt64
		if err := rows.Scan(&it.ID, &it.Source, &it.Link, &it.Title, &it.Summary, &published, &fetched, &score); err != nil {
			return nil, err
		}
		if published.Valid {
			it.PublishedAt = published.Time
		}
		if fetched.Valid {
			it.FetchedAt = fetched.Time
		}
		if score.Valid {
			s := int(score.Int64)
			it.Score = &s
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
