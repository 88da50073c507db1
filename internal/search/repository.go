package search

import (
	"database/sql"
	"time"

	"github.com/julienpequegnot/presswatch/internal/database"
)

type Result struct {
	ArticleID   int64
	Title       string
	Source      string
	URL         string
	PublishedAt time.Time
	Snippet     string
	Score       int
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Search runs a full-text query over article titles and summaries. Matches
// are ordered by relevance score, then by publication date.
func (r *Repository) Search(query string, limit int) ([]Result, error) {
	rows, err := r.db.Query(`
		SELECT
			a.id,
			a.title,
			a.source,
			a.url,
			a.published_at,
			snippet(articles_fts, '<b>', '</b>', '...', -1, 32) as snippet,
			COALESCE(a.score, 0) as score
		FROM articles_fts
		JOIN articles a ON articles_fts.rowid = a.id
		WHERE articles_fts MATCH ?
		ORDER BY COALESCE(a.score, 0) DESC, a.published_at DESC
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var sr Result
		var published sql.NullTime
		if err := rows.Scan(&sr.ArticleID, &sr.Title, &sr.Source, &sr.URL, &published, &sr.Snippet, &sr.Score); err != nil {
			return nil, err
		}
		if published.Valid {
			sr.PublishedAt = published.Time
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

func (r *Repository) RebuildIndex() error {
	// Delete all existing FTS entries
	_, err := r.db.Exec("DELETE FROM articles_fts")
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO articles_fts(rowid, title, summary)
		SELECT id, title, COALESCE(summary, '') FROM articles
	`)
	return err
}
