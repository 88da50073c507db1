package source

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julienpequegnot/presswatch/internal/database"
)

// Kinds of source.
const (
	KindRSS  = "rss"
	KindPage = "page"
	KindPDF  = "pdf"
)

var ErrNotFound = errors.New("source not found")

type Source struct {
	ID          int64
	Name        string
	URL         string
	Kind        string
	LastFetched *time.Time
	Active      bool
	CreatedAt   time.Time
}

func ValidKind(kind string) bool {
	return kind == KindRSS || kind == KindPage || kind == KindPDF
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Add(name, url, kind string) (*Source, error) {
	if kind == "" {
		kind = KindRSS
	}
	if !ValidKind(kind) {
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}

	result, err := r.db.Exec(
		`INSERT INTO sources (name, url, kind, active) VALUES (?, ?, ?, TRUE)`,
		name, url, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert source: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Source{
		ID:     id,
		Name:   name,
		URL:    url,
		Kind:   kind,
		Active: true,
	}, nil
}

// Ensure adds the source unless one with the same name exists. It reports
// whether a row was added.
func (r *Repository) Ensure(name, url, kind string) (bool, error) {
	if kind == "" {
		kind = KindRSS
	}
	result, err := r.db.Exec(
		`INSERT OR IGNORE INTO sources (name, url, kind, active) VALUES (?, ?, ?, TRUE)`,
		name, url, kind,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert source: %w", err)
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (r *Repository) List() ([]Source, error) {
	rows, err := r.db.Query(`SELECT id, name, url, kind, last_fetched, active, created_at FROM sources WHERE active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.Kind, &s.LastFetched, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *Repository) GetByName(name string) (*Source, error) {
	var s Source
	err := r.db.QueryRow(
		`SELECT id, name, url, kind, last_fetched, active, created_at FROM sources WHERE name = ?`, name,
	).Scan(&s.ID, &s.Name, &s.URL, &s.Kind, &s.LastFetched, &s.Active, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetActive enables or disables a source by name.
func (r *Repository) SetActive(name string, active bool) error {
	result, err := r.db.Exec(`UPDATE sources SET active = ? WHERE name = ?`, active, name)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateLastFetched(id int64) error {
	_, err := r.db.Exec(`UPDATE sources SET last_fetched = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
