package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn *sql.DB
	path string
}

func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Fetch workers write concurrently; sqlite serializes writers anyway.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: path}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Path() string {
	return db.path
}

func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'rss',
		last_fetched DATETIME,
		active BOOLEAN DEFAULT TRUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY,
		source TEXT NOT NULL,
		url TEXT NOT NULL,
		dedup_key TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		summary TEXT,
		published_at DATETIME,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		score INTEGER
	);

	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY,
		run_id TEXT NOT NULL,
		source_title TEXT,
		source_url TEXT,
		matched_title TEXT,
		matched_url TEXT NOT NULL,
		snippet TEXT,
		similarity REAL,
		match_basis TEXT,
		target_domain BOOLEAN DEFAULT FALSE,
		found_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);
	CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);

	CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts4(
		title,
		summary
	);

	CREATE TRIGGER IF NOT EXISTS articles_ai AFTER INSERT ON articles BEGIN
		INSERT INTO articles_fts(rowid, title, summary) VALUES (new.id, new.title, COALESCE(new.summary, ''));
	END;

	CREATE TRIGGER IF NOT EXISTS articles_ad AFTER DELETE ON articles BEGIN
		DELETE FROM articles_fts WHERE rowid = old.id;
	END;

	CREATE TRIGGER IF NOT EXISTS articles_au AFTER UPDATE OF title, summary ON articles BEGIN
		DELETE FROM articles_fts WHERE rowid = old.id;
		INSERT INTO articles_fts(rowid, title, summary) VALUES (new.id, new.title, COALESCE(new.summary, ''));
	END;
	`

	_, err := db.conn.Exec(schema)
	return err
}
