package source

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julienpequegnot/presswatch/internal/database"
)

func setupTestDB(t *testing.T) *database.DB {
	tmpDir := t.TempDir()
	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db
}

func TestAddSource(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	src, err := repo.Add("N1", "https://n1info.hr/feed/", "")
	if err != nil {
		t.Fatalf("failed to add source: %v", err)
	}

	if src.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if src.Kind != KindRSS {
		t.Errorf("expected default kind rss, got %s", src.Kind)
	}
}

func TestAddSourceInvalidKind(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := NewRepository(db).Add("X", "https://x.hr", "video"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestAddDuplicateSource(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	if _, err := repo.Add("N1", "https://n1info.hr/feed/", KindRSS); err != nil {
		t.Fatalf("failed to add source: %v", err)
	}
	if _, err := repo.Add("N1", "https://n1info.hr/feed/", KindRSS); err == nil {
		t.Error("expected error for duplicate source")
	}
}

func TestEnsure(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	added, err := repo.Ensure("Vlada", "https://vlada.gov.hr/vijesti", KindPage)
	if err != nil || !added {
		t.Fatalf("expected source to be added, got %v %v", added, err)
	}
	added, err = repo.Ensure("Vlada", "https://other", KindRSS)
	if err != nil || added {
		t.Errorf("expected existing source to be kept, got %v %v", added, err)
	}

	src, err := repo.GetByName("Vlada")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if src.Kind != KindPage || src.URL != "https://vlada.gov.hr/vijesti" {
		t.Errorf("unexpected source %+v", src)
	}
}

func TestListSources(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	repo.Add("N1", "https://n1info.hr/feed/", KindRSS)
	repo.Add("Index", "https://www.index.hr/rss", KindRSS)
	repo.Add("Ured", "https://ured.hr/izvjesce.pdf", KindPDF)

	if err := repo.SetActive("Ured", false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	sources, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("expected 2 active sources, got %d", len(sources))
	}
	if sources[0].Name != "Index" {
		t.Errorf("expected sources ordered by name, got %s", sources[0].Name)
	}
}

func TestGetByNameMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	if _, err := repo.GetByName("nema"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SetActive("nema", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
