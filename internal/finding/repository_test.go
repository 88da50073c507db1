package finding

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/repost"
)

func setupTestDB(t *testing.T) *database.DB {
	tmpDir := t.TempDir()
	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db
}

func TestSaveAndListRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	runID := NewRunID()
	if _, err := uuid.Parse(runID); err != nil {
		t.Fatalf("expected a UUID run id, got %q", runID)
	}

	findings := []repost.Finding{
		{SourceTitle: "Porezi", SourceURL: "https://ured.hr/p", MatchedTitle: "Prenosimo", MatchedURL: "https://portal.hr/a", Similarity: 0.82, Basis: repost.BasisFull},
		{SourceTitle: "Porezi", SourceURL: "https://ured.hr/p", MatchedURL: "https://lidermedia.hr/b", Snippet: "porezna reforma", Basis: repost.BasisSnippet, TargetDomain: true},
	}
	if err := repo.Save(runID, findings); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(NewRunID(), findings[:1]); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.ListRun(runID)
	if err != nil {
		t.Fatalf("ListRun failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got))
	}
	if got[0].MatchedURL != "https://portal.hr/a" || got[0].Basis != repost.BasisFull || got[0].Similarity != 0.82 {
		t.Errorf("unexpected first finding %+v", got[0])
	}
	if !got[1].TargetDomain || got[1].Basis != repost.BasisSnippet {
		t.Errorf("unexpected second finding %+v", got[1])
	}
}

func TestRecentAndLatestRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	if id, err := repo.LatestRun(); err != nil || id != "" {
		t.Fatalf("expected no runs, got %q %v", id, err)
	}

	repo.Save("run-1", []repost.Finding{{MatchedURL: "https://a.hr"}})
	repo.Save("run-2", []repost.Finding{{MatchedURL: "https://b.hr"}})

	if id, _ := repo.LatestRun(); id != "run-2" {
		t.Errorf("expected run-2, got %q", id)
	}
	recent, err := repo.Recent(1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 1 || recent[0].MatchedURL != "https://b.hr" {
		t.Errorf("unexpected recent findings %+v", recent)
	}
}
