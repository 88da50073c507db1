package scorer

import (
	"testing"
	"time"

	"github.com/julienpequegnot/presswatch/internal/article"
)

var refDate = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func taxItem() article.Item {
	return article.Item{
		Title:       "Porezna reforma donosi nove stope PDV-a",
		Summary:     "Vlada najavljuje promjene poreza.",
		Link:        "https://n1info.hr/porezna-reforma",
		Source:      "N1",
		PublishedAt: refDate.AddDate(0, 0, -1),
	}
}

func taxCriteria() Criteria {
	return Criteria{
		MustHave:     []string{"porezna reforma"},
		NiceToHave:   []string{"vlada"},
		BaseKeywords: []string{"pdv"},
		Exclude:      []string{"sport"},
	}
}

func TestScoreWeightedExample(t *testing.T) {
	s := NewRelevanceScorer(taxCriteria())

	score, ok := s.Score(taxItem(), refDate)
	if !ok {
		t.Fatal("expected item to be kept")
	}
	// must-have in title 5, base in title 3, nice in summary 1, recency 4
	if score != 13 {
		t.Errorf("expected score 13, got %d", score)
	}
}

func TestScoreExcludeDominates(t *testing.T) {
	c := taxCriteria()
	c.Exclude = []string{"porezna"}
	s := NewRelevanceScorer(c)

	if score, ok := s.Score(taxItem(), refDate); ok {
		t.Errorf("expected rejection, got score %d", score)
	}
}

func TestScoreExcludeInSummary(t *testing.T) {
	item := taxItem()
	item.Summary = "Vlada i SPORT"
	s := NewRelevanceScorer(taxCriteria())

	if _, ok := s.Score(item, refDate); ok {
		t.Error("expected exclude phrase in summary to reject")
	}
}

func TestScoreMustHaveAcrossFields(t *testing.T) {
	c := Criteria{MustHave: []string{"porezna reforma", "vlada"}}
	s := NewRelevanceScorer(c)

	score, ok := s.Score(taxItem(), refDate)
	if !ok {
		t.Fatal("expected must-have phrases split across title and summary to pass")
	}
	// 5 (title) + 3 (summary) + 4 recency
	if score != 12 {
		t.Errorf("expected 12, got %d", score)
	}

	c.MustHave = append(c.MustHave, "mirovine")
	if _, ok := NewRelevanceScorer(c).Score(taxItem(), refDate); ok {
		t.Error("expected missing must-have phrase to reject")
	}
}

func TestScoreIgnoresBlankPhrases(t *testing.T) {
	c := taxCriteria()
	c.MustHave = append(c.MustHave, "", "   ")
	c.BaseKeywords = append(c.BaseKeywords, "")
	c.Exclude = append(c.Exclude, " ")

	score, ok := NewRelevanceScorer(c).Score(taxItem(), refDate)
	if !ok || score != 13 {
		t.Errorf("expected blank phrases to be ignored (13), got %d ok=%v", score, ok)
	}

	if !(Criteria{MustHave: []string{""}, NiceToHave: []string{" "}}).Empty() {
		t.Error("expected criteria with only blank phrases to be empty")
	}
}

func TestScoreSoftGate(t *testing.T) {
	s := NewRelevanceScorer(Criteria{BaseKeywords: []string{"mirovine"}})

	// Fresh item with no hits only has a recency bonus.
	item := taxItem()
	item.PublishedAt = refDate
	if _, ok := s.Score(item, refDate); ok {
		t.Error("expected item without base or nice hits to be rejected")
	}
}

func TestScoreSoftGateNiceOnly(t *testing.T) {
	s := NewRelevanceScorer(Criteria{NiceToHave: []string{"vlada"}})

	score, ok := s.Score(taxItem(), refDate)
	if !ok || score != 5 {
		t.Errorf("expected nice hit to pass gate with score 5, got %d ok=%v", score, ok)
	}
}

func TestScoreRepeatedPhrasesCountTwice(t *testing.T) {
	s := NewRelevanceScorer(Criteria{BaseKeywords: []string{"pdv", "pdv"}})
	item := taxItem()
	item.PublishedAt = refDate.AddDate(0, 0, -10)

	score, ok := s.Score(item, refDate)
	if !ok || score != 6 {
		t.Errorf("expected repeated phrase to count twice (6), got %d ok=%v", score, ok)
	}
}

// Substring matching is intentionally not word-boundary aware.
func TestScoreSubstringMatch(t *testing.T) {
	s := NewRelevanceScorer(Criteria{BaseKeywords: []string{"taxes"}})
	item := article.Item{Title: "Taxesonomy explained", PublishedAt: refDate.AddDate(0, 0, -30)}

	score, ok := s.Score(item, refDate)
	if !ok || score != 3 {
		t.Errorf("expected substring hit worth 3, got %d ok=%v", score, ok)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	s := NewRelevanceScorer(taxCriteria())
	first, ok1 := s.Score(taxItem(), refDate)
	second, ok2 := s.Score(taxItem(), refDate)
	if first != second || ok1 != ok2 {
		t.Errorf("expected identical results, got %d/%v and %d/%v", first, ok1, second, ok2)
	}
}

func TestRecencyBonus(t *testing.T) {
	tests := []struct {
		name string
		age  int
		want int
	}{
		{"future", -3, 5},
		{"same day", 0, 5},
		{"one day", 1, 4},
		{"four days", 4, 1},
		{"five days", 5, 0},
		{"old", 40, 0},
	}

	prev := maxRecencyBonus
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecencyBonus(refDate.AddDate(0, 0, -tt.age), refDate)
			if got != tt.want {
				t.Errorf("age %d: expected %d, got %d", tt.age, tt.want, got)
			}
			if got > prev {
				t.Errorf("bonus increased with age: %d > %d", got, prev)
			}
			prev = got
		})
	}
}

func TestRecencyBonusUsesCalendarDays(t *testing.T) {
	// 23:30 the previous day is one calendar day old even though under 24h.
	published := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)
	ref := time.Date(2025, 3, 10, 0, 15, 0, 0, time.UTC)
	if got := RecencyBonus(published, ref); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
}

func TestRecencyBonusZeroTime(t *testing.T) {
	if got := RecencyBonus(time.Time{}, refDate); got != 0 {
		t.Errorf("expected missing timestamp to get no bonus, got %d", got)
	}
}

func TestFilterAndRank(t *testing.T) {
	s := NewRelevanceScorer(Criteria{BaseKeywords: []string{"pdv"}, Exclude: []string{"sport"}})

	items := []article.Item{
		{Title: "PDV", PublishedAt: refDate.AddDate(0, 0, -10)},
		{Title: "PDV sport", PublishedAt: refDate},
		{Title: "PDV PDV", PublishedAt: refDate.AddDate(0, 0, -10)},
		{Title: "PDV novo", PublishedAt: refDate.AddDate(0, 0, -9)},
		{Title: "Nista", PublishedAt: refDate},
	}

	got := s.Filter(items, refDate)
	if len(got) != 3 {
		t.Fatalf("expected 3 kept items, got %d", len(got))
	}
	if got[0].Title != "PDV PDV" {
		t.Errorf("expected highest score first, got %s", got[0].Title)
	}
	// Equal scores fall back to newest first.
	if got[1].Title != "PDV novo" || got[2].Title != "PDV" {
		t.Errorf("unexpected tie-break order: %s, %s", got[1].Title, got[2].Title)
	}
	for _, it := range got {
		if it.Score == nil || *it.Score < 1 {
			t.Errorf("kept item %q without positive score", it.Title)
		}
	}
	if items[0].Score != nil {
		t.Error("Filter must not modify its input")
	}
}
