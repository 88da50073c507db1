package cmd

import (
	"testing"
	"time"

	"github.com/julienpequegnot/presswatch/internal/config"
)

func TestFilterCriteria(t *testing.T) {
	cfg := config.Default()
	cfg.Profiles = []config.Profile{
		{Name: "Porezi", Keywords: []string{"pdv"}},
		{Name: "Mirovine", Keywords: []string{"mirovine"}},
	}

	f := filterFlags{profiles: []string{"Mirovine"}, keywords: "hzmo, ", exclude: "sport, nogomet"}
	c := f.criteria(cfg)

	if len(c.BaseKeywords) != 2 || c.BaseKeywords[0] != "mirovine" || c.BaseKeywords[1] != "hzmo" {
		t.Errorf("unexpected base keywords %v", c.BaseKeywords)
	}
	if len(c.Exclude) != 2 || c.Exclude[1] != "nogomet" {
		t.Errorf("expected command line excludes, got %v", c.Exclude)
	}
	if len(c.NiceToHave) != len(cfg.Filter.NiceToHave) {
		t.Errorf("expected configured nice-to-have phrases, got %v", c.NiceToHave)
	}
}

func TestFilterPeriod(t *testing.T) {
	cfg := config.Default()
	cfg.Filter.LookbackDays = 2
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	from, to, err := (&filterFlags{}).period(cfg, now)
	if err != nil {
		t.Fatalf("period failed: %v", err)
	}
	if from.Format(dateLayout) != "2025-03-09" || to.Format(dateLayout) != "2025-03-10" {
		t.Errorf("unexpected default period %s..%s", from.Format(dateLayout), to.Format(dateLayout))
	}

	f := filterFlags{from: "2025-03-01", to: "2025-03-05"}
	from, to, err = f.period(cfg, now)
	if err != nil {
		t.Fatalf("period failed: %v", err)
	}
	if from.Day() != 1 || to.Day() != 5 {
		t.Errorf("unexpected explicit period %v..%v", from, to)
	}

	if _, _, err := (&filterFlags{from: "2025-03-06", to: "2025-03-05"}).period(cfg, now); err == nil {
		t.Error("expected error for reversed period")
	}
	if _, _, err := (&filterFlags{to: "10.3.2025"}).period(cfg, now); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestInPeriod(t *testing.T) {
	from := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	if !inPeriod(time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), from, to) {
		t.Error("expected last day to be included")
	}
	if inPeriod(time.Date(2025, 3, 8, 23, 59, 0, 0, time.UTC), from, to) {
		t.Error("expected earlier day to be excluded")
	}
}
