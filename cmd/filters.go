package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/match"
	"github.com/julienpequegnot/presswatch/internal/scorer"
)

const dateLayout = "2006-01-02"

// filterFlags are the selection options shared by fetch, score and report.
type filterFlags struct {
	profiles []string
	sources  []string
	keywords string
	must     string
	nice     string
	exclude  string
	from     string
	to       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&f.profiles, "profile", "p", nil, "Keyword profiles to use (default: all)")
	flags.StringSliceVarP(&f.sources, "source", "s", nil, "Restrict to these sources")
	flags.StringVar(&f.keywords, "keywords", "", "Extra base keywords, comma separated")
	flags.StringVar(&f.must, "must", "", "Phrases that must all appear, comma separated")
	flags.StringVar(&f.nice, "nice", "", "Phrases that raise the score, comma separated")
	flags.StringVar(&f.exclude, "exclude", "", "Phrases that reject an article, comma separated")
	flags.StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&f.to, "to", "", "End date (YYYY-MM-DD, default today)")
}

// criteria merges the configured filter with the command line. Flags given
// on the command line replace the configured phrase lists.
func (f *filterFlags) criteria(cfg *config.Config) scorer.Criteria {
	c := scorer.Criteria{
		MustHave:     cfg.Filter.MustHave,
		NiceToHave:   cfg.Filter.NiceToHave,
		Exclude:      cfg.Filter.Exclude,
		BaseKeywords: append(cfg.ProfileKeywords(f.profiles), cfg.Filter.Keywords...),
	}
	if f.must != "" {
		c.MustHave = match.ParseList(f.must)
	}
	if f.nice != "" {
		c.NiceToHave = match.ParseList(f.nice)
	}
	if f.exclude != "" {
		c.Exclude = match.ParseList(f.exclude)
	}
	c.BaseKeywords = append(c.BaseKeywords, match.ParseList(f.keywords)...)
	return c
}

// period returns the inclusive date range. The end defaults to today and
// the start to the configured lookback before it.
func (f *filterFlags) period(cfg *config.Config, now time.Time) (time.Time, time.Time, error) {
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if f.to != "" {
		t, err := time.ParseInLocation(dateLayout, f.to, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		to = t
	}

	from := to.AddDate(0, 0, -max(cfg.Filter.LookbackDays-1, 0))
	if f.from != "" {
		t, err := time.ParseInLocation(dateLayout, f.from, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
		from = t
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s is after end date %s", from.Format(dateLayout), to.Format(dateLayout))
	}
	return from, to, nil
}

// inPeriod reports whether t falls on a calendar day in [from, to].
func inPeriod(t, from, to time.Time) bool {
	d := t.In(to.Location())
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, to.Location())
	return !day.Before(from) && !day.After(to)
}
