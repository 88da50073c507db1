package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/logging"
	"github.com/julienpequegnot/presswatch/internal/mail"
	"github.com/julienpequegnot/presswatch/internal/report"
	"github.com/julienpequegnot/presswatch/internal/scorer"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the news digest for a period",
	Long: `Rescores the stored articles of a period, groups them by keyword profile
and writes an HTML digest. The digest can be saved, mailed, or exported as CSV.`,
	RunE: runReport,
}

var (
	reportFilters filterFlags
	reportOut     string
	reportCSV     string
	reportSend    bool
	reportPolicy  string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportFilters.register(reportCmd)
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write the HTML digest to this file (default stdout unless --send)")
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "Also export the articles as CSV to this file")
	reportCmd.Flags().BoolVar(&reportSend, "send", false, "Mail the digest using the email settings")
	reportCmd.Flags().StringVar(&reportPolicy, "bucket", "", "Profile bucketing: all or first (default from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := appCfg

	from, to, err := reportFilters.period(cfg, time.Now())
	if err != nil {
		return err
	}

	policyName := cfg.Report.BucketPolicy
	if reportPolicy != "" {
		policyName = reportPolicy
	}
	policy, err := report.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	r, items, err := buildReport(cfg, db, &reportFilters, policy, from, to)
	if err != nil {
		return err
	}

	var html bytes.Buffer
	if err := r.RenderHTML(&html); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	switch {
	case reportOut != "":
		if err := os.WriteFile(reportOut, html.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Wrote digest with %d articles to %s\n", len(items), reportOut)
	case !reportSend:
		os.Stdout.Write(html.Bytes())
	}

	if reportCSV != "" {
		f, err := os.Create(reportCSV)
		if err != nil {
			return fmt.Errorf("failed to create CSV: %w", err)
		}
		defer f.Close()
		if err := report.WriteCSV(f, items); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		fmt.Printf("Exported %d articles to %s\n", len(items), reportCSV)
	}

	if reportSend {
		if err := mail.New(cfg.Email).Send(r.Subject(), html.String()); err != nil {
			return err
		}
		fmt.Printf("Digest sent to %s\n", cfg.Email.Recipient)
	}
	return nil
}

// buildReport rescores the stored articles of the period and buckets the
// relevant ones by the selected profiles.
func buildReport(cfg *config.Config, db *database.DB, f *filterFlags, policy report.Policy, from, to time.Time) (*report.Report, []article.Item, error) {
	stored, err := article.NewRepository(db).ListBetween(from, to, f.sources)
	if err != nil {
		return nil, nil, err
	}

	criteria := f.criteria(cfg)
	var items []article.Item
	if !criteria.Empty() {
		items = scorer.NewRelevanceScorer(criteria).Filter(stored, to)
	}
	logging.Debug("report", "stored", len(stored), "relevant", len(items))

	r := report.New(items, cfg.SelectProfiles(f.profiles), policy, from, to)
	r.SummaryWords = cfg.Report.SummaryWords
	return r, items, nil
}
