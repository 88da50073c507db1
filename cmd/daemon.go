package cmd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/logging"
	"github.com/julienpequegnot/presswatch/internal/mail"
	"github.com/julienpequegnot/presswatch/internal/report"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run in daemon mode",
	Long: `Runs presswatch in the foreground, periodically fetching and scoring new
articles and, when enabled, mailing the digest after every pass.`,
	RunE: runDaemon,
}

var (
	daemonFilters  filterFlags
	daemonInterval int
	daemonOnce     bool
	daemonSend     bool
)

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonFilters.register(daemonCmd)
	daemonCmd.Flags().IntVar(&daemonInterval, "interval", 0, "Override interval in hours (0 = use config)")
	daemonCmd.Flags().BoolVar(&daemonOnce, "once", false, "Run once and exit")
	daemonCmd.Flags().BoolVar(&daemonSend, "send", false, "Mail the digest after every pass (default from config)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg := appCfg
	ctx := cmd.Context()

	interval := cfg.Daemon.IntervalHours
	if daemonInterval > 0 {
		interval = daemonInterval
	}
	if interval < 1 {
		return fmt.Errorf("invalid interval %d hours", interval)
	}
	send := cfg.Daemon.SendReport || daemonSend

	if daemonFilters.criteria(cfg).Empty() {
		return fmt.Errorf("no active keywords: select a profile or pass --keywords, --must or --nice")
	}
	if send {
		if err := mail.New(cfg.Email).Validate(); err != nil {
			return err
		}
	}

	logging.Info("daemon starting", "interval_hours", interval, "send", send)

	if err := runPass(ctx, cfg, send); err != nil {
		logging.Error("pass failed", "err", err)
	}
	if daemonOnce {
		return nil
	}

	ticker := time.NewTicker(time.Duration(interval) * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := runPass(ctx, cfg, send); err != nil {
				logging.Error("pass failed", "err", err)
			}
		case <-ctx.Done():
			logging.Info("daemon stopping")
			return nil
		}
	}
}

// runPass fetches and stores the relevant articles of the current period
// and optionally mails the digest for it.
func runPass(ctx context.Context, cfg *config.Config, send bool) error {
	from, to, err := daemonFilters.period(cfg, time.Now())
	if err != nil {
		return err
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := fetchAndScore(ctx, cfg, db, daemonFilters.sources, daemonFilters.criteria(cfg), from, to, false)
	if err != nil {
		return err
	}
	logging.Info("pass complete", "fetched", res.fetched, "new", len(res.fresh), "relevant", len(res.kept), "stored", res.saved)

	if !send {
		return nil
	}

	policy, err := report.ParsePolicy(cfg.Report.BucketPolicy)
	if err != nil {
		return err
	}
	r, _, err := buildReport(cfg, db, &daemonFilters, policy, from, to)
	if err != nil {
		return err
	}
	var html bytes.Buffer
	if err := r.RenderHTML(&html); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := mail.New(cfg.Email).Send(r.Subject(), html.String()); err != nil {
		return err
	}
	logging.Info("digest sent", "to", cfg.Email.Recipient, "articles", r.Total())
	return nil
}
