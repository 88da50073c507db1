package cmd

import (
	"fmt"
	"time"

	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch, score and store new articles",
	Long: `Downloads new articles from all active sources, keeps the ones published
in the selected period that match the keyword criteria, and stores them
ranked by score.`,
	RunE: runFetch,
}

var (
	fetchFilters filterFlags
	fetchKeepAll bool
	fetchTop     int
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchFilters.register(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchKeepAll, "keep-all", false, "Also store rejected articles (unscored) for later rescoring")
	fetchCmd.Flags().IntVarP(&fetchTop, "top", "n", 20, "Number of kept articles to show")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := appCfg

	from, to, err := fetchFilters.period(cfg, time.Now())
	if err != nil {
		return err
	}
	criteria := fetchFilters.criteria(cfg)
	if criteria.Empty() {
		return fmt.Errorf("no active keywords: select a profile or pass --keywords, --must or --nice")
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Fetching articles for %s to %s...\n", from.Format(dateLayout), to.Format(dateLayout))

	res, err := fetchAndScore(cmd.Context(), cfg, db, fetchFilters.sources, criteria, from, to, fetchKeepAll)
	if err != nil {
		return err
	}

	fmt.Printf("Fetched %d entries, %d new in period, %d relevant, %d stored\n\n",
		res.fetched, len(res.fresh), len(res.kept), res.saved)

	if len(res.kept) > 0 {
		printArticles(res.kept, fetchTop)
	}
	return nil
}
