package cmd

import (
	"fmt"
	"time"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/scorer"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rescore stored articles",
	Long: `Rescores the stored articles of a period with the current criteria. Articles
that no longer qualify lose their score; the rest are listed by rank.`,
	RunE: runScore,
}

var (
	scoreFilters filterFlags
	scoreTop     int
	scoreDryRun  bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreFilters.register(scoreCmd)
	scoreCmd.Flags().IntVarP(&scoreTop, "top", "n", 20, "Number of articles to show")
	scoreCmd.Flags().BoolVar(&scoreDryRun, "dry-run", false, "Show the ranking without updating stored scores")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := appCfg

	from, to, err := scoreFilters.period(cfg, time.Now())
	if err != nil {
		return err
	}
	criteria := scoreFilters.criteria(cfg)
	if criteria.Empty() {
		return fmt.Errorf("no active keywords: select a profile or pass --keywords, --must or --nice")
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := article.NewRepository(db)
	items, err := repo.ListBetween(from, to, scoreFilters.sources)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No stored articles in this period.")
		return nil
	}

	s := scorer.NewRelevanceScorer(criteria)
	var kept []article.Item
	for _, it := range items {
		score, ok := s.Score(it, to)
		var stored *int
		if ok {
			stored = &score
			it.Score = stored
			kept = append(kept, it)
		}
		if scoreDryRun {
			continue
		}
		if err := repo.UpdateScore(it.ID, stored); err != nil {
			fmt.Printf("Error saving score for %d: %v\n", it.ID, err)
		}
	}
	scorer.Rank(kept)

	fmt.Printf("Scored %d articles, %d relevant\n\n", len(items), len(kept))
	if len(kept) > 0 {
		printArticles(kept, scoreTop)
	}
	return nil
}
