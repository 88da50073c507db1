package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/scorer"
)

var relatedCmd = &cobra.Command{
	Use:   "related <article-id>",
	Short: "Find stored articles covering the same story",
	Long:  `Compares an article with the other stored articles of its period and lists the most similar ones.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

var (
	relatedMinSimilarity float64
	relatedDays          int
	relatedLimit         int
)

func init() {
	rootCmd.AddCommand(relatedCmd)
	relatedCmd.Flags().Float64Var(&relatedMinSimilarity, "min-similarity", 0.3, "Minimum similarity to list an article")
	relatedCmd.Flags().IntVar(&relatedDays, "days", 3, "Days around the article to search")
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "l", 10, "Maximum articles to show")
}

type relatedArticle struct {
	item       article.Item
	similarity float64
}

func runRelated(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid article ID: %s", args[0])
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := article.NewRepository(db)
	target, err := repo.Get(id)
	if errors.Is(err, article.ErrNotFound) {
		return fmt.Errorf("article %d not found", id)
	}
	if err != nil {
		return err
	}

	from := target.PublishedAt.AddDate(0, 0, -relatedDays)
	to := target.PublishedAt.AddDate(0, 0, relatedDays)
	candidates, err := repo.ListBetween(from, to, nil)
	if err != nil {
		return err
	}

	related := relatedArticles(*target, candidates, relatedMinSimilarity)
	if len(related) == 0 {
		fmt.Println("No related articles found.")
		return nil
	}
	if len(related) > relatedLimit {
		related = related[:relatedLimit]
	}

	fmt.Printf("Related to '%s'\n\n", truncate(target.Title, 60))
	for _, r := range related {
		fmt.Printf("  [%d] %.2f  %-50s  %s\n", r.item.ID, r.similarity, truncate(r.item.Title, 50), r.item.Source)
	}
	return nil
}

// relatedArticles scores candidates against target on title and summary
// and returns those at or above threshold, most similar first. The target itself
// is skipped.
func relatedArticles(target article.Item, candidates []article.Item, threshold float64) []relatedArticle {
	text := target.Title + " " + target.Summary
	var out []relatedArticle
	for _, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		sim := scorer.Similarity(text, c.Title+" "+c.Summary)
		if sim >= threshold {
			out = append(out, relatedArticle{item: c, similarity: sim})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].similarity > out[j].similarity
	})
	return out
}
