package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/report"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show trending profile keywords",
	Long:  `Counts the profile keywords found in stored articles, ranking recent mentions higher.`,
	RunE:  runTrends,
}

var (
	trendsDays     int
	trendsLimit    int
	trendsProfiles []string
)

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsCmd.Flags().IntVar(&trendsDays, "days", 30, "Time window in days")
	trendsCmd.Flags().IntVarP(&trendsLimit, "limit", "l", 10, "Maximum trends to show")
	trendsCmd.Flags().StringSliceVarP(&trendsProfiles, "profile", "p", nil, "Keyword profiles to use (default: all)")
}

func runTrends(cmd *cobra.Command, args []string) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := to.AddDate(0, 0, -(2*trendsDays - 1))

	items, err := article.NewRepository(db).ListBetween(from, to, nil)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No articles found.")
		return nil
	}

	trends := report.KeywordTrends(items, appCfg.SelectProfiles(trendsProfiles), now, trendsDays, trendsLimit)
	if len(trends) == 0 {
		fmt.Println("No trending keywords found.")
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	fmt.Printf("\n%s (last %d days)\n\n", titleStyle.Render("TRENDING KEYWORDS"), trendsDays)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	maxScore := trends[0].Score

	for i, t := range trends {
		bar := strings.Repeat("█", int((t.Score/maxScore)*20))
		fmt.Printf("%2d. %-24s %s %.1f (%d articles, %d recent) %s\n",
			i+1,
			t.Keyword,
			barStyle.Render(bar),
			t.Score,
			t.Count,
			t.Recent,
			labelStyle.Render(t.Profile))
	}

	fmt.Println()
	return nil
}
