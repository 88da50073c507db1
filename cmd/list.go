// cmd/list.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored articles",
	Long:  `List stored articles sorted by date, score or source.`,
	RunE:  runList,
}

var (
	listTop  int
	listSort string
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listTop, "top", "n", 20, "Number of articles to show")
	listCmd.Flags().StringVar(&listSort, "sort", "date", "Sort by: date, score, source")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := article.NewRepository(db)
	items, err := repo.ListSorted(listTop, 0, listSort)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No articles found. Run 'presswatch fetch' to download articles.")
		return nil
	}

	printArticles(items, listTop)
	return nil
}

func printArticles(items []article.Item, top int) {
	// Styles
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sourceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	// Header
	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-4s  %-5s  %-10s  %-20s  %s", "#", "SCORE", "DATE", "SOURCE", "TITLE")))
	fmt.Println(strings.Repeat("─", 100))

	for i, it := range items {
		if top > 0 && i >= top {
			break
		}

		score := "-"
		if it.Score != nil {
			score = fmt.Sprintf("%d", *it.Score)
		}

		date := "-"
		if !it.PublishedAt.IsZero() {
			date = it.PublishedAt.Format("2006-01-02")
		}

		id := fmt.Sprintf("%-4d", i+1)
		if it.ID != 0 {
			id = fmt.Sprintf("%-4d", it.ID)
		}

		fmt.Printf(" %s  %s  %s  %s  %s\n",
			idStyle.Render(id),
			scoreStyle.Render(fmt.Sprintf("%-5s", score)),
			dateStyle.Render(fmt.Sprintf("%-10s", date)),
			sourceStyle.Render(fmt.Sprintf("%-20s", truncate(it.Source, 20))),
			truncate(it.Title, 60),
		)
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
