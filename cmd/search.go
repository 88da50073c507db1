// cmd/search.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored articles",
	Long:  `Full-text search across stored article titles and summaries.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum results to show")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := search.NewRepository(db).Search(query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for '%s'\n", query)
		return nil
	}

	// Display results
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sourceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	snippetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	fmt.Printf("\n%s '%s' (%d results)\n\n", titleStyle.Render("SEARCH:"), query, len(results))

	for _, r := range results {
		fmt.Printf("%s %s\n", idStyle.Render(fmt.Sprintf("[%d]", r.ArticleID)), r.Title)
		fmt.Printf("    %s", sourceStyle.Render(r.Source))
		if !r.PublishedAt.IsZero() {
			fmt.Printf(" • %s", r.PublishedAt.Format("2006-01-02"))
		}
		if r.Score > 0 {
			fmt.Printf(" • Score: %d", r.Score)
		}
		fmt.Println()

		if r.Snippet != "" {
			snippet := strings.ReplaceAll(r.Snippet, "<b>", "")
			snippet = strings.ReplaceAll(snippet, "</b>", "")
			fmt.Printf("    %s\n", snippetStyle.Render(snippet))
		}
		fmt.Printf("    %s\n\n", r.URL)
	}

	return nil
}
