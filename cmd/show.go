// cmd/show.go
package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/dedup"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <article-id>",
	Short: "Show details of an article",
	Long:  `Display full details of a stored article including its summary and metadata.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid article ID: %s", args[0])
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := article.NewRepository(db).Get(id)
	if errors.Is(err, article.ErrNotFound) {
		return fmt.Errorf("article not found: %d", id)
	}
	if err != nil {
		return err
	}

	// Styles
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	divider := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("━", 70))

	fmt.Println(divider)
	fmt.Println(titleStyle.Render(a.Title))
	fmt.Println(divider)

	fmt.Printf("%s %s\n", labelStyle.Render("Source:"), valueStyle.Render(a.Source))
	fmt.Printf("%s %s\n", labelStyle.Render("URL:"), urlStyle.Render(a.Link))
	fmt.Printf("%s %s\n", labelStyle.Render("Key:"), valueStyle.Render(dedup.Key(*a)))
	if !a.PublishedAt.IsZero() {
		fmt.Printf("%s %s\n", labelStyle.Render("Published:"), valueStyle.Render(a.PublishedAt.Local().Format("2006-01-02 15:04")))
	}
	if !a.FetchedAt.IsZero() {
		fmt.Printf("%s %s\n", labelStyle.Render("Fetched:"), valueStyle.Render(a.FetchedAt.Local().Format("2006-01-02 15:04")))
	}
	if a.Score != nil {
		fmt.Printf("%s %s\n", labelStyle.Render("Score:"), valueStyle.Render(strconv.Itoa(*a.Score)))
	} else {
		fmt.Printf("%s %s\n", labelStyle.Render("Score:"), valueStyle.Render("not relevant"))
	}

	if a.Summary != "" {
		fmt.Println()
		fmt.Println(a.Summary)
	}
	fmt.Println(divider)

	return nil
}
