// cmd/sources.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/source"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List monitored sources",
	Long:  `Display all active news feeds, pages and PDFs being monitored.`,
	RunE:  runSources,
}

var (
	sourcesDisable string
	sourcesEnable  string
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.Flags().StringVar(&sourcesDisable, "disable", "", "Stop fetching the named source")
	sourcesCmd.Flags().StringVar(&sourcesEnable, "enable", "", "Resume fetching the named source")
}

func runSources(cmd *cobra.Command, args []string) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := source.NewRepository(db)

	if sourcesDisable != "" {
		if err := repo.SetActive(sourcesDisable, false); err != nil {
			return fmt.Errorf("%s: %w", sourcesDisable, err)
		}
		fmt.Printf("Disabled %s\n", sourcesDisable)
	}
	if sourcesEnable != "" {
		if err := repo.SetActive(sourcesEnable, true); err != nil {
			return fmt.Errorf("%s: %w", sourcesEnable, err)
		}
		fmt.Printf("Enabled %s\n", sourcesEnable)
	}

	sources, err := repo.List()
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		fmt.Println("No sources configured. Run 'presswatch init' or add some with 'presswatch add <url>'")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	kindStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-4s  %-25s  %-4s  %-16s  %s", "ID", "NAME", "KIND", "LAST FETCHED", "URL")))
	fmt.Println(strings.Repeat("─", 100))

	for _, s := range sources {
		fetched := "never"
		if s.LastFetched != nil {
			fetched = s.LastFetched.Local().Format("2006-01-02 15:04")
		}

		fmt.Printf(" %s  %s  %s  %-16s  %s\n",
			idStyle.Render(fmt.Sprintf("%-4d", s.ID)),
			nameStyle.Render(fmt.Sprintf("%-25s", truncate(s.Name, 25))),
			kindStyle.Render(fmt.Sprintf("%-4s", s.Kind)),
			fetched,
			urlStyle.Render(s.URL),
		)
	}

	return nil
}
