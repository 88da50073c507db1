package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/finding"
)

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "Show stored repost findings",
	Long:  `Display the findings of the latest repost run, of a given run, or the most recent across runs.`,
	RunE:  runFindings,
}

var (
	findingsRun    string
	findingsRecent int
)

func init() {
	rootCmd.AddCommand(findingsCmd)
	findingsCmd.Flags().StringVar(&findingsRun, "run", "", "Run ID (default: latest run)")
	findingsCmd.Flags().IntVar(&findingsRecent, "recent", 0, "Show the N most recent findings across runs instead")
}

func runFindings(cmd *cobra.Command, args []string) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := finding.NewRepository(db)

	var stored []finding.Stored
	if findingsRecent > 0 {
		stored, err = repo.Recent(findingsRecent)
	} else {
		runID := findingsRun
		if runID == "" {
			if runID, err = repo.LatestRun(); err != nil {
				return err
			}
		}
		if runID == "" {
			fmt.Println("No repost runs yet. Run 'presswatch reposts <blog-url>'.")
			return nil
		}
		fmt.Printf("Run %s\n\n", runID)
		stored, err = repo.ListRun(runID)
	}
	if err != nil {
		return err
	}

	if len(stored) == 0 {
		fmt.Println("No findings.")
		return nil
	}

	for _, s := range stored {
		printFinding(s.SourceTitle, s.MatchedTitle, s.MatchedURL, s.Snippet, s.Similarity, string(s.Basis), s.TargetDomain)
	}
	return nil
}

func printFinding(sourceTitle, title, url, snippet string, similarity float64, basis string, target bool) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	simStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	targetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)

	if title == "" {
		title = url
	}
	fmt.Println(titleStyle.Render(title))
	fmt.Printf("  %s\n", urlStyle.Render(url))

	meta := fmt.Sprintf("similarity %.2f (%s)", similarity, basis)
	fmt.Printf("  %s %s", labelStyle.Render("Source post:"), truncate(sourceTitle, 50))
	fmt.Printf("  %s", simStyle.Render(meta))
	if target {
		fmt.Printf("  %s", targetStyle.Render("target outlet"))
	}
	fmt.Println()

	if snippet != "" {
		fmt.Printf("  %s\n", labelStyle.Render(truncate(strings.TrimSpace(snippet), 160)))
	}
	fmt.Println()
}
