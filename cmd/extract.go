package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Print the readable text of a page or PDF",
	Long: `Fetches a URL and prints the text the repost detector would compare,
followed by the search queries it would build for it.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractWords   int
	extractQueries bool
)

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().IntVarP(&extractWords, "words", "w", 0, "Print at most this many words (0 = all)")
	extractCmd.Flags().BoolVarP(&extractQueries, "queries", "q", false, "Also print the search queries for the text")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := appCfg

	extractor := extract.New(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, cfg.Fetch.UserAgent)
	page, err := extractor.Fetch(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	text, err := extract.Text(page)
	if err != nil {
		return err
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	kind := "html"
	if page.IsPDF() {
		kind = "pdf"
	}
	fmt.Println(labelStyle.Render(fmt.Sprintf("%s (%s, %d words)", page.URL, kind, len(strings.Fields(text)))))
	fmt.Println()

	if extractWords > 0 {
		text = extract.FirstWords(text, extractWords)
	}
	fmt.Println(text)

	if extractQueries {
		synth := newSynthesizer(cfg.Repost, cfg.Repost.AttributionTag)
		fmt.Println()
		fmt.Println(labelStyle.Render("Queries:"))
		for i, q := range synth.Build("", text) {
			fmt.Printf("  %2d. %s\n", i+1, q)
		}
	}
	return nil
}
