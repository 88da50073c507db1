package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/feed"
	"github.com/julienpequegnot/presswatch/internal/finding"
	"github.com/julienpequegnot/presswatch/internal/source"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover new outlets from repost findings",
	Long:  `Lists the sites that republished your posts and are not yet sources, and optionally adds their feeds.`,
	RunE:  runDiscover,
}

var (
	discoverAutoAdd bool
	discoverLimit   int
)

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().BoolVar(&discoverAutoAdd, "auto-add", false, "Automatically add discovered outlets")
	discoverCmd.Flags().IntVarP(&discoverLimit, "limit", "l", 20, "Maximum outlets to discover")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	srcRepo := source.NewRepository(db)

	stored, err := finding.NewRepository(db).Recent(1000)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		fmt.Println("No findings yet. Run 'presswatch reposts <blog-url>' first.")
		return nil
	}

	sources, err := srcRepo.List()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(sources))
	for _, s := range sources {
		known[finding.Host(s.URL)] = true
	}

	outlets := finding.Outlets(stored, known)
	if len(outlets) > discoverLimit {
		outlets = outlets[:discoverLimit]
	}

	added := 0
	for _, o := range outlets {
		fmt.Printf("Discovered: %s (%d reposts)\n", o.Domain, o.Count)

		if !discoverAutoAdd {
			continue
		}
		feedURL, err := feed.DiscoverFeed(cmd.Context(), "https://"+o.Domain)
		if err != nil {
			fmt.Printf("  → Could not find RSS feed\n")
			continue
		}
		if _, err := srcRepo.Add(o.Domain, feedURL, source.KindRSS); err != nil {
			fmt.Printf("  → Error adding: %v\n", err)
			continue
		}
		fmt.Printf("  → Added with feed: %s\n", feedURL)
		added++
	}

	fmt.Printf("\nDiscovered %d new outlets", len(outlets))
	if discoverAutoAdd {
		fmt.Printf(", added %d", added)
	}
	fmt.Println()

	if !discoverAutoAdd && len(outlets) > 0 {
		fmt.Println("\nRun with --auto-add to automatically add discovered outlets.")
	}
	return nil
}
