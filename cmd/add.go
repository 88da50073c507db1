// cmd/add.go
package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/feed"
	"github.com/julienpequegnot/presswatch/internal/source"
	"github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a news feed, page or PDF to monitor",
	Long: `Add a source to monitor. RSS sources may be given as a site URL; the feed
is discovered from the page. Page and PDF sources are scraped directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var (
	addName string
	addKind string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "Custom name for the source")
	addCmd.Flags().StringVarP(&addKind, "kind", "k", source.KindRSS, "Source kind: rss, page, pdf")
}

func runAdd(cmd *cobra.Command, args []string) error {
	siteURL := args[0]

	// Ensure URL has scheme
	if !strings.HasPrefix(siteURL, "http") {
		siteURL = "https://" + siteURL
	}

	parsed, err := url.Parse(siteURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	name := addName
	if name == "" {
		name = parsed.Host
	}

	if !source.ValidKind(addKind) {
		return fmt.Errorf("unknown kind %q (want rss, page or pdf)", addKind)
	}

	sourceURL := siteURL
	if addKind == source.KindRSS {
		fmt.Printf("Discovering feed for %s...\n", siteURL)
		feedURL, err := feed.DiscoverFeed(cmd.Context(), siteURL)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
			fmt.Println("Using the URL as the feed address")
		} else {
			fmt.Printf("Found feed: %s\n", feedURL)
			sourceURL = feedURL
		}
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := source.NewRepository(db)
	src, err := repo.Add(name, sourceURL, addKind)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("source already exists: %s", name)
		}
		return err
	}

	fmt.Printf("\nAdded: %s (ID: %d, %s)\n", src.Name, src.ID, src.Kind)
	fmt.Println("\nRun 'presswatch fetch' to download articles")

	return nil
}
