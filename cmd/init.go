package cmd

import (
	"fmt"
	"os"

	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/source"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize presswatch configuration and database",
	Long: `Creates the presswatch directory (~/.presswatch or $PRESSWATCH_HOME) with
config.yaml and the SQLite database, and registers the default news feeds.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := config.Dir()

	// Create directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfg := appCfg
	if _, err := os.Stat(config.Path()); os.IsNotExist(err) || initForce {
		cfg = config.Default()
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Created config at %s\n", config.Path())
	} else {
		fmt.Printf("Keeping existing config at %s\n", config.Path())
	}

	// Create database
	db, err := database.New(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()
	fmt.Printf("Database ready at %s\n", config.DBPath())

	repo := source.NewRepository(db)
	added := 0
	for _, f := range cfg.Feeds {
		ok, err := repo.Ensure(f.Name, f.URL, f.Kind)
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", f.Name, err)
		}
		if ok {
			added++
		}
	}
	fmt.Printf("Registered %d news sources\n", added)

	fmt.Println("\nPresswatch initialized! Next steps:")
	fmt.Println("  presswatch fetch               Fetch and score today's articles")
	fmt.Println("  presswatch report --send       Mail the daily digest")
	fmt.Println("  presswatch reposts <blog-url>  Find reposts of your posts")

	return nil
}
