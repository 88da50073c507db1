package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "presswatch",
	Short: "Monitor news feeds and find reposts of your publications",
	Long: `Presswatch collects articles from Croatian news feeds, keeps the ones
relevant to your keyword profiles, and searches the web for outlets that
republished your own posts.

Pipeline: fetch → score → report, and reposts <blog-url> for press clipping.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	logLevel string
	appCfg   *config.Config
)

func init() {
	rootCmd.Version = "0.1.0"
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
}

// setup loads the configuration and the logger before every command.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appCfg = cfg

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.InitStderr(level)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
