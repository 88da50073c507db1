package cmd

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/julienpequegnot/presswatch/internal/blog"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/extract"
	"github.com/julienpequegnot/presswatch/internal/finding"
	"github.com/julienpequegnot/presswatch/internal/logging"
	"github.com/julienpequegnot/presswatch/internal/query"
	"github.com/julienpequegnot/presswatch/internal/repost"
	"github.com/julienpequegnot/presswatch/internal/websearch"
)

var repostsCmd = &cobra.Command{
	Use:   "reposts <blog-url>...",
	Short: "Search the web for republished copies of your posts",
	Long: `Reads the posts behind each blog index (or a single page or PDF), searches
the web for them and reports the pages similar enough to count as reposts.
Findings are stored as one run and can be listed again with 'findings'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReposts,
}

var (
	repostThreshold  float64
	repostAuthor     string
	repostMaxQueries int
	repostDryRun     bool
)

func init() {
	rootCmd.AddCommand(repostsCmd)
	repostsCmd.Flags().Float64Var(&repostThreshold, "threshold", 0, "Similarity threshold (default from config)")
	repostsCmd.Flags().StringVar(&repostAuthor, "author", "", "Attribution phrase added to title and sentence queries")
	repostsCmd.Flags().IntVar(&repostMaxQueries, "max-queries", 0, "Queries per post (default from config)")
	repostsCmd.Flags().BoolVar(&repostDryRun, "dry-run", false, "Print findings without storing them")
}

func runReposts(cmd *cobra.Command, args []string) error {
	cfg := appCfg
	ctx := cmd.Context()

	searcher := websearch.NewClient(
		cfg.Search.APIKey,
		cfg.Search.Endpoint,
		time.Duration(cfg.Search.MinIntervalMS)*time.Millisecond,
		time.Duration(cfg.Search.TimeoutSeconds)*time.Second,
	)
	if !searcher.Available() {
		return fmt.Errorf("no search API key: set SERPER_API_KEY or search.api_key in %s", config.Path())
	}

	extractor := extract.New(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, cfg.Fetch.UserAgent)
	scraper := blog.NewScraper(extractor, logging.Logger)

	var docs []repost.SourceDocument
	for _, u := range args {
		found, err := scraper.Documents(ctx, u)
		if err != nil {
			logging.Warn("skipping source", "url", u, "err", err)
			continue
		}
		logging.Info("loaded posts", "url", u, "posts", len(found))
		docs = append(docs, found...)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no posts found at %v", args)
	}

	author := cfg.Repost.AttributionTag
	if repostAuthor != "" {
		author = repostAuthor
	}
	synth := newSynthesizer(cfg.Repost, author)

	opts := repostOptions(cfg.Repost)
	opts.ExcludedDomains = append(opts.ExcludedDomains, selfDomains(args, docs)...)
	logging.Debug("excluded domains", "domains", opts.ExcludedDomains)

	detector := repost.NewDetector(searcher, extractor, synth, opts, logging.Logger)

	fmt.Printf("Checking %d posts for reposts...\n\n", len(docs))
	findings := detector.Detect(ctx, docs)

	if len(findings) == 0 {
		fmt.Println("No reposts found.")
	}
	for _, f := range findings {
		printFinding(f.SourceTitle, f.MatchedTitle, f.MatchedURL, f.Snippet, f.Similarity, string(f.Basis), f.TargetDomain)
	}

	if err := ctx.Err(); err != nil {
		logging.Warn("interrupted, results are partial")
	}

	if repostDryRun || len(findings) == 0 {
		return nil
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	runID := finding.NewRunID()
	if err := finding.NewRepository(db).Save(runID, findings); err != nil {
		return err
	}

	summary := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	fmt.Println(summary.Render(fmt.Sprintf("Stored %d findings as run %s", len(findings), runID)))
	return nil
}

// selfDomains returns the hosts of the blog arguments and of their posts,
// so the user's own pages are never reported as reposts.
func selfDomains(args []string, docs []repost.SourceDocument) []string {
	urls := slices.Clone(args)
	for _, d := range docs {
		urls = append(urls, d.URL)
	}

	var hosts []string
	for _, u := range urls {
		if h := finding.Host(u); h != "" && !slices.Contains(hosts, h) {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func newSynthesizer(rc config.RepostConfig, author string) *query.Synthesizer {
	return query.NewSynthesizer(query.Options{
		AttributionTag: author,
		TargetDomains:  rc.TargetDomains,
		KeywordWindow:  rc.KeywordWindow,
		Stopwords:      rc.Stopwords,
	})
}

// repostOptions maps the configuration onto detector options, applying the
// command line overrides.
func repostOptions(rc config.RepostConfig) repost.Options {
	opts := repost.DefaultOptions()
	if rc.Threshold > 0 {
		opts.Threshold = rc.Threshold
	}
	if repostThreshold > 0 {
		opts.Threshold = repostThreshold
	}
	opts.TargetDiscount = rc.TargetDiscount
	opts.ThresholdFloor = rc.ThresholdFloor
	opts.SnippetMargin = rc.SnippetMargin
	if rc.MaxQueriesPerPost > 0 {
		opts.MaxQueriesPerPost = rc.MaxQueriesPerPost
	}
	if repostMaxQueries > 0 {
		opts.MaxQueriesPerPost = repostMaxQueries
	}
	if rc.ShortPostQueries > 0 {
		opts.ShortPostQueries = rc.ShortPostQueries
	}
	if rc.ShortPostWords > 0 {
		opts.ShortPostWords = rc.ShortPostWords
	}
	if rc.MaxResultsPerQuery > 0 {
		opts.MaxResultsPerQuery = rc.MaxResultsPerQuery
	}
	if rc.MinCandidateWords > 0 {
		opts.MinCandidateWords = rc.MinCandidateWords
	}
	if rc.Concurrency > 0 {
		opts.Concurrency = rc.Concurrency
	}
	opts.TargetDomains = rc.TargetDomains
	opts.ExcludedDomains = slices.Clone(rc.ExcludedDomains)
	return opts
}
