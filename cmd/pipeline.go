package cmd

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/blog"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/database"
	"github.com/julienpequegnot/presswatch/internal/dedup"
	"github.com/julienpequegnot/presswatch/internal/extract"
	"github.com/julienpequegnot/presswatch/internal/feed"
	"github.com/julienpequegnot/presswatch/internal/logging"
	"github.com/julienpequegnot/presswatch/internal/scorer"
	"github.com/julienpequegnot/presswatch/internal/source"
)

type fetchResult struct {
	fetched int
	fresh   []article.Item
	kept    []article.Item
	saved   int
}

// collect fetches every active source (or only the named ones) and returns
// the items not seen before, in source order.
func collect(ctx context.Context, cfg *config.Config, db *database.DB, names []string) ([]article.Item, int, error) {
	srcRepo := source.NewRepository(db)
	artRepo := article.NewRepository(db)

	sources, err := srcRepo.List()
	if err != nil {
		return nil, 0, err
	}
	if len(names) > 0 {
		sources = slices.DeleteFunc(sources, func(s source.Source) bool {
			return !slices.Contains(names, s.Name)
		})
	}

	timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	fetcher := feed.NewFetcher(timeout)
	scraper := blog.NewScraper(extract.New(timeout, cfg.Fetch.UserAgent), logging.Logger)

	concurrency := max(cfg.Fetch.Concurrency, 1)
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	perSource := make([][]article.Item, len(sources))

	for i, src := range sources {
		wg.Add(1)
		go func(i int, s source.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			items, err := fetchSource(ctx, fetcher, scraper, s)
			if err != nil {
				logging.Warn("fetch failed", "source", s.Name, "err", err)
				return
			}
			srcRepo.UpdateLastFetched(s.ID)
			logging.Debug("fetched", "source", s.Name, "items", len(items))
			perSource[i] = items
		}(i, src)
	}

	wg.Wait()

	var all []article.Item
	for _, items := range perSource {
		all = append(all, items...)
	}

	keys, err := artRepo.Keys()
	if err != nil {
		return nil, len(all), err
	}
	d := dedup.New()
	d.SeedKeys(keys)
	return d.Merge(all), len(all), nil
}

func fetchSource(ctx context.Context, fetcher *feed.Fetcher, scraper *blog.Scraper, s source.Source) ([]article.Item, error) {
	if s.Kind == source.KindRSS {
		return fetcher.FetchFeed(ctx, s.Name, s.URL)
	}
	docs, err := scraper.Documents(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	return fetcher.ItemsFromDocuments(s.Name, docs), nil
}

// fetchAndScore runs one ingestion pass: fetch, keep the new items
// published in [from, to], score them relative to to and store the kept
// ones. With keepAll the rejected items are stored unscored as well.
func fetchAndScore(ctx context.Context, cfg *config.Config, db *database.DB, names []string, criteria scorer.Criteria, from, to time.Time, keepAll bool) (*fetchResult, error) {
	fresh, fetched, err := collect(ctx, cfg, db, names)
	if err != nil {
		return nil, err
	}

	res := &fetchResult{fetched: fetched}
	for _, it := range fresh {
		if inPeriod(it.PublishedAt, from, to) {
			res.fresh = append(res.fresh, it)
		}
	}

	res.kept = scorer.NewRelevanceScorer(criteria).Filter(res.fresh, to)

	toSave := res.kept
	if keepAll {
		toSave = append(slices.Clone(res.kept), rejected(res.fresh, res.kept)...)
	}
	res.saved, err = article.NewRepository(db).Save(toSave, dedup.Key)
	if err != nil {
		return res, err
	}
	return res, nil
}

// rejected returns the items of all whose dedup key is not among kept.
func rejected(all, kept []article.Item) []article.Item {
	keptKeys := dedup.NewSet()
	for _, it := range kept {
		keptKeys.Add(dedup.Key(it))
	}
	var out []article.Item
	for _, it := range all {
		if !keptKeys.Has(dedup.Key(it)) {
			out = append(out, it)
		}
	}
	return out
}
