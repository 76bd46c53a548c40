package common

import (
	"fmt"
	"log/slog"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/caching"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/classifier"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/extractors"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/fetcher"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/scraper"
)

// Classifier loads the header rules from config, or the built-in ones.
func Classifier(config *models.Config) (*classifier.Classifier, error) {
	if config.TermsFile != "" {
		return classifier.LoadFile(config.TermsFile)
	}
	return classifier.Default()
}

// NewScraper wires the fetcher, its page cache and the classifier.
func NewScraper(config *models.Config, logger *slog.Logger) (*scraper.Scraper, error) {
	var cache caching.Cache = caching.NewMemoryCache()
	if config.CacheDir != "" {
		fc, err := caching.NewFileCache(config.CacheDir, config.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page cache: %w", err)
		}
		cache = fc
	}

	f := fetcher.NewFetcher(fetcher.Options{
		Cache:     cache,
		UserAgent: config.UserAgent,
		Interval:  config.RequestInterval,
		Retries:   config.Retries,
		Logger:    logger,
	})

	c, err := Classifier(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier terms: %w", err)
	}

	w := extractors.NewWiktionary(config.PageBaseURL, config.SearchBaseURL)
	return scraper.New(f, w, c, logger), nil
}
