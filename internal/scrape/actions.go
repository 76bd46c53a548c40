package scrape

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/grc-lexicon-parser/internal/common"
	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/db"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/scraper"
)

// Flags are the scrape command's own flags; the declension flags are added
// by the caller.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "participle", Usage: "the words are participles; forms are stored under the parent verb"},
		&cli.BoolFlag{Name: "search", Usage: "treat the words as observed forms and search for their lemma first"},
		&cli.IntFlag{Name: "workers", Usage: "number of concurrent scrape workers"},
		&cli.DurationFlag{Name: "interval", Usage: "minimum time between requests"},
		&cli.StringFlag{Name: "cache-dir", Usage: "page cache directory"},
		&cli.BoolFlag{Name: "dry-run", Usage: "print the entries instead of storing them"},
		&cli.StringFlag{Name: "format", Value: "yaml", Usage: "output format (yaml, json)"},
	}
}

func ScrapeAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	words := common.SplitWords(c.Args().Slice())
	if len(words) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No lemmas provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  grc-lexicon scrape --pos noun λόγος,ἄνθρωπος`)
		fmt.Fprintln(os.Stderr, `  grc-lexicon scrape --pos verb --participle λυόμενος`)
		fmt.Fprintln(os.Stderr, `  grc-lexicon scrape --pos verb --person third --number singular --search ἔλεγεν`)
		return cli.Exit("", 1)
	}

	q, err := common.Declension(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	config, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	s, err := common.NewScraper(config, logger)
	if err != nil {
		return err
	}

	participle := c.Bool("participle")
	if participle {
		q.Mood = models.Participle.Value
	}

	requests, failed := buildRequests(c, s, logger, words, q, participle)
	results := s.ScrapeAll(c.Context, requests, config.WorkerCount)

	if !c.Bool("dry-run") {
		database, err := db.Open(config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		store(database, logger, results)
	}

	output := BuildOutput(append(failed, results...))
	output.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()

	if c.Bool("dry-run") {
		var entries []interface{}
		for _, r := range results {
			if r.Entry != nil {
				entries = append(entries, r.Entry)
			}
		}
		if err := common.Write(os.Stdout, c.String("format"), entries); err != nil {
			return err
		}
	}
	if err := common.Write(os.Stdout, c.String("format"), output); err != nil {
		return err
	}

	if output.Status == "failed" {
		return cli.Exit("", 1)
	}
	return nil
}

// buildRequests resolves each word to a request. Words whose lemma search
// fails are returned as failed results.
func buildRequests(c *cli.Context, s *scraper.Scraper, logger *slog.Logger, words []string, q models.Declension, participle bool) ([]scraper.Request, []scraper.Result) {
	var requests []scraper.Request
	var failed []scraper.Result
	for _, word := range words {
		req := scraper.Request{Lemma: word, POS: q.PartOfSpeech, Participle: participle}
		if c.Bool("search") {
			lemma, err := s.FindLemma(c.Context, word, q)
			if err != nil {
				logger.Warn("Lemma search failed", "word", word, "error", err)
				failed = append(failed, scraper.Result{Request: req, Error: err})
				continue
			}
			logger.Info("Found lemma", "word", word, "lemma", lemma)
			req.Lemma = lemma
		}
		requests = append(requests, req)
	}
	return requests, failed
}

// store upserts every successful result and records its page. A store
// failure turns the result into a failure.
func store(database *db.DB, logger *slog.Logger, results []scraper.Result) {
	for i := range results {
		r := &results[i]
		if r.Error != nil || r.Entry == nil {
			continue
		}
		stored, err := database.UpsertEntry(r.Entry)
		if err != nil {
			logger.Error("Failed to store entry", "lemma", r.Entry.Lemma, "error", err)
			r.Error = err
			continue
		}
		r.Entry = stored
		if r.Page != nil {
			if _, err := database.RecordPage(stored.Lemma, r.Page); err != nil {
				logger.Warn("Failed to record page", "url", r.Page.URL, "error", err)
			}
		}
	}
}
