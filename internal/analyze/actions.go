package analyze

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/grc-lexicon-parser/internal/common"
	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/db"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/extractors"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/fuzzy"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/lexicon"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/paradigm"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/parser"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/scraper"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/table"
)

// ParseTableOutput is the result of reading an offline page.
type ParseTableOutput struct {
	File    string         `json:"file" yaml:"file"`
	Tables  int            `json:"tables" yaml:"tables"`
	Forms   int            `json:"forms" yaml:"forms"`
	Skipped []string       `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Tree    *paradigm.Tree `json:"tree" yaml:"tree"`
}

// ParseTableAction builds a paradigm tree from a saved HTML file. Pages with
// an Ancient Greek section contribute only that section's tables.
func ParseTableAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	if c.NArg() != 1 {
		return cli.Exit("usage: grc-lexicon parse-table --pos <pos> <file.html>", 1)
	}
	path := c.Args().First()

	pos, err := models.ParsePartOfSpeech(c.String("pos"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	config, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	cl, err := common.Classifier(config)
	if err != nil {
		return fmt.Errorf("failed to load classifier terms: %w", err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	p := &parser.Parser{}
	doc, err := p.ParsePage(path, string(body))
	if err != nil {
		return err
	}

	tables := readTables(doc.DOM, pos.Kind, c.String("title"))
	logger.Info("Read tables", "file", path, "tables", len(tables))

	tree, skipped, err := paradigm.Build(pos, tables, cl, table.DefaultOptions(), logger)
	if err != nil {
		return err
	}

	out := ParseTableOutput{File: path, Tables: len(tables), Forms: tree.Count(), Tree: tree}
	for _, e := range skipped {
		out.Skipped = append(out.Skipped, e.Error())
	}

	if lemma := c.String("lemma"); lemma != "" {
		if err := storeTree(config.DBPath, lemma, tree, logger); err != nil {
			return err
		}
	}
	return common.Write(os.Stdout, c.String("format"), out)
}

func readTables(dom *goquery.Document, kind models.POSKind, title string) []table.Table {
	if sec := extractors.AncientGreek(dom); sec.Length() > 0 {
		return extractors.Tables(sec, kind)
	}
	var tables []table.Table
	dom.Find("table").Not("table table").Each(func(i int, s *goquery.Selection) {
		tables = append(tables, parser.ReadTable(s, title))
	})
	return tables
}

func storeTree(dbPath, lemma string, tree *paradigm.Tree, logger *slog.Logger) error {
	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	e := lexicon.NewEntry(lemma)
	e.AddParadigm(tree)
	stored, err := database.UpsertEntry(e)
	if err != nil {
		return err
	}
	logger.Info("Stored entry", "lemma", stored.Lemma, "entry_id", stored.ID)
	return nil
}

// InflectOutput lists the forms a declension resolves to.
type InflectOutput struct {
	Lemma      string                 `json:"lemma" yaml:"lemma"`
	Declension string                 `json:"declension" yaml:"declension"`
	Forms      []paradigm.SurfaceForm `json:"forms" yaml:"forms"`
}

// InflectAction resolves a declension against a stored entry.
func InflectAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	if c.NArg() != 1 {
		return cli.Exit("usage: grc-lexicon inflect --pos <pos> [dimensions] <lemma>", 1)
	}
	q, err := common.Declension(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	e, err := loadEntry(c, logger, common.SanitizeWord(c.Args().First()), q)
	if err != nil {
		return err
	}

	forms, err := e.Resolve(q)
	if err != nil {
		return describe(err)
	}
	return common.Write(os.Stdout, c.String("format"), InflectOutput{Lemma: e.Lemma, Declension: q.String(), Forms: forms})
}

// MatchOutput ranks the forms of a declension against an observed word.
type MatchOutput struct {
	Lemma      string        `json:"lemma" yaml:"lemma"`
	Observed   string        `json:"observed" yaml:"observed"`
	Declension string        `json:"declension" yaml:"declension"`
	Matches    []fuzzy.Match `json:"matches" yaml:"matches"`
}

// MatchAction resolves a declension and ranks its forms against the
// observed spelling.
func MatchAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	if c.NArg() != 2 {
		return cli.Exit("usage: grc-lexicon match --pos <pos> [dimensions] <lemma> <observed>", 1)
	}
	q, err := common.Declension(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	e, err := loadEntry(c, logger, common.SanitizeWord(c.Args().Get(0)), q)
	if err != nil {
		return err
	}

	observed := common.SanitizeWord(c.Args().Get(1))
	matches, err := e.Match(observed, q)
	if err != nil {
		return describe(err)
	}
	if c.Bool("plausible") {
		var plausible []fuzzy.Match
		for _, m := range matches {
			if m.Score > 0 {
				plausible = append(plausible, m)
			}
		}
		matches = plausible
	}
	return common.Write(os.Stdout, c.String("format"), MatchOutput{
		Lemma:      e.Lemma,
		Observed:   observed,
		Declension: q.String(),
		Matches:    matches,
	})
}

// LookupResult is one stored entry that can account for an observed form.
type LookupResult struct {
	Lemma    string             `json:"lemma" yaml:"lemma"`
	EntryID  string             `json:"entry_id" yaml:"entry_id"`
	Analyses []lexicon.Analysis `json:"analyses" yaml:"analyses"`
}

// LookupAction finds the stored entries holding an observed form. With
// declension flags only that slot is searched; without them every form is
// scored and the best readings are listed.
func LookupAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: grc-lexicon lookup [--pos <pos> dimensions] <form>", 1)
	}
	form := common.SanitizeWord(c.Args().First())

	config, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	database, err := db.Open(config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	var entries []*lexicon.Entry
	if c.IsSet("pos") {
		q, err := common.Declension(c)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		entries, err = database.FindEntriesByForm(q, form)
		if err != nil {
			return describe(err)
		}
	} else {
		entries, err = database.FindEntriesContainingForm(form)
		if err != nil {
			return err
		}
	}

	limit := c.Int("limit")
	var results []LookupResult
	for _, e := range entries {
		analyses := e.Identify(form)
		if limit > 0 && len(analyses) > limit {
			analyses = analyses[:limit]
		}
		results = append(results, LookupResult{Lemma: e.Lemma, EntryID: e.ID, Analyses: analyses})
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "No stored entry holds %s\n", form)
		return nil
	}
	return common.Write(os.Stdout, c.String("format"), results)
}

// loadEntry reads the entry of lemma from the store, falling back to a
// diacritic-insensitive match. With --fetch a missing entry is scraped and
// stored first.
func loadEntry(c *cli.Context, logger *slog.Logger, lemma string, q models.Declension) (*lexicon.Entry, error) {
	config, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	database, err := db.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	e, err := database.GetEntryByLemma(lemma)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	similar, err := database.FindEntriesByLemmaKey(lemma)
	if err != nil {
		return nil, err
	}
	if len(similar) == 1 {
		logger.Info("Using entry with different accentuation", "lemma", lemma, "stored", similar[0].Lemma)
		return similar[0], nil
	}

	if !c.Bool("fetch") {
		if len(similar) > 1 {
			var names []string
			for _, s := range similar {
				names = append(names, s.Lemma)
			}
			return nil, fmt.Errorf("%s is ambiguous: %s", lemma, strings.Join(names, ", "))
		}
		return nil, fmt.Errorf("%s is not stored; scrape it first or pass --fetch", lemma)
	}

	s, err := common.NewScraper(config, logger)
	if err != nil {
		return nil, err
	}
	res, err := s.Scrape(c.Context, scraper.Request{Lemma: lemma, POS: q.PartOfSpeech})
	if err != nil {
		return nil, err
	}
	stored, err := database.UpsertEntry(res.Entry)
	if err != nil {
		return nil, err
	}
	if res.Page != nil {
		if _, err := database.RecordPage(stored.Lemma, res.Page); err != nil {
			logger.Warn("Failed to record page", "url", res.Page.URL, "error", err)
		}
	}
	return stored, nil
}

// describe turns resolution errors into user-facing exits.
func describe(err error) error {
	var (
		missing     *paradigm.MissingRequiredDimensionError
		absent      *paradigm.FormNotAttestedError
		unsupported *paradigm.UnsupportedPartOfSpeechError
	)
	switch {
	case errors.As(err, &missing):
		return cli.Exit(fmt.Sprintf("%v; add --%s", err, flagFor(missing.Dim)), 1)
	case errors.As(err, &absent), errors.As(err, &unsupported):
		return cli.Exit(err.Error(), 1)
	}
	return err
}

func flagFor(dim models.Dimension) string {
	if dim == models.DimDeclension {
		return "class"
	}
	return string(dim)
}
