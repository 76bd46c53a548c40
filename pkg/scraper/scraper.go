// Package scraper drives extraction: it fetches the page of a lemma, selects
// its tables and definitions, and builds a lexicon entry from them.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/extractors"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/fuzzy"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/inflect"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/lexicon"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/paradigm"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/parser"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/table"
)

// maxRedirects bounds how many form-of definitions are followed to a lemma.
const maxRedirects = 3

var (
	// ErrNoSection is returned for pages without an Ancient Greek section.
	ErrNoSection = errors.New("no Ancient Greek section")
	// ErrNoLemma is returned when no search result is close to the word.
	ErrNoLemma = errors.New("no matching lemma")
)

// Getter fetches the body of a url.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Request names one lemma to extract.
type Request struct {
	Lemma string              `json:"lemma" yaml:"lemma"`
	POS   models.PartOfSpeech `json:"pos" yaml:"pos"`
	// Participle marks the lemma as a participle; its forms are stored under
	// the parent verb.
	Participle bool `json:"participle,omitempty" yaml:"participle,omitempty"`
}

func (r Request) String() string {
	if r.Participle {
		return r.Lemma + " (participle)"
	}
	return r.Lemma + " (" + r.POS.String() + ")"
}

// Result is the outcome of one request.
type Result struct {
	Request Request
	Entry   *lexicon.Entry
	Page    *models.Page
	// Skipped lists the cells and tables that could not be placed.
	Skipped []error
	// Generated is set when no table was found and the paradigm was built
	// from the lemma's ending class.
	Generated bool
	Error     error
}

type Scraper struct {
	fetcher    Getter
	wiki       *extractors.Wiktionary
	parser     *parser.Parser
	classifier table.Classifier
	opts       table.Options
	logger     *slog.Logger
}

// New returns a scraper. A nil logger discards output.
func New(f Getter, w *extractors.Wiktionary, c table.Classifier, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scraper{
		fetcher:    f,
		wiki:       w,
		parser:     &parser.Parser{},
		classifier: c,
		opts:       table.DefaultOptions(),
		logger:     logger,
	}
}

type fetchedPage struct {
	doc     *parser.Document
	section *goquery.Selection
}

func (s *Scraper) load(ctx context.Context, lemma string) (*fetchedPage, error) {
	url := s.wiki.PageURL(lemma)
	body, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", lemma, err)
	}
	doc, err := s.parser.ParsePage(url, string(body))
	if err != nil {
		return nil, err
	}
	sec := extractors.AncientGreek(doc.DOM)
	if sec.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", lemma, ErrNoSection)
	}
	return &fetchedPage{doc: doc, section: sec}, nil
}

// Scrape extracts the entry of one lemma. Pages without an inflection table
// whose first definition points at another lemma are followed.
func (s *Scraper) Scrape(ctx context.Context, req Request) (*Result, error) {
	if req.Participle {
		return s.scrapeParticiple(ctx, req)
	}
	return s.scrape(ctx, req, 0)
}

func (s *Scraper) scrape(ctx context.Context, req Request, depth int) (*Result, error) {
	kind := req.POS.Kind
	if !paradigm.IsInvariant(kind) {
		if _, err := paradigm.SchemaFor(kind); err != nil {
			return nil, err
		}
	}

	p, err := s.load(ctx, req.Lemma)
	if err != nil {
		return nil, err
	}
	defs := s.wiki.Definitions(p.section, kind)

	res := &Result{Request: req, Entry: lexicon.NewEntry(req.Lemma), Page: p.doc.Page}
	for _, d := range defs {
		res.Entry.AddDefinition(d)
	}

	if paradigm.IsInvariant(kind) {
		res.Entry.AddParadigm(paradigm.Invariant(kind, req.Lemma))
		return res, nil
	}

	tables := extractors.Tables(p.section, kind)
	if len(tables) == 0 {
		if len(defs) > 0 && defs[0].Kind == lexicon.FormOf && depth < maxRedirects {
			s.logger.Info("Following form-of definition", "lemma", req.Lemma, "target", defs[0].Lemma)
			next := req
			next.Lemma = defs[0].Lemma
			return s.scrape(ctx, next, depth+1)
		}
		return s.generate(res, p.section)
	}

	shared := s.sharedTags(req.POS, p.section)
	for _, t := range tables {
		tree, skipped, err := s.buildTable(req.POS, t, shared, preparer(kind))
		res.Skipped = append(res.Skipped, skipped...)
		if err != nil {
			var unsupported *paradigm.UnsupportedPartOfSpeechError
			if errors.As(err, &unsupported) {
				return nil, err
			}
			continue
		}
		res.Entry.AddParadigm(tree)
	}

	if len(res.Entry.Paradigms) == 0 {
		return nil, fmt.Errorf("no forms extracted for %s", req.Lemma)
	}
	s.logger.Info("Scraped lemma", "lemma", req.Lemma, "tables", len(tables), "paradigms", len(res.Entry.Paradigms), "skipped", len(res.Skipped))
	return res, nil
}

// sharedTags lists the tags the page states once for every table, such as a
// noun's gender.
func (s *Scraper) sharedTags(pos models.PartOfSpeech, sec *goquery.Selection) []models.Tag {
	var tags []models.Tag
	switch pos.Kind {
	case models.POSNoun:
		for _, g := range extractors.Genders(sec) {
			tags = append(tags, models.Tag{Dim: models.DimGender, Value: g})
		}
		if class := extractors.DeclensionClass(sec); class != "" {
			tags = append(tags, models.Tag{Dim: models.DimDeclension, Value: class})
		}
	case models.POSAdjective:
		if pos.Sub != "" && pos.Sub != models.Positive.Value {
			tags = append(tags, models.Tag{Dim: models.DimDegree, Value: pos.Sub})
		}
	}
	return tags
}

// buildTable turns one table into its own tree so that tables of different
// dialects land in different paradigms. prepare, when set, rewrites the
// parsed cells before insertion.
func (s *Scraper) buildTable(pos models.PartOfSpeech, t table.Table, shared []models.Tag, prepare func([]table.ParsedCell) []table.ParsedCell) (*paradigm.Tree, []error, error) {
	b, err := paradigm.NewBuilder(pos, s.logger)
	if err != nil {
		return nil, nil, err
	}
	b.WithContext(shared...)

	if prepare == nil {
		err := b.AddTable(t, s.classifier, s.opts)
		return b.Tree(), b.Errors(), err
	}
	cells, err := table.Parse(t, s.classifier, s.opts)
	if err != nil {
		s.logger.Warn("Skipping malformed table", "title", t.Title, "error", err)
		return nil, []error{err}, err
	}
	err = b.AddCells(prepare(cells))
	return b.Tree(), b.Errors(), err
}

// preparer returns the cell rewrite a part of speech needs, if any.
func preparer(kind models.POSKind) func([]table.ParsedCell) []table.ParsedCell {
	switch kind {
	case models.POSAdjective, models.POSPronoun, models.POSNumeral, models.POSQuantifier:
		return extractors.CitationForms
	}
	return nil
}

// generate builds a regular paradigm when the page has no table.
func (s *Scraper) generate(res *Result, sec *goquery.Selection) (*Result, error) {
	lemma := res.Request.Lemma
	var (
		tree *paradigm.Tree
		err  error
	)
	switch res.Request.POS.Kind {
	case models.POSNoun:
		genders := extractors.Genders(sec)
		if len(genders) != 1 || extractors.DeclensionClass(sec) != "first" {
			return nil, fmt.Errorf("no inflection table for %s", lemma)
		}
		tree, err = inflect.FirstDeclension(lemma, genders[0])
	case models.POSVerb:
		tree, err = inflect.PresentIndicative(lemma)
	default:
		return nil, fmt.Errorf("no inflection table for %s", lemma)
	}
	if err != nil {
		return nil, fmt.Errorf("no inflection table for %s: %w", lemma, err)
	}

	s.logger.Info("Generated paradigm from ending class", "lemma", lemma, "forms", tree.Count())
	res.Entry.AddParadigm(tree)
	res.Generated = true
	return res, nil
}

// scrapeParticiple reads a participle page. Its tense and voices come from
// the form-of line; the entry returned belongs to the parent verb.
func (s *Scraper) scrapeParticiple(ctx context.Context, req Request) (*Result, error) {
	p, err := s.load(ctx, req.Lemma)
	if err != nil {
		return nil, err
	}

	defs := s.wiki.DefinitionsUnder(p.section, extractors.ParticipleHeading)
	if len(defs) == 0 || defs[0].Kind != lexicon.FormOf {
		return nil, fmt.Errorf("cannot find the verb of participle %s", req.Lemma)
	}
	shared, err := extractors.ParticipleContext(defs[0].Text)
	if err != nil {
		return nil, err
	}

	verb := models.PartOfSpeech{Kind: models.POSVerb}
	res := &Result{Request: req, Entry: lexicon.NewEntry(defs[0].Lemma), Page: p.doc.Page}
	res.Entry.AddDefinition(defs[0])

	for _, t := range extractors.Tables(p.section, models.POSVerb) {
		tree, skipped, err := s.buildTable(verb, t, shared, extractors.ParticipleDefaults)
		res.Skipped = append(res.Skipped, skipped...)
		if err != nil {
			continue
		}
		res.Entry.AddParadigm(tree)
	}
	if len(res.Entry.Paradigms) == 0 {
		return nil, fmt.Errorf("no forms extracted for participle %s", req.Lemma)
	}
	return res, nil
}

// FindLemma searches for the lemma whose page best matches an observed word.
// A third person singular verb ending in ν is searched again without it.
func (s *Scraper) FindLemma(ctx context.Context, word string, q models.Declension) (string, error) {
	participle := q.Mood == models.Participle.Value
	var titles []string
	for _, url := range s.wiki.SearchURLs(word, q.PartOfSpeech, participle) {
		body, err := s.fetcher.Get(ctx, url)
		if err != nil {
			return "", fmt.Errorf("failed to search %s: %w", word, err)
		}
		found, err := extractors.ParseSearch(body)
		if err != nil {
			return "", err
		}
		titles = append(titles, found...)
	}

	if best, ok := fuzzy.Closest(word, titles); ok && best.Score > 0 {
		s.logger.Debug("Closest search result", "word", word, "lemma", best.Candidate, "score", best.Score)
		return s.validate(ctx, best.Candidate, q.PartOfSpeech.Kind, 0)
	}

	if q.PartOfSpeech.Kind == models.POSVerb && q.Person == models.Third.Value &&
		q.Number == models.Singular.Value && strings.HasSuffix(word, "ν") {
		trimmed := strings.TrimSuffix(word, "ν")
		s.logger.Info("No match found, retrying without movable nu", "word", trimmed)
		return s.FindLemma(ctx, trimmed, q)
	}
	return "", fmt.Errorf("%s: %w", word, ErrNoLemma)
}

// validate follows form-of definitions from a page without an inflection
// table to the page that has one.
func (s *Scraper) validate(ctx context.Context, lemma string, kind models.POSKind, depth int) (string, error) {
	if paradigm.IsInvariant(kind) || depth >= maxRedirects {
		return lemma, nil
	}
	p, err := s.load(ctx, lemma)
	if err != nil {
		return "", err
	}
	if extractors.HasInflectionTable(p.section) {
		return lemma, nil
	}
	defs := s.wiki.Definitions(p.section, kind)
	if len(defs) > 0 && defs[0].Kind == lexicon.FormOf {
		s.logger.Debug("Found form of", "form", lemma, "lemma", defs[0].Lemma)
		return s.validate(ctx, defs[0].Lemma, kind, depth+1)
	}
	return lemma, nil
}
