package paradigm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/table"
)

// Builder inserts tagged forms into one Tree. Problems with single cells are
// logged and collected; the remaining cells still populate the tree.
type Builder struct {
	pos     models.PartOfSpeech
	tree    *Tree
	context models.Tags
	logger  *slog.Logger
	errs    []error
}

// NewBuilder starts an empty tree for pos. A nil logger discards output.
func NewBuilder(pos models.PartOfSpeech, logger *slog.Logger) (*Builder, error) {
	if _, err := SchemaFor(pos.Kind); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{
		pos:    pos,
		tree:   NewTree(),
		logger: logger,
	}, nil
}

// WithContext adds tags applied to every form inserted afterwards, such as
// the tense and voice of a participle.
func (b *Builder) WithContext(tags ...models.Tag) *Builder {
	b.context = b.context.Union(tags)
	return b
}

// Tree returns the tree built so far.
func (b *Builder) Tree() *Tree {
	return b.tree
}

// Errors returns every per-cell and per-table error recovered so far.
func (b *Builder) Errors() []error {
	return b.errs
}

// AddTable parses t and inserts its cells. A FormatError abandons the table
// and is returned; an unsupported part of speech is returned as well.
func (b *Builder) AddTable(t table.Table, c table.Classifier, opts table.Options) error {
	cells, err := table.Parse(t, c, opts)
	if err != nil {
		b.logger.Warn("Skipping malformed table", "title", t.Title, "error", err)
		b.errs = append(b.errs, err)
		return err
	}
	return b.AddCells(cells)
}

// AddCells inserts every cell, recovering from per-cell errors. Only an
// unsupported part of speech stops the insertion.
func (b *Builder) AddCells(cells []table.ParsedCell) error {
	for _, cell := range cells {
		err := b.AddForm(cell.Text, cell.Tags)
		var unsupported *UnsupportedPartOfSpeechError
		if errors.As(err, &unsupported) {
			return err
		}
	}
	return nil
}

// AddForm inserts the text of one cell under every path its tags select.
// Alternates separated by line breaks become separate forms of one leaf.
func (b *Builder) AddForm(text string, tags models.Tags) error {
	return b.record(text, tags, b.insert(text, nil, b.context.Union(tags)))
}

// AddSurfaceForm inserts a form that already carries its morpheme pieces.
func (b *Builder) AddSurfaceForm(f SurfaceForm, tags models.Tags) error {
	return b.record(f.Contracted, tags, b.insert(f.Contracted, []SurfaceForm{f}, b.context.Union(tags)))
}

func (b *Builder) record(text string, tags models.Tags, err error) error {
	if err != nil {
		var unsupported *UnsupportedPartOfSpeechError
		if errors.As(err, &unsupported) {
			b.logger.Error("No schema for part of speech", "text", text, "error", err)
		} else {
			b.logger.Warn("Skipping form", "text", text, "tags", tags.String(), "error", err)
		}
		b.errs = append(b.errs, err)
	}
	return err
}

// insert places forms, or the forms split from text when forms is nil.
func (b *Builder) insert(text string, forms []SurfaceForm, tags models.Tags) error {
	kind, err := b.kindOf(text, tags)
	if err != nil {
		return err
	}
	s, err := SchemaFor(kind)
	if err != nil {
		return err
	}

	paths, err := expand(s, tags, text, kind)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		b.logger.Debug("Form skipped by optional dimension", "text", text)
		return nil
	}

	if forms == nil {
		forms = splitForms(text, kind == models.POSVerb)
	}
	if len(forms) == 0 {
		return nil
	}

	root := b.tree.part(kind)
	for _, p := range paths {
		n := root
		for _, label := range p {
			n = n.child(label)
		}
		for _, f := range forms {
			n.addForm(f)
		}
	}

	b.tree.addDialects(tags.Values(models.DimDialect))
	if classes := tags.Values(models.DimDeclension); b.tree.Class == "" && len(classes) == 1 {
		b.tree.Class = classes[0]
	}
	return nil
}

// kindOf picks the part of speech named by the tags, falling back to the
// builder's own.
func (b *Builder) kindOf(text string, tags models.Tags) (models.POSKind, error) {
	named := tags.Values(models.DimPOS)
	switch len(named) {
	case 0:
		return b.pos.Kind, nil
	case 1:
		return models.POSKind(named[0]), nil
	}
	kinds := make([]models.POSKind, len(named))
	for i, k := range named {
		kinds[i] = models.POSKind(k)
	}
	return "", &ClassificationConflictError{Text: text, Kinds: kinds}
}

// expand lists every label path the tags select through s. A dimension
// holding several values (middle/passive) forks the path.
func expand(s *Schema, tags models.Tags, text string, kind models.POSKind) ([][]string, error) {
	if s == nil {
		return [][]string{nil}, nil
	}

	values := tags.Values(s.Dim)
	if len(values) == 0 && s.Default != "" {
		values = []string{s.Default}
	}
	if len(values) == 0 {
		if s.Required {
			return nil, &MissingDimensionError{Text: text, POS: kind, Dim: s.Dim}
		}
		return nil, nil
	}

	var out [][]string
	for _, v := range values {
		rest, err := expand(s.next(v), tags, text, kind)
		if err != nil {
			return nil, err
		}
		for _, r := range rest {
			out = append(out, append([]string{v}, r...))
		}
	}
	return out, nil
}

// splitForms turns cell text into surface forms: one per line, and for verbs
// a trailing optional group such as the movable nu of "λέγουσι(ν)" yields
// both spellings.
func splitForms(text string, optionalGroups bool) []SurfaceForm {
	var out []SurfaceForm
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, SurfaceForm{Contracted: s})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !optionalGroups {
			add(line)
			continue
		}
		for _, v := range optionalVariants(line) {
			add(v)
		}
	}
	return out
}

// optionalVariants expands one "x(y)z" group into "xz" and "xyz".
func optionalVariants(s string) []string {
	open := strings.Index(s, "(")
	if open < 0 {
		return []string{s}
	}
	closing := strings.Index(s[open:], ")")
	if closing < 0 {
		return []string{s}
	}
	closing += open
	prefix, inner, suffix := s[:open], s[open+1:closing], s[closing+1:]
	if prefix == "" {
		return []string{s}
	}
	return []string{prefix + suffix, prefix + inner + suffix}
}

// Build assembles one tree for pos from a set of tables. Per-table and
// per-cell problems are returned in the slice; only an unsupported part of
// speech is fatal.
func Build(pos models.PartOfSpeech, tables []table.Table, c table.Classifier, opts table.Options, logger *slog.Logger) (*Tree, []error, error) {
	b, err := NewBuilder(pos, logger)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range tables {
		err := b.AddTable(t, c, opts)
		var unsupported *UnsupportedPartOfSpeechError
		if errors.As(err, &unsupported) {
			return nil, b.Errors(), fmt.Errorf("failed to build %s paradigm: %w", pos, err)
		}
	}
	return b.Tree(), b.Errors(), nil
}
