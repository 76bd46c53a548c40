// Package lexicon holds lexicon entries: the paradigms and definitions known
// for one lemma.
package lexicon

import (
	"errors"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/fuzzy"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/paradigm"
)

// DefinitionKind tells a gloss apart from a pointer to another lemma.
type DefinitionKind string

const (
	Literal DefinitionKind = "literal"
	FormOf  DefinitionKind = "form-of"
)

// Definition is one sense line. Lemma is set for form-of definitions.
type Definition struct {
	Kind     DefinitionKind `json:"kind" yaml:"kind"`
	Text     string         `json:"text" yaml:"text"`
	Lemma    string         `json:"lemma,omitempty" yaml:"lemma,omitempty"`
	Language string         `json:"language,omitempty" yaml:"language,omitempty"`
}

// Entry is the durable record of one lemma. Paradigms are ordered; each
// covers one dialect set.
type Entry struct {
	ID          string           `json:"id" yaml:"id"`
	Lemma       string           `json:"lemma" yaml:"lemma"`
	Paradigms   []*paradigm.Tree `json:"paradigms" yaml:"paradigms"`
	Definitions []Definition     `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	Parts       []models.POSKind `json:"parts_of_speech,omitempty" yaml:"parts_of_speech,omitempty"`
	CreatedAt   time.Time        `json:"created_at" yaml:"created_at"`
}

// NewEntry creates an empty entry with a fresh ID.
func NewEntry(lemma string) *Entry {
	return &Entry{
		ID:        ulid.Make().String(),
		Lemma:     lemma,
		CreatedAt: time.Now().UTC(),
	}
}

// AddParadigm unions t into the paradigm of the same dialect set, or appends
// it. Empty trees are ignored.
func (e *Entry) AddParadigm(t *paradigm.Tree) {
	if t == nil || t.IsEmpty() {
		return
	}
	for kind := range t.Parts {
		e.addPart(kind)
	}
	for _, have := range e.Paradigms {
		if have.SameDialects(t) {
			have.Merge(t)
			return
		}
	}
	e.Paradigms = append(e.Paradigms, t)
}

// AddDefinition appends d unless an identical definition exists.
func (e *Entry) AddDefinition(d Definition) {
	for _, have := range e.Definitions {
		if have == d {
			return
		}
	}
	e.Definitions = append(e.Definitions, d)
}

// Merge folds a later extraction of the same lemma into e. The ID and
// creation time of e are kept.
func (e *Entry) Merge(other *Entry) {
	if other == nil {
		return
	}
	for _, t := range other.Paradigms {
		e.AddParadigm(t)
	}
	for _, d := range other.Definitions {
		e.AddDefinition(d)
	}
	for _, k := range other.Parts {
		e.addPart(k)
	}
}

func (e *Entry) addPart(kind models.POSKind) {
	for _, k := range e.Parts {
		if k == kind {
			return
		}
	}
	e.Parts = append(e.Parts, kind)
	sort.Slice(e.Parts, func(i, j int) bool { return e.Parts[i] < e.Parts[j] })
}

// Resolve returns the forms of the first paradigm, in order, that attests
// q. Query errors are returned before any paradigm is consulted.
func (e *Entry) Resolve(q models.Declension) ([]paradigm.SurfaceForm, error) {
	path, err := paradigm.Path(q)
	if err != nil {
		return nil, err
	}

	deepest := &paradigm.FormNotAttestedError{Path: path[:1]}
	for _, t := range e.Paradigms {
		forms, err := paradigm.Resolve(t, q)
		if err == nil {
			return forms, nil
		}
		var absent *paradigm.FormNotAttestedError
		if !errors.As(err, &absent) {
			return nil, err
		}
		if len(absent.Path) > len(deepest.Path) {
			deepest = absent
		}
	}
	return nil, deepest
}

// Match resolves q and ranks the resulting forms against observed.
func (e *Entry) Match(observed string, q models.Declension) ([]fuzzy.Match, error) {
	forms, err := e.Resolve(q)
	if err != nil {
		return nil, err
	}
	return fuzzy.Rank(observed, Candidates(forms)), nil
}

// Candidates lists the contracted spellings of forms.
func Candidates(forms []paradigm.SurfaceForm) []string {
	out := make([]string, 0, len(forms))
	for _, f := range forms {
		if f.Contracted != "" {
			out = append(out, f.Contracted)
		}
	}
	return out
}

// Analysis is one reading of an observed form.
type Analysis struct {
	Form       string            `json:"form" yaml:"form"`
	Score      float64           `json:"score" yaml:"score"`
	Declension models.Declension `json:"declension" yaml:"declension"`
	Dialects   []string          `json:"dialects,omitempty" yaml:"dialects,omitempty"`
}

// Identify scores every form of every paradigm against observed and returns
// the plausible readings, best first.
func (e *Entry) Identify(observed string) []Analysis {
	var out []Analysis
	for _, t := range e.Paradigms {
		for kind, root := range t.Parts {
			root.Walk(func(path []string, forms []paradigm.SurfaceForm) {
				d, err := paradigm.DeclensionAt(append([]string{string(kind)}, path...))
				if err != nil {
					return
				}
				for _, f := range forms {
					score := fuzzy.Score(observed, f.Contracted)
					if score <= 0 {
						continue
					}
					out = append(out, Analysis{Form: f.Contracted, Score: score, Declension: d, Dialects: t.Dialects})
				}
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Declension.String() < out[j].Declension.String()
	})
	return out
}
