// Package paradigm assembles tagged surface forms into nested paradigm trees
// and resolves grammatical queries against them.
//
// The nesting of every part of speech is declared once, as a Schema: an
// ordered walk over grammatical dimensions. Building, resolving and
// computing store paths all interpret the same schema.
package paradigm

import (
	"github.com/dtnitsch/grc-lexicon-parser/models"
)

// Schema is one step of a paradigm walk. A nil *Schema is a leaf.
type Schema struct {
	Dim models.Dimension
	// Required dimensions must be supplied by the form or the query.
	Required bool
	// Default is used when the dimension is absent. Optional dimensions
	// without a default skip the form entirely.
	Default string
	// Next is the following step, unless Branches overrides it for the
	// value taken at this step.
	Next     *Schema
	Branches map[string]*Schema
}

func (s *Schema) next(value string) *Schema {
	if b, ok := s.Branches[value]; ok {
		return b
	}
	return s.Next
}

// Dimensions lists every dimension reachable from s, breadth first, without
// duplicates.
func (s *Schema) Dimensions() []models.Dimension {
	var out []models.Dimension
	seen := make(map[models.Dimension]bool)
	queue := []*Schema{s}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil {
			continue
		}
		if !seen[cur.Dim] {
			seen[cur.Dim] = true
			out = append(out, cur.Dim)
		}
		queue = append(queue, cur.Next)
		for _, b := range cur.Branches {
			queue = append(queue, b)
		}
	}
	return out
}

func required(dim models.Dimension, next *Schema) *Schema {
	return &Schema{Dim: dim, Required: true, Next: next}
}

func defaulted(dim models.Dimension, value string, next *Schema) *Schema {
	return &Schema{Dim: dim, Default: value, Next: next}
}

// nominal builds a fresh gender, number, case chain.
func nominal() *Schema {
	return required(models.DimGender,
		required(models.DimNumber,
			required(models.DimCase, nil)))
}

func verb() *Schema {
	mood := required(models.DimMood,
		required(models.DimVoice,
			required(models.DimNumber,
				required(models.DimPerson, nil))))
	mood.Branches = map[string]*Schema{
		models.Participle.Value: required(models.DimVoice, nominal()),
		models.Infinitive.Value: required(models.DimVoice, nil),
	}

	return required(models.DimTense,
		defaulted(models.DimTheme, models.Thematic.Value,
			defaulted(models.DimContraction, models.Contracted.Value, mood)))
}

var schemas = map[models.POSKind]*Schema{
	models.POSNoun:       nominal(),
	models.POSArticle:    nominal(),
	models.POSPronoun:    nominal(),
	models.POSNumeral:    nominal(),
	models.POSQuantifier: nominal(),
	models.POSAdjective:  defaulted(models.DimDegree, models.Positive.Value, nominal()),
	models.POSVerb:       verb(),
}

// Parts of speech whose only form is the lemma itself.
var invariant = map[models.POSKind]bool{
	models.POSAdverb:       true,
	models.POSParticle:     true,
	models.POSPreposition:  true,
	models.POSConjunction:  true,
	models.POSInterjection: true,
}

// SchemaFor returns the walk declared for kind. Invariant parts of speech
// have a nil schema.
func SchemaFor(kind models.POSKind) (*Schema, error) {
	if invariant[kind] {
		return nil, nil
	}
	s, ok := schemas[kind]
	if !ok {
		return nil, &UnsupportedPartOfSpeechError{POS: kind}
	}
	return s, nil
}

// IsInvariant reports whether kind has no inflection.
func IsInvariant(kind models.POSKind) bool {
	return invariant[kind]
}
