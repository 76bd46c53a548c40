package models

import (
	"fmt"
	"strings"
)

// POSKind is the bare part-of-speech discriminant.
type POSKind string

const (
	POSNoun         POSKind = "noun"
	POSArticle      POSKind = "article"
	POSPronoun      POSKind = "pronoun"
	POSNumeral      POSKind = "numeral"
	POSAdjective    POSKind = "adjective"
	POSVerb         POSKind = "verb"
	POSAdverb       POSKind = "adverb"
	POSParticle     POSKind = "particle"
	POSPreposition  POSKind = "preposition"
	POSQuantifier   POSKind = "quantifier"
	POSInterjection POSKind = "interjection"
	POSConjunction  POSKind = "conjunction"
	POSDeterminer   POSKind = "determiner"
)

// Sub-kinds accepted per part of speech. Kinds missing from this map take no
// sub-kind at all.
var posSubKinds = map[POSKind][]string{
	POSNoun:      {"common", "proper"},
	POSArticle:   {"definite", "indefinite"},
	POSPronoun:   {"personal", "relative", "interrogative", "indefinite", "reciprocal", "reflexive", "demonstrative", "possessive"},
	POSNumeral:   {"cardinal", "ordinal", "adverbial", "multiplicative"},
	POSAdjective: {"positive", "comparative", "superlative"},
}

// PartOfSpeech is a part-of-speech discriminant with its optional sub-kind,
// e.g. noun:proper or adjective:comparative.
type PartOfSpeech struct {
	Kind POSKind
	Sub  string
}

// ParsePartOfSpeech reads the "kind[:sub]" notation.
func ParsePartOfSpeech(s string) (PartOfSpeech, error) {
	kind, sub, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	p := PartOfSpeech{Kind: POSKind(kind), Sub: sub}
	if !DimPOS.Valid(kind) {
		return PartOfSpeech{}, fmt.Errorf("unknown part of speech %q", kind)
	}
	if sub == "" {
		return p, nil
	}
	for _, v := range posSubKinds[p.Kind] {
		if v == sub {
			return p, nil
		}
	}
	return PartOfSpeech{}, fmt.Errorf("unknown %s kind %q", kind, sub)
}

func (p PartOfSpeech) String() string {
	if p.Sub == "" {
		return string(p.Kind)
	}
	return string(p.Kind) + ":" + p.Sub
}

func (p PartOfSpeech) IsZero() bool {
	return p.Kind == ""
}

func (p PartOfSpeech) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PartOfSpeech) UnmarshalText(b []byte) error {
	parsed, err := ParsePartOfSpeech(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Declension is a grammatical specification: the part of speech plus one
// optional value per dimension. Empty strings mean "unspecified".
type Declension struct {
	PartOfSpeech PartOfSpeech `json:"part_of_speech" yaml:"part_of_speech"`
	Tense        string       `json:"tense,omitempty" yaml:"tense,omitempty"`
	Theme        string       `json:"theme,omitempty" yaml:"theme,omitempty"`
	Contraction  string       `json:"contraction,omitempty" yaml:"contraction,omitempty"`
	Mood         string       `json:"mood,omitempty" yaml:"mood,omitempty"`
	Voice        string       `json:"voice,omitempty" yaml:"voice,omitempty"`
	Degree       string       `json:"degree,omitempty" yaml:"degree,omitempty"`
	Gender       string       `json:"gender,omitempty" yaml:"gender,omitempty"`
	Number       string       `json:"number,omitempty" yaml:"number,omitempty"`
	Case         string       `json:"case,omitempty" yaml:"case,omitempty"`
	Person       string       `json:"person,omitempty" yaml:"person,omitempty"`
	Class        string       `json:"class,omitempty" yaml:"class,omitempty"`
	Dialect      string       `json:"dialect,omitempty" yaml:"dialect,omitempty"`
}

func (d *Declension) field(dim Dimension) *string {
	switch dim {
	case DimTense:
		return &d.Tense
	case DimTheme:
		return &d.Theme
	case DimContraction:
		return &d.Contraction
	case DimMood:
		return &d.Mood
	case DimVoice:
		return &d.Voice
	case DimDegree:
		return &d.Degree
	case DimGender:
		return &d.Gender
	case DimNumber:
		return &d.Number
	case DimCase:
		return &d.Case
	case DimPerson:
		return &d.Person
	case DimDeclension:
		return &d.Class
	case DimDialect:
		return &d.Dialect
	}
	return nil
}

// Value returns the value set for dim, or "" when unspecified. An adjective's
// degree falls back to the part-of-speech sub-kind.
func (d Declension) Value(dim Dimension) string {
	if dim == DimPOS {
		return string(d.PartOfSpeech.Kind)
	}
	f := d.field(dim)
	if f == nil {
		return ""
	}
	if *f == "" && dim == DimDegree && d.PartOfSpeech.Kind == POSAdjective {
		return d.PartOfSpeech.Sub
	}
	return *f
}

// Set assigns one dimension, validating the value.
func (d *Declension) Set(dim Dimension, value string) error {
	if dim == DimPOS {
		p, err := ParsePartOfSpeech(value)
		if err != nil {
			return err
		}
		d.PartOfSpeech = p
		return nil
	}
	f := d.field(dim)
	if f == nil {
		return fmt.Errorf("unknown dimension %q", dim)
	}
	if value != "" && !dim.Valid(value) {
		return fmt.Errorf("unknown %s value %q", dim, value)
	}
	*f = value
	return nil
}

// Tags converts every specified dimension into a tag.
func (d Declension) Tags() Tags {
	var out []Tag
	for _, dim := range Dimensions {
		if dim == DimPOS {
			continue
		}
		if v := d.Value(dim); v != "" {
			out = append(out, Tag{Dim: dim, Value: v})
		}
	}
	return NewTags(out...)
}

// Equal compares two declensions field by field.
func (d Declension) Equal(o Declension) bool {
	return d == o
}

func (d Declension) String() string {
	parts := []string{d.PartOfSpeech.String()}
	for _, t := range d.Tags() {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}
