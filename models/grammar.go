package models

import (
	"fmt"
	"sort"
	"strings"
)

// Dimension names one grammatical axis a table header or title can constrain.
type Dimension string

const (
	DimNumber      Dimension = "number"
	DimCase        Dimension = "case"
	DimGender      Dimension = "gender"
	DimMood        Dimension = "mood"
	DimTense       Dimension = "tense"
	DimVoice       Dimension = "voice"
	DimPerson      Dimension = "person"
	DimTheme       Dimension = "theme"
	DimContraction Dimension = "contraction"
	DimDeclension  Dimension = "declension"
	DimDialect     Dimension = "dialect"
	DimDegree      Dimension = "degree"
	DimPOS         Dimension = "pos"
)

// Dimensions lists every known dimension in canonical order.
var Dimensions = []Dimension{
	DimPOS, DimDegree, DimTense, DimTheme, DimContraction, DimMood, DimVoice,
	DimGender, DimNumber, DimCase, DimPerson, DimDeclension, DimDialect,
}

// Values accepted per dimension. An empty string is never a value; it means
// "unspecified" wherever a dimension is optional.
var dimensionValues = map[Dimension][]string{
	DimNumber:      {"singular", "dual", "plural"},
	DimCase:        {"nominative", "genitive", "dative", "accusative", "vocative"},
	DimGender:      {"masculine", "feminine", "neuter"},
	DimMood:        {"indicative", "subjunctive", "optative", "imperative", "infinitive", "participle"},
	DimTense:       {"present", "imperfect", "future", "future-perfect", "aorist", "aorist-2nd", "perfect", "perfect-2nd", "pluperfect"},
	DimVoice:       {"active", "middle", "passive"},
	DimPerson:      {"first", "second", "third"},
	DimTheme:       {"thematic", "athematic"},
	DimContraction: {"contracted", "uncontracted"},
	DimDeclension:  {"first", "second", "third", "indeclinable"},
	DimDialect:     {"attic", "koine", "epic", "laconian", "doric", "ionic", "aeolic", "homeric", "arcadocypriot", "cretan", "macedonian"},
	DimDegree:      {"positive", "comparative", "superlative"},
	DimPOS:         {"noun", "article", "pronoun", "numeral", "adjective", "verb", "adverb", "particle", "preposition", "quantifier", "interjection", "conjunction", "determiner"},
}

// ValuesOf returns the closed value set of a dimension.
func ValuesOf(d Dimension) []string {
	return dimensionValues[d]
}

// Valid reports whether v is a member of the dimension's value set.
func (d Dimension) Valid(v string) bool {
	for _, x := range dimensionValues[d] {
		if x == v {
			return true
		}
	}
	return false
}

// Tag is one grammatical category value, e.g. number:singular.
type Tag struct {
	Dim   Dimension `json:"dim" yaml:"dim"`
	Value string    `json:"value" yaml:"value"`
}

func (t Tag) String() string {
	return string(t.Dim) + ":" + t.Value
}

// ParseTag parses the "dim:value" notation used in configuration files.
func ParseTag(s string) (Tag, error) {
	dim, value, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Tag{}, fmt.Errorf("malformed tag %q: want dim:value", s)
	}
	t := Tag{Dim: Dimension(strings.TrimSpace(dim)), Value: strings.TrimSpace(value)}
	if _, known := dimensionValues[t.Dim]; !known {
		return Tag{}, fmt.Errorf("unknown dimension %q in tag %q", dim, s)
	}
	if !t.Dim.Valid(t.Value) {
		return Tag{}, fmt.Errorf("unknown %s value %q", t.Dim, t.Value)
	}
	return t, nil
}

// Tags is a sorted set of Tag values.
type Tags []Tag

// NewTags builds a normalized set from arbitrary tags.
func NewTags(tags ...Tag) Tags {
	var out Tags
	return out.Union(tags)
}

func tagLess(a, b Tag) bool {
	if a.Dim != b.Dim {
		return a.Dim < b.Dim
	}
	return a.Value < b.Value
}

// Union returns a new set holding the members of ts and other.
func (ts Tags) Union(other []Tag) Tags {
	out := make(Tags, 0, len(ts)+len(other))
	out = append(out, ts...)
	out = append(out, other...)
	sort.Slice(out, func(i, j int) bool { return tagLess(out[i], out[j]) })

	dedup := out[:0]
	for _, t := range out {
		if len(dedup) > 0 && t == dedup[len(dedup)-1] {
			continue
		}
		dedup = append(dedup, t)
	}
	return dedup
}

// Has reports whether t is a member.
func (ts Tags) Has(t Tag) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

// Values returns every value the set holds for one dimension, in order.
func (ts Tags) Values(d Dimension) []string {
	var out []string
	for _, t := range ts {
		if t.Dim == d {
			out = append(out, t.Value)
		}
	}
	return out
}

// Without returns the set minus every tag of dimension d.
func (ts Tags) Without(d Dimension) Tags {
	out := make(Tags, 0, len(ts))
	for _, t := range ts {
		if t.Dim != d {
			out = append(out, t)
		}
	}
	return out
}

func (ts Tags) String() string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Frequently used tags.
var (
	Singular = Tag{DimNumber, "singular"}
	Dual     = Tag{DimNumber, "dual"}
	Plural   = Tag{DimNumber, "plural"}

	Nominative = Tag{DimCase, "nominative"}
	Genitive   = Tag{DimCase, "genitive"}
	Dative     = Tag{DimCase, "dative"}
	Accusative = Tag{DimCase, "accusative"}
	Vocative   = Tag{DimCase, "vocative"}

	Masculine = Tag{DimGender, "masculine"}
	Feminine  = Tag{DimGender, "feminine"}
	Neuter    = Tag{DimGender, "neuter"}

	Indicative  = Tag{DimMood, "indicative"}
	Subjunctive = Tag{DimMood, "subjunctive"}
	Optative    = Tag{DimMood, "optative"}
	Imperative  = Tag{DimMood, "imperative"}
	Infinitive  = Tag{DimMood, "infinitive"}
	Participle  = Tag{DimMood, "participle"}

	Present       = Tag{DimTense, "present"}
	Imperfect     = Tag{DimTense, "imperfect"}
	Future        = Tag{DimTense, "future"}
	FuturePerfect = Tag{DimTense, "future-perfect"}
	Aorist        = Tag{DimTense, "aorist"}
	Aorist2nd     = Tag{DimTense, "aorist-2nd"}
	Perfect       = Tag{DimTense, "perfect"}
	Perfect2nd    = Tag{DimTense, "perfect-2nd"}
	Pluperfect    = Tag{DimTense, "pluperfect"}

	Active  = Tag{DimVoice, "active"}
	Middle  = Tag{DimVoice, "middle"}
	Passive = Tag{DimVoice, "passive"}

	First  = Tag{DimPerson, "first"}
	Second = Tag{DimPerson, "second"}
	Third  = Tag{DimPerson, "third"}

	Thematic     = Tag{DimTheme, "thematic"}
	Athematic    = Tag{DimTheme, "athematic"}
	Contracted   = Tag{DimContraction, "contracted"}
	Uncontracted = Tag{DimContraction, "uncontracted"}

	Positive    = Tag{DimDegree, "positive"}
	Comparative = Tag{DimDegree, "comparative"}
	Superlative = Tag{DimDegree, "superlative"}
)
