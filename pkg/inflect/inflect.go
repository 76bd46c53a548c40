// Package inflect generates regular paradigms from a lemma and its ending
// class, for lemmas no inflection table was found for.
package inflect

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/paradigm"
)

// Case order of every ending row.
var caseOrder = []models.Tag{models.Nominative, models.Genitive, models.Dative, models.Accusative, models.Vocative}

type endingSet struct {
	singular, dual, plural [5]string
}

var (
	firstDual   = [5]string{"ᾱ", "αιν", "αιν", "ᾱ", "ᾱ"}
	firstPlural = [5]string{"αι", "ων", "αις", "ᾱς", "αι"}
)

type stemClass struct {
	suffix  string
	endings endingSet
}

// Feminine first-declension classes, matched on the lemma's last letters.
var firstFeminine = []stemClass{
	{"η", endingSet{[5]string{"η", "ης", "ῃ", "ην", "η"}, firstDual, firstPlural}},
	{"ᾱ", endingSet{[5]string{"ᾱ", "ᾱς", "ᾳ", "ᾱν", "ᾱ"}, firstDual, firstPlural}},
	{"ᾰ", endingSet{[5]string{"ᾰ", "ᾱς", "ᾳ", "ᾰν", "ᾰ"}, firstDual, firstPlural}},
	{"α", endingSet{[5]string{"ᾰ", "ᾱς", "ᾳ", "ᾰν", "ᾰ"}, firstDual, firstPlural}},
}

var firstMasculine = []stemClass{
	{"ης", endingSet{[5]string{"ης", "ου", "ῃ", "ην", "η"}, firstDual, firstPlural}},
	{"ᾱς", endingSet{[5]string{"ᾱς", "ου", "ᾳ", "ᾱν", "ᾱ"}, firstDual, firstPlural}},
	{"ας", endingSet{[5]string{"ᾱς", "ου", "ᾳ", "ᾱν", "ᾱ"}, firstDual, firstPlural}},
}

// FirstDeclension builds the paradigm of a first-declension noun. Every form
// records its stem and ending as uncontracted pieces.
func FirstDeclension(lemma string, gender string) (*paradigm.Tree, error) {
	var classes []stemClass
	switch gender {
	case models.Feminine.Value:
		classes = firstFeminine
	case models.Masculine.Value:
		classes = firstMasculine
	case models.Neuter.Value:
		return nil, fmt.Errorf("first declension has no neuter nouns: %s", lemma)
	default:
		return nil, fmt.Errorf("unknown gender %q for %s", gender, lemma)
	}

	for _, c := range classes {
		if !strings.HasSuffix(lemma, c.suffix) {
			continue
		}
		stem := strings.TrimSuffix(lemma, c.suffix)
		return decline(stem, gender, c.endings)
	}
	return nil, fmt.Errorf("no first-declension %s ending class matches %s", gender, lemma)
}

func decline(stem, gender string, e endingSet) (*paradigm.Tree, error) {
	b, err := paradigm.NewBuilder(models.PartOfSpeech{Kind: models.POSNoun}, nil)
	if err != nil {
		return nil, err
	}
	b.WithContext(models.Tag{Dim: models.DimGender, Value: gender}, models.Tag{Dim: models.DimDeclension, Value: "first"})

	rows := []struct {
		number  models.Tag
		endings [5]string
	}{
		{models.Singular, e.singular},
		{models.Dual, e.dual},
		{models.Plural, e.plural},
	}
	for _, row := range rows {
		for i, ending := range row.endings {
			f := paradigm.SurfaceForm{Contracted: stem + ending, Uncontracted: []string{stem, ending}}
			if err := b.AddSurfaceForm(f, models.NewTags(row.number, caseOrder[i])); err != nil {
				return nil, fmt.Errorf("failed to insert %s: %w", f.Contracted, err)
			}
		}
	}
	return b.Tree(), nil
}

// Thematic present active indicative endings, by number then person.
var presentActive = map[models.Tag][3][]string{
	models.Singular: {{"ω"}, {"εις"}, {"ει"}},
	models.Dual:     {nil, {"ετον"}, {"ετον"}},
	models.Plural:   {{"ομεν"}, {"ετε"}, {"ουσι", "ουσιν"}},
}

var personOrder = []models.Tag{models.First, models.Second, models.Third}

// PresentIndicative builds the present active indicative of a thematic verb
// in -ω.
func PresentIndicative(lemma string) (*paradigm.Tree, error) {
	if !strings.HasSuffix(lemma, "ω") {
		return nil, fmt.Errorf("not a thematic -ω verb: %s", lemma)
	}
	stem := strings.TrimSuffix(lemma, "ω")

	b, err := paradigm.NewBuilder(models.PartOfSpeech{Kind: models.POSVerb}, nil)
	if err != nil {
		return nil, err
	}
	b.WithContext(models.Present, models.Indicative, models.Active)

	for _, number := range []models.Tag{models.Singular, models.Dual, models.Plural} {
		for i, endings := range presentActive[number] {
			for _, ending := range endings {
				f := paradigm.SurfaceForm{Contracted: stem + ending, Uncontracted: []string{stem, ending}}
				if err := b.AddSurfaceForm(f, models.NewTags(number, personOrder[i])); err != nil {
					return nil, fmt.Errorf("failed to insert %s: %w", f.Contracted, err)
				}
			}
		}
	}
	return b.Tree(), nil
}
