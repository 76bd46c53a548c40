// Package extractors selects the Ancient Greek parts of a Wiktionary page:
// inflection tables, headword details and definitions.
package extractors

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/lexicon"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/parser"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/table"
)

const (
	sectionID   = "Ancient_Greek"
	headingSel  = "h2, .mw-heading2"
	subheadSel  = "h2, h3, h4, h5, h6, .mw-heading"
	navFrame    = ".NavFrame"
	adjDeclSel  = ".NavFrame.grc-decl.grc-adecl"
	inflectSel  = ".NavFrame.grc-decl, .NavFrame .grc-conj"
	formOfSel   = ".form-of-definition"
	formOfLemma = ".form-of-definition-link .Polyt"
)

// Selectors of the inflection tables per part of speech. Kinds missing here
// carry no table.
var tableSelectors = map[models.POSKind]string{
	models.POSNoun:       navFrame,
	models.POSVerb:       navFrame,
	models.POSArticle:    navFrame,
	models.POSAdjective:  adjDeclSel,
	models.POSPronoun:    adjDeclSel,
	models.POSNumeral:    adjDeclSel,
	models.POSQuantifier: adjDeclSel,
}

// Heading ids the definitions of each part of speech sit under.
var headingIDs = map[models.POSKind][]string{
	models.POSNoun:         {"Noun", "Proper_noun"},
	models.POSVerb:         {"Verb"},
	models.POSArticle:      {"Article"},
	models.POSAdjective:    {"Adjective"},
	models.POSAdverb:       {"Adverb"},
	models.POSConjunction:  {"Conjunction"},
	models.POSNumeral:      {"Numeral"},
	models.POSParticle:     {"Particle", "Conjunction"},
	models.POSPreposition:  {"Preposition"},
	models.POSPronoun:      {"Pronoun"},
	models.POSQuantifier:   {"Determiner"},
	models.POSInterjection: {"Interjection"},
}

// ParticipleHeading is the heading participle pages put their definitions under.
const ParticipleHeading = "Participle"

// Wiktionary builds request URLs and reads pages of en.wiktionary.org.
type Wiktionary struct {
	PageBaseURL   string
	SearchBaseURL string

	once     sync.Once
	detector lingua.LanguageDetector
}

// NewWiktionary returns an extractor for the given page and search API bases.
func NewWiktionary(pageBaseURL, searchBaseURL string) *Wiktionary {
	return &Wiktionary{PageBaseURL: pageBaseURL, SearchBaseURL: searchBaseURL}
}

// PageURL returns the address of the page of lemma.
func (w *Wiktionary) PageURL(lemma string) string {
	return w.PageBaseURL + url.PathEscape(lemma)
}

// SearchCategories returns the categories a search for pos looks in.
func SearchCategories(pos models.PartOfSpeech, participle bool) []string {
	if participle {
		return []string{"Ancient_Greek_participles"}
	}
	switch pos.Kind {
	case models.POSNoun:
		if pos.Sub == "proper" {
			return []string{"Ancient_Greek_proper_nouns", "Ancient_Greek_proper_noun_forms"}
		}
		return []string{"Ancient_Greek_nouns", "Ancient_Greek_noun_forms"}
	case models.POSVerb:
		return []string{"Ancient_Greek_verbs", "Ancient_Greek_verb_forms"}
	case models.POSArticle:
		return []string{"Ancient_Greek_articles", "Ancient_Greek_article_forms"}
	case models.POSPronoun:
		return []string{"Ancient_Greek_pronouns", "Ancient_Greek_pronoun_forms"}
	case models.POSAdjective:
		return []string{"Ancient_Greek_adjectives", "Ancient_Greek_adjective_forms"}
	case models.POSQuantifier:
		return []string{"Ancient_Greek_determiners"}
	case models.POSNumeral:
		return []string{"Ancient_Greek_numerals"}
	case models.POSConjunction:
		return []string{"Ancient_Greek_conjunctions"}
	case models.POSAdverb:
		return []string{"Ancient_Greek_adverbs"}
	case models.POSParticle:
		return []string{"Ancient_Greek_particles"}
	case models.POSPreposition:
		return []string{"Ancient_Greek_prepositions"}
	case models.POSInterjection:
		return []string{"Ancient_Greek_interjections"}
	}
	return nil
}

// SearchURLs returns one search API query per category of pos.
func (w *Wiktionary) SearchURLs(word string, pos models.PartOfSpeech, participle bool) []string {
	var urls []string
	for _, category := range SearchCategories(pos, participle) {
		q := url.Values{}
		q.Set("format", "json")
		q.Set("action", "query")
		q.Set("list", "search")
		q.Set("srsearch", word+" incategory:"+category)
		urls = append(urls, w.SearchBaseURL+"?"+q.Encode())
	}
	return urls
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// ParseSearch reads the page titles of a search API response.
func ParseSearch(body []byte) ([]string, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	titles := make([]string, 0, len(resp.Query.Search))
	for _, s := range resp.Query.Search {
		if s.Title != "" {
			titles = append(titles, s.Title)
		}
	}
	return titles, nil
}

// AncientGreek returns the blocks of the Ancient Greek language section: the
// siblings following its heading up to the next language heading. The
// selection is empty when the page has no such section.
func AncientGreek(doc *goquery.Document) *goquery.Selection {
	anchor := doc.Find("#" + sectionID).First()
	if anchor.Length() == 0 {
		return doc.Selection.Slice(0, 0)
	}
	heading := anchor.Closest(".mw-heading2")
	if heading.Length() == 0 {
		heading = anchor.Closest("h2")
	}
	if heading.Length() == 0 {
		heading = anchor
	}
	return heading.NextUntil(headingSel)
}

// within finds sel among the blocks of sec and their descendants.
func within(sec *goquery.Selection, sel string) *goquery.Selection {
	return sec.Filter(sel).Union(sec.Find(sel))
}

// HasInflectionTable reports whether sec carries a declension or conjugation
// table.
func HasInflectionTable(sec *goquery.Selection) bool {
	return within(sec, inflectSel).Length() > 0
}

// Tables reads the inflection tables of sec that belong to kind, titled by
// their .NavHead.
func Tables(sec *goquery.Selection, kind models.POSKind) []table.Table {
	sel, ok := tableSelectors[kind]
	if !ok {
		return nil
	}
	var tables []table.Table
	within(sec, sel).Each(func(i int, frame *goquery.Selection) {
		title := frame.Find(".NavHead").First().Text()
		frame.Find("table").Not("table table").Each(func(j int, s *goquery.Selection) {
			tables = append(tables, parser.ReadTable(s, title))
		})
	})
	return tables
}

// Genders reads the genders of the headword line (m, f, n abbreviations).
func Genders(sec *goquery.Selection) []string {
	var out []string
	within(sec, ".gender").Each(func(i int, s *goquery.Selection) {
		for _, f := range strings.FieldsFunc(s.Text(), func(r rune) bool { return r < 'a' || r > 'z' }) {
			var g string
			switch f {
			case "m":
				g = models.Masculine.Value
			case "f":
				g = models.Feminine.Value
			case "n":
				g = models.Neuter.Value
			default:
				continue
			}
			if !contains(out, g) {
				out = append(out, g)
			}
		}
	})
	return out
}

// DeclensionClass reads the class from the end of the headword line, as in
// "(genitive λόγου); second declension".
func DeclensionClass(sec *goquery.Selection) string {
	line := within(sec, ".headword-line").First()
	if line.Length() == 0 {
		return ""
	}
	text := strings.ToLower(line.Parent().Text())
	if i := strings.LastIndex(text, ";"); i >= 0 {
		text = text[i+1:]
	}
	switch {
	case strings.Contains(text, "first declension"):
		return "first"
	case strings.Contains(text, "second declension"):
		return "second"
	case strings.Contains(text, "third declension"):
		return "third"
	case strings.Contains(text, "indeclinable"):
		return "indeclinable"
	}
	return ""
}

// Definitions reads the numbered sense list under the first heading of kind
// found in sec.
func (w *Wiktionary) Definitions(sec *goquery.Selection, kind models.POSKind) []lexicon.Definition {
	for _, id := range headingIDs[kind] {
		if defs := w.DefinitionsUnder(sec, id); len(defs) > 0 {
			return defs
		}
	}
	return nil
}

// DefinitionsUnder reads the sense list following the heading with the given
// id. Numbered variants of the id (Noun_2) are accepted.
func (w *Wiktionary) DefinitionsUnder(sec *goquery.Selection, id string) []lexicon.Definition {
	var defs []lexicon.Definition
	within(sec, "[id]").EachWithBreak(func(i int, anchor *goquery.Selection) bool {
		if !matchesID(anchor.AttrOr("id", ""), id) {
			return true
		}
		heading := anchor.Closest(".mw-heading")
		if heading.Length() == 0 {
			heading = anchor.Closest("h3, h4, h5, h6")
		}
		if heading.Length() == 0 {
			return true
		}
		list := heading.NextUntil(subheadSel).Filter("ol").First()
		list.ChildrenFiltered("li").Each(func(j int, li *goquery.Selection) {
			if d, ok := w.readDefinition(li); ok {
				defs = append(defs, d)
			}
		})
		return len(defs) == 0
	})
	return defs
}

func matchesID(have, want string) bool {
	if have == want {
		return true
	}
	rest, ok := strings.CutPrefix(have, want+"_")
	if !ok || rest == "" {
		return false
	}
	return strings.Trim(rest, "0123456789") == ""
}

func (w *Wiktionary) readDefinition(li *goquery.Selection) (lexicon.Definition, bool) {
	if formOf := li.Find(formOfSel).First(); formOf.Length() > 0 {
		lemma := clean(li.Find(formOfLemma).First().Text())
		if lemma == "" {
			lemma = clean(li.Find(".form-of-definition-link").First().Text())
		}
		return lexicon.Definition{
			Kind:     lexicon.FormOf,
			Text:     clean(formOf.Text()),
			Lemma:    lemma,
			Language: w.language(formOf.Text()),
		}, lemma != ""
	}

	sense := li.Clone()
	sense.Find("ul, ol, dl, .citation-whole, .HQToggle").Remove()
	text := clean(sense.Text())
	if text == "" {
		return lexicon.Definition{}, false
	}
	return lexicon.Definition{Kind: lexicon.Literal, Text: text, Language: w.language(text)}, true
}

// language names the language a definition is written in, english or greek.
func (w *Wiktionary) language(text string) string {
	w.once.Do(func() {
		w.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Greek).
			Build()
	})
	lang, ok := w.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.String())
}

// ParticipleContext reads the tense and voices of a participle from its
// form-of line, e.g. "present mediopassive participle of λύω".
func ParticipleContext(text string) (models.Tags, error) {
	text = strings.ToLower(text)
	words := strings.Fields(text)

	var tags models.Tags
	switch {
	case strings.Contains(text, "future perfect"):
		tags = tags.Union([]models.Tag{models.FuturePerfect})
	case strings.Contains(text, "second aorist"), strings.Contains(text, "2nd aorist"):
		tags = tags.Union([]models.Tag{models.Aorist2nd})
	case strings.Contains(text, "second perfect"), strings.Contains(text, "2nd perfect"):
		tags = tags.Union([]models.Tag{models.Perfect2nd})
	default:
		for _, w := range words {
			if models.DimTense.Valid(w) {
				tags = tags.Union([]models.Tag{{Dim: models.DimTense, Value: w}})
				break
			}
		}
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("no tense in participle definition %q", text)
	}

	voices := 0
	for _, w := range words {
		switch w {
		case "mediopassive", "middle/passive":
			tags = tags.Union([]models.Tag{models.Middle, models.Passive})
			voices++
		case "active", "middle", "passive":
			tags = tags.Union([]models.Tag{{Dim: models.DimVoice, Value: w}})
			voices++
		}
	}
	if voices == 0 {
		return nil, fmt.Errorf("no voice in participle definition %q", text)
	}
	return tags.Union([]models.Tag{models.Participle}), nil
}

// CitationForms gives the degree rows of an adjective table, which carry a
// single form without gender, number or case, the tags of the citation form.
func CitationForms(cells []table.ParsedCell) []table.ParsedCell {
	out := make([]table.ParsedCell, len(cells))
	for i, c := range cells {
		out[i] = c
		if len(c.Tags.Values(models.DimDegree)) == 0 || len(c.Tags.Values(models.DimPOS)) > 0 {
			continue
		}
		if len(c.Tags.Values(models.DimGender))+len(c.Tags.Values(models.DimNumber))+len(c.Tags.Values(models.DimCase)) > 0 {
			continue
		}
		out[i].Tags = c.Tags.Union([]models.Tag{models.Masculine, models.Singular, models.Nominative})
	}
	return out
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// ParticipleDefaults tags participle cells lacking a number or a case as
// singular or nominative.
func ParticipleDefaults(cells []table.ParsedCell) []table.ParsedCell {
	out := make([]table.ParsedCell, len(cells))
	for i, c := range cells {
		out[i] = c
		if len(c.Tags.Values(models.DimNumber)) == 0 {
			out[i].Tags = out[i].Tags.Union([]models.Tag{models.Singular})
		}
		if len(c.Tags.Values(models.DimCase)) == 0 {
			out[i].Tags = out[i].Tags.Union([]models.Tag{models.Nominative})
		}
	}
	return out
}
