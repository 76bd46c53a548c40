package scraper

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/classifier"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/extractors"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/fetcher"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/lexicon"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/paradigm"
)

const (
	pageBase   = "https://wiki.test/wiki/"
	searchBase = "https://wiki.test/w/api.php"
)

// fakeGetter serves fixed bodies by url.
type fakeGetter struct {
	mu     sync.Mutex
	bodies map[string]string
}

func (f *fakeGetter) Get(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.bodies[url]
	if !ok {
		return nil, fetcher.ErrNotFound
	}
	return []byte(body), nil
}

const logosPage = `<html><body>
<div class="mw-heading mw-heading2"><h2 id="Ancient_Greek">Ancient Greek</h2></div>
<div class="mw-heading mw-heading4"><h4 id="Noun">Noun</h4></div>
<p><span class="headword-line"><strong class="Polyt headword">λόγος</strong> <span class="gender"><abbr>m</abbr></span></span> (genitive λόγου); second declension</p>
<ol><li>word, speech</li></ol>
<div class="NavFrame grc-decl"><div class="NavHead">Second declension of ὁ λόγος</div>
<table>
<tr><th>case / #</th><th>singular</th><th>plural</th></tr>
<tr><th>nominative</th><td><span class="Polyt">ὁ λόγος</span></td><td><span class="Polyt">οἱ λόγοι</span></td></tr>
<tr><th>genitive</th><td><span class="Polyt">τοῦ λόγου</span></td><td><span class="Polyt">τῶν λόγων</span></td></tr>
<tr><th>notes:</th><td colspan="2">This table gives Attic inflectional endings.</td></tr>
</table></div>
<div class="NavFrame grc-decl"><div class="NavHead">Second declension of λόγος (Epic)</div>
<table>
<tr><th>case / #</th><th>singular</th></tr>
<tr><th>genitive</th><td><span class="Polyt">λόγοιο</span></td></tr>
</table></div>
</body></html>`

const logouPage = `<html><body>
<div class="mw-heading mw-heading2"><h2 id="Ancient_Greek">Ancient Greek</h2></div>
<div class="mw-heading mw-heading4"><h4 id="Noun">Noun</h4></div>
<ol><li><span class="form-of-definition">genitive singular of <span class="form-of-definition-link"><span class="Polyt">λόγος</span></span></span></li></ol>
</body></html>`

const legoPage = `<html><body>
<div class="mw-heading mw-heading2"><h2 id="Ancient_Greek">Ancient Greek</h2></div>
<div class="mw-heading mw-heading4"><h4 id="Verb">Verb</h4></div>
<ol><li>to say, speak</li></ol>
<div class="NavFrame"><div class="NavHead">Present: λέγω, λέγομαι</div>
<table class="grc-conj">
<tr><th colspan="4">active</th></tr>
<tr><th colspan="2"></th><th>singular</th><th>plural</th></tr>
<tr><th rowspan="2">indicative</th><th>first</th><td><span class="Polyt">λέγω</span></td><td><span class="Polyt">λέγομεν</span></td></tr>
<tr><th>third</th><td><span class="Polyt">λέγει</span></td><td><span class="Polyt">λέγουσι</span><span class="Polyt">ν</span></td></tr>
</table></div>
<div class="NavFrame"><div class="NavHead">Imperfect: ἔλεγον, ἐλεγόμην</div>
<table class="grc-conj">
<tr><th colspan="3">active</th></tr>
<tr><th colspan="2"></th><th>singular</th></tr>
<tr><th>indicative</th><th>first</th><td><span class="Polyt">ἔλεγον</span></td></tr>
</table></div>
</body></html>`

const lyomenosPage = `<html><body>
<h2><span class="mw-headline" id="Ancient_Greek">Ancient Greek</span></h2>
<h3><span class="mw-headline" id="Participle">Participle</span></h3>
<ol><li><span class="form-of-definition">present mediopassive participle of <span class="form-of-definition-link"><i class="Polyt">λύω</i></span></span></li></ol>
<div class="NavFrame grc-decl"><div class="NavHead">Declension of λυόμενος</div>
<table>
<tr><th></th><th>masculine</th><th>feminine</th></tr>
<tr><th>nominative</th><td><span class="Polyt">λυόμενος</span></td><td><span class="Polyt">λυομένη</span></td></tr>
<tr><th>genitive</th><td><span class="Polyt">λυομένου</span></td><td><span class="Polyt">λυομένης</span></td></tr>
</table></div>
</body></html>`

const timePage = `<html><body>
<div class="mw-heading mw-heading2"><h2 id="Ancient_Greek">Ancient Greek</h2></div>
<div class="mw-heading mw-heading4"><h4 id="Noun">Noun</h4></div>
<p><span class="headword-line"><strong class="Polyt headword">τιμη</strong> <span class="gender"><abbr>f</abbr></span></span> (genitive τιμης); first declension</p>
<ol><li>honour</li></ol>
</body></html>`

const kaiPage = `<html><body>
<div class="mw-heading mw-heading2"><h2 id="Ancient_Greek">Ancient Greek</h2></div>
<div class="mw-heading mw-heading4"><h4 id="Conjunction">Conjunction</h4></div>
<ol><li>and</li></ol>
</body></html>`

func newTestScraper(t *testing.T) (*Scraper, *fakeGetter, *extractors.Wiktionary) {
	t.Helper()
	c, err := classifier.Default()
	if err != nil {
		t.Fatalf("classifier.Default() error = %v", err)
	}
	w := extractors.NewWiktionary(pageBase, searchBase)
	g := &fakeGetter{bodies: map[string]string{
		w.PageURL("λόγος"):    logosPage,
		w.PageURL("λόγου"):    logouPage,
		w.PageURL("λέγω"):     legoPage,
		w.PageURL("λυόμενος"): lyomenosPage,
		w.PageURL("τιμη"):     timePage,
		w.PageURL("καί"):      kaiPage,
		w.PageURL("ἄλλο"):     `<html><body><h2 id="Latin">Latin</h2></body></html>`,
	}}
	return New(g, w, c, nil), g, w
}

func resolve(t *testing.T, e *lexicon.Entry, q models.Declension) []string {
	t.Helper()
	forms, err := e.Resolve(q)
	if err != nil {
		t.Fatalf("Resolve(%s) error = %v", q, err)
	}
	return lexicon.Candidates(forms)
}

func TestScrapeNoun(t *testing.T) {
	s, _, _ := newTestScraper(t)
	noun := models.PartOfSpeech{Kind: models.POSNoun}

	res, err := s.Scrape(context.Background(), Request{Lemma: "λόγος", POS: noun})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	e := res.Entry
	if len(e.Paradigms) != 2 {
		t.Fatalf("got %d paradigms, want attic and epic apart", len(e.Paradigms))
	}
	if e.Paradigms[0].Class != "second" {
		t.Errorf("Class = %q, want second", e.Paradigms[0].Class)
	}
	if len(e.Definitions) != 1 || e.Definitions[0].Text != "word, speech" {
		t.Errorf("Definitions = %+v", e.Definitions)
	}

	q := models.Declension{PartOfSpeech: noun, Gender: "masculine", Number: "plural", Case: "genitive"}
	if got := resolve(t, e, q); !reflect.DeepEqual(got, []string{"τῶν λόγων"}) {
		t.Errorf("genitive plural = %v", got)
	}
	q.Number = "singular"
	if got := resolve(t, e, q); !reflect.DeepEqual(got, []string{"τοῦ λόγου"}) {
		t.Errorf("genitive singular = %v, want the first paradigm's form", got)
	}
	if res.Page == nil || res.Page.URL == "" {
		t.Error("result carries no page record")
	}
}

func TestScrapeFollowsFormOf(t *testing.T) {
	s, _, _ := newTestScraper(t)
	res, err := s.Scrape(context.Background(), Request{Lemma: "λόγου", POS: models.PartOfSpeech{Kind: models.POSNoun}})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if res.Entry.Lemma != "λόγος" {
		t.Errorf("Lemma = %q, want λόγος", res.Entry.Lemma)
	}
}

func TestScrapeVerbMergesTablesOfOneDialectSet(t *testing.T) {
	s, _, _ := newTestScraper(t)
	verb := models.PartOfSpeech{Kind: models.POSVerb}
	res, err := s.Scrape(context.Background(), Request{Lemma: "λέγω", POS: verb})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if len(res.Entry.Paradigms) != 1 {
		t.Fatalf("got %d paradigms, want 1", len(res.Entry.Paradigms))
	}

	q := models.Declension{PartOfSpeech: verb, Tense: "present", Mood: "indicative", Voice: "active", Number: "plural", Person: "third"}
	if got := resolve(t, res.Entry, q); !reflect.DeepEqual(got, []string{"λέγουσι", "λέγουσιν"}) {
		t.Errorf("present 3pl = %v", got)
	}
	q = models.Declension{PartOfSpeech: verb, Tense: "imperfect", Mood: "indicative", Voice: "active", Number: "singular", Person: "first"}
	if got := resolve(t, res.Entry, q); !reflect.DeepEqual(got, []string{"ἔλεγον"}) {
		t.Errorf("imperfect 1sg = %v", got)
	}
}

func TestScrapeParticiple(t *testing.T) {
	s, _, _ := newTestScraper(t)
	res, err := s.Scrape(context.Background(), Request{Lemma: "λυόμενος", Participle: true})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if res.Entry.Lemma != "λύω" {
		t.Errorf("Lemma = %q, want the parent verb", res.Entry.Lemma)
	}

	q := models.Declension{
		PartOfSpeech: models.PartOfSpeech{Kind: models.POSVerb},
		Tense:        "present",
		Mood:         "participle",
		Gender:       "feminine",
		Number:       "singular",
		Case:         "genitive",
	}
	for _, voice := range []string{"middle", "passive"} {
		q.Voice = voice
		if got := resolve(t, res.Entry, q); !reflect.DeepEqual(got, []string{"λυομένης"}) {
			t.Errorf("%s participle = %v", voice, got)
		}
	}
}

func TestScrapeGeneratesWithoutTable(t *testing.T) {
	s, _, _ := newTestScraper(t)
	noun := models.PartOfSpeech{Kind: models.POSNoun}
	res, err := s.Scrape(context.Background(), Request{Lemma: "τιμη", POS: noun})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if !res.Generated {
		t.Error("Generated = false")
	}
	q := models.Declension{PartOfSpeech: noun, Gender: "feminine", Number: "singular", Case: "dative"}
	if got := resolve(t, res.Entry, q); !reflect.DeepEqual(got, []string{"τιμῃ"}) {
		t.Errorf("dative = %v", got)
	}
}

func TestScrapeInvariantAndErrors(t *testing.T) {
	s, _, _ := newTestScraper(t)
	ctx := context.Background()

	res, err := s.Scrape(ctx, Request{Lemma: "καί", POS: models.PartOfSpeech{Kind: models.POSConjunction}})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	got := resolve(t, res.Entry, models.Declension{PartOfSpeech: models.PartOfSpeech{Kind: models.POSConjunction}})
	if !reflect.DeepEqual(got, []string{"καί"}) {
		t.Errorf("conjunction forms = %v", got)
	}

	if _, err := s.Scrape(ctx, Request{Lemma: "ἄλλο", POS: models.PartOfSpeech{Kind: models.POSNoun}}); !errors.Is(err, ErrNoSection) {
		t.Errorf("Scrape() error = %v, want ErrNoSection", err)
	}
	if _, err := s.Scrape(ctx, Request{Lemma: "missing", POS: models.PartOfSpeech{Kind: models.POSNoun}}); !errors.Is(err, fetcher.ErrNotFound) {
		t.Errorf("Scrape() error = %v, want ErrNotFound", err)
	}
	var unsupported *paradigm.UnsupportedPartOfSpeechError
	if _, err := s.Scrape(ctx, Request{Lemma: "λόγος", POS: models.PartOfSpeech{Kind: models.POSDeterminer}}); !errors.As(err, &unsupported) {
		t.Errorf("Scrape() error = %v, want UnsupportedPartOfSpeechError", err)
	}
}

func TestFindLemma(t *testing.T) {
	s, g, w := newTestScraper(t)
	noun := models.PartOfSpeech{Kind: models.POSNoun}
	verb := models.PartOfSpeech{Kind: models.POSVerb}

	nounURLs := w.SearchURLs("λογου", noun, false)
	g.bodies[nounURLs[0]] = `{"query":{"search":[]}}`
	g.bodies[nounURLs[1]] = `{"query":{"search":[{"title":"λόγου"},{"title":"λαγώς"}]}}`

	got, err := s.FindLemma(context.Background(), "λογου", models.Declension{PartOfSpeech: noun})
	if err != nil {
		t.Fatalf("FindLemma() error = %v", err)
	}
	if got != "λόγος" {
		t.Errorf("FindLemma() = %q, want the form-of target", got)
	}

	withNu := w.SearchURLs("ἔλεγεν", verb, false)
	withoutNu := w.SearchURLs("ἔλεγε", verb, false)
	for _, u := range withNu {
		g.bodies[u] = `{"query":{"search":[]}}`
	}
	g.bodies[withoutNu[0]] = `{"query":{"search":[{"title":"λέγω"}]}}`
	g.bodies[withoutNu[1]] = `{"query":{"search":[]}}`

	q := models.Declension{PartOfSpeech: verb, Person: "third", Number: "singular"}
	got, err = s.FindLemma(context.Background(), "ἔλεγεν", q)
	if err != nil {
		t.Fatalf("FindLemma() error = %v", err)
	}
	if got != "λέγω" {
		t.Errorf("FindLemma() = %q, want λέγω", got)
	}

	q.Person = "first"
	if _, err := s.FindLemma(context.Background(), "ἔλεγεν", q); !errors.Is(err, ErrNoLemma) {
		t.Errorf("FindLemma() error = %v, want ErrNoLemma", err)
	}
}

func TestScrapeAll(t *testing.T) {
	s, _, _ := newTestScraper(t)
	noun := models.PartOfSpeech{Kind: models.POSNoun}
	reqs := []Request{
		{Lemma: "λόγος", POS: noun},
		{Lemma: "missing", POS: noun},
		{Lemma: "λέγω", POS: models.PartOfSpeech{Kind: models.POSVerb}},
	}

	results := s.ScrapeAll(context.Background(), reqs, 2)
	if len(results) != len(reqs) {
		t.Fatalf("got %d results, want %d", len(results), len(reqs))
	}
	for i, r := range results {
		if r.Request.Lemma != reqs[i].Lemma {
			t.Errorf("result %d is for %s, want request order", i, r.Request.Lemma)
		}
	}
	if results[0].Error != nil || results[0].Entry == nil {
		t.Errorf("λόγος failed: %v", results[0].Error)
	}
	if results[1].Error == nil {
		t.Error("missing page did not fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, r := range s.ScrapeAll(ctx, reqs, 1) {
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("%s: error = %v, want context.Canceled", r.Request.Lemma, r.Error)
		}
	}
}
