package paradigm

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/classifier"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/table"
)

func th(text string) table.RawCell { return table.RawCell{Kind: table.Header, Text: text} }
func td(text string) table.RawCell { return table.RawCell{Kind: table.Data, Text: text} }

func testClassifier(t *testing.T) *classifier.Classifier {
	t.Helper()
	c, err := classifier.Default()
	if err != nil {
		t.Fatalf("classifier.Default() error = %v", err)
	}
	return c
}

var (
	verbPOS = models.PartOfSpeech{Kind: models.POSVerb}
	nounPOS = models.PartOfSpeech{Kind: models.POSNoun}
)

func presentIndicative() table.Table {
	return table.Table{
		Title: "present: active indicative",
		Rows: []table.Row{
			{th(""), th("singular"), th("plural")},
			{th("1st"), td("λέγω"), td("λέγομεν")},
			{th("2nd"), td("λέγεις"), td("λέγετε")},
			{th("3rd"), td("λέγει"), td("λέγουσι(ν)")},
		},
	}
}

func logosTable() table.Table {
	return table.Table{
		Title: "Declension of λόγος (second declension)",
		Rows: []table.Row{
			{th("case / #"), th("singular"), th("plural")},
			{th("nominative"), td("ὁ λόγος"), td("οἱ λόγοι")},
			{th("genitive"), td("τοῦ λόγου"), td("τῶν λόγων")},
			{th("notes:"), {Kind: table.Data, Text: "This table gives Attic inflectional endings.", ColSpan: "2"}},
		},
	}
}

func buildNoun(t *testing.T) *Tree {
	t.Helper()
	b, err := NewBuilder(nounPOS, nil)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	b.WithContext(models.Masculine)
	if err := b.AddTable(logosTable(), testClassifier(t), table.DefaultOptions()); err != nil {
		t.Fatalf("AddTable() error = %v", err)
	}
	if errs := b.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected cell errors: %v", errs)
	}
	return b.Tree()
}

func TestResolvePresentIndicative(t *testing.T) {
	tree, errs, err := Build(verbPOS, []table.Table{presentIndicative()}, testClassifier(t), table.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("Build() cell errors = %v", errs)
	}

	q := models.Declension{
		PartOfSpeech: verbPOS,
		Tense:        "present",
		Mood:         "indicative",
		Voice:        "active",
		Number:       "singular",
		Person:       "first",
	}
	got, err := Resolve(tree, q)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []SurfaceForm{{Contracted: "λέγω"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveMovableNu(t *testing.T) {
	tree, _, err := Build(verbPOS, []table.Table{presentIndicative()}, testClassifier(t), table.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := Resolve(tree, models.Declension{
		PartOfSpeech: verbPOS,
		Tense:        "present",
		Mood:         "indicative",
		Voice:        "active",
		Number:       "plural",
		Person:       "third",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []SurfaceForm{{Contracted: "λέγουσι"}, {Contracted: "λέγουσιν"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveErrors(t *testing.T) {
	tree := buildNoun(t)

	tests := []struct {
		name     string
		query    models.Declension
		wantDim  models.Dimension
		wantPath []string
	}{
		{
			name:    "noun without case",
			query:   models.Declension{PartOfSpeech: nounPOS, Gender: "masculine", Number: "singular"},
			wantDim: models.DimCase,
		},
		{
			name:     "feminine on masculine-only noun",
			query:    models.Declension{PartOfSpeech: nounPOS, Gender: "feminine", Number: "singular", Case: "nominative"},
			wantPath: []string{"noun", "feminine"},
		},
		{
			name:     "dual never populated",
			query:    models.Declension{PartOfSpeech: nounPOS, Gender: "masculine", Number: "dual", Case: "nominative"},
			wantPath: []string{"noun", "masculine", "dual"},
		},
		{
			name:     "part of speech never populated",
			query:    models.Declension{PartOfSpeech: models.PartOfSpeech{Kind: models.POSAdverb}},
			wantPath: []string{"adverb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tree, tt.query)
			if tt.wantDim != "" {
				var missing *MissingRequiredDimensionError
				if !errors.As(err, &missing) {
					t.Fatalf("Resolve() error = %v, want MissingRequiredDimensionError", err)
				}
				if missing.Dim != tt.wantDim {
					t.Errorf("missing dimension = %s, want %s", missing.Dim, tt.wantDim)
				}
				return
			}
			var absent *FormNotAttestedError
			if !errors.As(err, &absent) {
				t.Fatalf("Resolve() error = %v, want FormNotAttestedError", err)
			}
			if !reflect.DeepEqual(absent.Path, tt.wantPath) {
				t.Errorf("path = %v, want %v", absent.Path, tt.wantPath)
			}
		})
	}
}

func TestResolveMissingDimensionBeatsAbsentBranch(t *testing.T) {
	tree := buildNoun(t)
	_, err := Resolve(tree, models.Declension{PartOfSpeech: nounPOS, Gender: "feminine"})
	var missing *MissingRequiredDimensionError
	if !errors.As(err, &missing) || missing.Dim != models.DimNumber {
		t.Errorf("Resolve() error = %v, want missing number", err)
	}
}

func TestBuildThenResolveRoundTrip(t *testing.T) {
	tree := buildNoun(t)

	queries := []models.Declension{
		{PartOfSpeech: nounPOS, Gender: "masculine", Number: "singular", Case: "nominative"},
		{PartOfSpeech: nounPOS, Gender: "masculine", Number: "plural", Case: "genitive"},
	}
	for _, q := range queries {
		forms, err := Resolve(tree, q)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", q, err)
		}

		b, err := NewBuilder(nounPOS, nil)
		if err != nil {
			t.Fatalf("NewBuilder() error = %v", err)
		}
		for _, f := range forms {
			if err := b.AddForm(f.Contracted, q.Tags()); err != nil {
				t.Fatalf("AddForm() error = %v", err)
			}
		}
		again, err := Resolve(b.Tree(), q)
		if err != nil {
			t.Fatalf("Resolve() after rebuild error = %v", err)
		}
		if !reflect.DeepEqual(again, forms) {
			t.Errorf("round trip of %s = %v, want %v", q, again, forms)
		}
	}
}

func TestBuilderRecoversPerCell(t *testing.T) {
	b, err := NewBuilder(nounPOS, nil)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}

	err = b.AddForm("λόγος", models.NewTags(models.Masculine, models.Singular))
	var missing *MissingDimensionError
	if !errors.As(err, &missing) || missing.Dim != models.DimCase {
		t.Errorf("AddForm() error = %v, want missing case", err)
	}

	err = b.AddForm("λόγος", models.NewTags(
		models.Masculine, models.Singular, models.Nominative,
		models.Tag{Dim: models.DimPOS, Value: "noun"},
		models.Tag{Dim: models.DimPOS, Value: "verb"},
	))
	var conflict *ClassificationConflictError
	if !errors.As(err, &conflict) || len(conflict.Kinds) != 2 {
		t.Errorf("AddForm() error = %v, want classification conflict", err)
	}

	if err := b.AddForm("λόγου", models.NewTags(models.Masculine, models.Singular, models.Genitive)); err != nil {
		t.Fatalf("AddForm() error = %v", err)
	}
	if len(b.Errors()) != 2 {
		t.Errorf("Errors() = %v, want 2 recovered errors", b.Errors())
	}
	if b.Tree().Count() != 1 {
		t.Errorf("tree holds %d forms, want 1", b.Tree().Count())
	}
}

func TestBuildSkipsMalformedTable(t *testing.T) {
	bad := table.Table{Rows: []table.Row{{th("singular"), {Kind: table.Data, Text: "x", RowSpan: "abc"}}}}

	tree, errs, err := Build(verbPOS, []table.Table{bad, presentIndicative()}, testClassifier(t), table.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	var fe *table.FormatError
	if len(errs) != 1 || !errors.As(errs[0], &fe) {
		t.Fatalf("errs = %v, want one FormatError", errs)
	}
	if tree.Count() == 0 {
		t.Error("sibling table did not populate the tree")
	}
}

func TestBuildForksMultiValuedDimension(t *testing.T) {
	tbl := table.Table{
		Title: "present: indicative",
		Rows: []table.Row{
			{th(""), th("middle/passive")},
			{th(""), th("singular")},
			{th("1st"), td("λέγομαι")},
		},
	}

	tree, errs, err := Build(verbPOS, []table.Table{tbl}, testClassifier(t), table.DefaultOptions(), nil)
	if err != nil || len(errs) != 0 {
		t.Fatalf("Build() = %v, %v", errs, err)
	}

	for _, voice := range []string{"middle", "passive"} {
		q := models.Declension{PartOfSpeech: verbPOS, Tense: "present", Mood: "indicative", Voice: voice, Number: "singular", Person: "first"}
		got, err := Resolve(tree, q)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", voice, err)
		}
		if !reflect.DeepEqual(got, []SurfaceForm{{Contracted: "λέγομαι"}}) {
			t.Errorf("Resolve(%s) = %v", voice, got)
		}
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		name  string
		query models.Declension
		want  []string
	}{
		{
			name:  "noun",
			query: models.Declension{PartOfSpeech: nounPOS, Gender: "neuter", Number: "plural", Case: "dative"},
			want:  []string{"noun", "neuter", "plural", "dative"},
		},
		{
			name:  "adjective degree from sub-kind",
			query: models.Declension{PartOfSpeech: models.PartOfSpeech{Kind: models.POSAdjective, Sub: "comparative"}, Gender: "feminine", Number: "singular", Case: "genitive"},
			want:  []string{"adjective", "comparative", "feminine", "singular", "genitive"},
		},
		{
			name:  "adjective default degree",
			query: models.Declension{PartOfSpeech: models.PartOfSpeech{Kind: models.POSAdjective}, Gender: "feminine", Number: "singular", Case: "genitive"},
			want:  []string{"adjective", "positive", "feminine", "singular", "genitive"},
		},
		{
			name:  "finite verb with defaults",
			query: models.Declension{PartOfSpeech: verbPOS, Tense: "aorist", Mood: "optative", Voice: "middle", Number: "dual", Person: "second"},
			want:  []string{"verb", "aorist", "thematic", "contracted", "optative", "middle", "dual", "second"},
		},
		{
			name:  "infinitive stops at voice",
			query: models.Declension{PartOfSpeech: verbPOS, Tense: "present", Mood: "infinitive", Voice: "active", Number: "plural"},
			want:  []string{"verb", "present", "thematic", "contracted", "infinitive", "active"},
		},
		{
			name:  "participle uses the nominal chain",
			query: models.Declension{PartOfSpeech: verbPOS, Tense: "present", Contraction: "uncontracted", Mood: "participle", Voice: "active", Gender: "masculine", Number: "singular", Case: "nominative"},
			want:  []string{"verb", "present", "thematic", "uncontracted", "participle", "active", "masculine", "singular", "nominative"},
		},
		{
			name:  "invariant",
			query: models.Declension{PartOfSpeech: models.PartOfSpeech{Kind: models.POSPreposition}},
			want:  []string{"preposition"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Path(tt.query)
			if err != nil {
				t.Fatalf("Path() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Path() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnsupportedPartOfSpeech(t *testing.T) {
	det := models.PartOfSpeech{Kind: models.POSDeterminer}

	var unsupported *UnsupportedPartOfSpeechError
	if _, err := NewBuilder(det, nil); !errors.As(err, &unsupported) {
		t.Errorf("NewBuilder() error = %v, want UnsupportedPartOfSpeechError", err)
	}
	if _, err := Path(models.Declension{PartOfSpeech: det}); !errors.As(err, &unsupported) {
		t.Errorf("Path() error = %v, want UnsupportedPartOfSpeechError", err)
	}

	b, _ := NewBuilder(nounPOS, nil)
	err := b.AddCells([]table.ParsedCell{{Text: "ὅδε", Tags: models.NewTags(models.Tag{Dim: models.DimPOS, Value: "determiner"})}})
	if !errors.As(err, &unsupported) {
		t.Errorf("AddCells() error = %v, want UnsupportedPartOfSpeechError", err)
	}
}

func TestAdjectiveTableYieldsAdverb(t *testing.T) {
	b, _ := NewBuilder(models.PartOfSpeech{Kind: models.POSAdjective}, nil)
	cells := []table.ParsedCell{
		{Text: "δικαίως", Tags: models.NewTags(models.Tag{Dim: models.DimPOS, Value: "adverb"})},
		{Text: "δίκαιος", Tags: models.NewTags(models.Masculine, models.Singular, models.Nominative)},
	}
	if err := b.AddCells(cells); err != nil {
		t.Fatalf("AddCells() error = %v", err)
	}

	adv, err := Resolve(b.Tree(), models.Declension{PartOfSpeech: models.PartOfSpeech{Kind: models.POSAdverb}})
	if err != nil || adv[0].Contracted != "δικαίως" {
		t.Errorf("adverb = %v, %v", adv, err)
	}
	pos, err := Resolve(b.Tree(), models.Declension{PartOfSpeech: models.PartOfSpeech{Kind: models.POSAdjective}, Gender: "masculine", Number: "singular", Case: "nominative"})
	if err != nil || pos[0].Contracted != "δίκαιος" {
		t.Errorf("positive = %v, %v", pos, err)
	}
}

func TestTreeJSON(t *testing.T) {
	tree := buildNoun(t)

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"nominative":[{"contracted":"ὁ λόγος"}]`) {
		t.Errorf("leaf is not an array of forms: %s", data)
	}
	if !strings.Contains(string(data), `"class":"second"`) {
		t.Errorf("declension class missing: %s", data)
	}

	var back Tree
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	q := models.Declension{PartOfSpeech: nounPOS, Gender: "masculine", Number: "plural", Case: "genitive"}
	got, err := Resolve(&back, q)
	if err != nil || got[0].Contracted != "τῶν λόγων" {
		t.Errorf("Resolve() on decoded tree = %v, %v", got, err)
	}
}

func TestMerge(t *testing.T) {
	a := NewTree("attic")
	a.part(models.POSNoun).child("masculine").child("singular").child("nominative").addForm(SurfaceForm{Contracted: "λόγος"})

	b := NewTree("attic")
	b.part(models.POSNoun).child("masculine").child("singular").child("nominative").addForm(SurfaceForm{Contracted: "λόγος"})
	b.part(models.POSNoun).child("masculine").child("singular").child("genitive").addForm(SurfaceForm{Contracted: "λόγου"})

	if !a.SameDialects(b) {
		t.Fatal("SameDialects() = false")
	}
	a.Merge(b)
	if a.Count() != 2 {
		t.Errorf("merged tree holds %d forms, want 2", a.Count())
	}
	if a.SameDialects(NewTree("epic")) {
		t.Error("attic and epic trees reported as same dialect set")
	}
}

func TestInvariant(t *testing.T) {
	tree := Invariant(models.POSPreposition, "ἐν")
	got, err := Resolve(tree, models.Declension{PartOfSpeech: models.PartOfSpeech{Kind: models.POSPreposition}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(got, []SurfaceForm{{Contracted: "ἐν"}}) {
		t.Errorf("Resolve() = %v", got)
	}
}

func TestDeclensionAtInvertsPath(t *testing.T) {
	queries := []models.Declension{
		{PartOfSpeech: nounPOS, Gender: "neuter", Number: "plural", Case: "dative"},
		{PartOfSpeech: verbPOS, Tense: "aorist", Theme: "thematic", Contraction: "contracted", Mood: "infinitive", Voice: "passive"},
		{PartOfSpeech: verbPOS, Tense: "present", Theme: "athematic", Contraction: "contracted", Mood: "participle", Voice: "middle", Gender: "feminine", Number: "dual", Case: "genitive"},
		{PartOfSpeech: models.PartOfSpeech{Kind: models.POSAdjective}, Degree: "superlative", Gender: "masculine", Number: "singular", Case: "vocative"},
	}

	for _, q := range queries {
		path, err := Path(q)
		if err != nil {
			t.Fatalf("Path(%s) error = %v", q, err)
		}
		got, err := DeclensionAt(path)
		if err != nil {
			t.Fatalf("DeclensionAt(%v) error = %v", path, err)
		}
		if !got.Equal(q) {
			t.Errorf("DeclensionAt(%v) = %s, want %s", path, got, q)
		}
	}

	if _, err := DeclensionAt([]string{"noun", "masculine"}); err == nil {
		t.Error("DeclensionAt() accepted a path that stops early")
	}
	if _, err := DeclensionAt([]string{"noun", "masculine", "singular", "nominative", "extra"}); err == nil {
		t.Error("DeclensionAt() accepted a path deeper than the schema")
	}
}
