package common

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/grc-lexicon-parser/models"
)

func contextWith(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range DeclensionFlags(false) {
		if err := f.Apply(set); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestDeclension(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    models.Declension
		wantErr bool
	}{
		{
			name: "noun slot",
			args: []string{"--pos", "noun", "--gender", "masculine", "--number", "singular", "--case", "Genitive"},
			want: models.Declension{
				PartOfSpeech: models.PartOfSpeech{Kind: models.POSNoun},
				Gender:       "masculine",
				Number:       "singular",
				Case:         "genitive",
			},
		},
		{
			name: "adjective kind and class",
			args: []string{"--pos", "adjective:comparative", "--class", "second"},
			want: models.Declension{
				PartOfSpeech: models.PartOfSpeech{Kind: models.POSAdjective, Sub: "comparative"},
				Class:        "second",
			},
		},
		{name: "unknown case", args: []string{"--pos", "noun", "--case", "ablative"}, wantErr: true},
		{name: "unknown pos", args: []string{"--pos", "gerund"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Declension(contextWith(t, tt.args...))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Declension() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("Declension() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitWords(t *testing.T) {
	got := SplitWords([]string{"λόγος, ἄνθρωπος,", " «θεός». ", ","})
	want := []string{"λόγος", "ἄνθρωπος", "θεός"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("SplitWords() = %v, want %v", got, want)
	}

	// Decomposed input is recomposed.
	if got := SanitizeWord("λο\u0301γος"); got != "λ\u03ccγος" {
		t.Errorf("SanitizeWord() = %q, want the NFC form", got)
	}
}

func TestWrite(t *testing.T) {
	v := map[string]string{"lemma": "λόγος"}
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "", want: "lemma: λόγος\n"},
		{format: "yaml", want: "lemma: λόγος\n"},
		{format: "json", want: "{\n  \"lemma\": \"λόγος\"\n}\n"},
		{format: "csv", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Write() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && buf.String() != tt.want {
				t.Errorf("Write() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
