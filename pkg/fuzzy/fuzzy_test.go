package fuzzy

import (
	"math"
	"testing"
)

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"λόγος", "λογος"},
		{"ἄνθρωπος", "ανθρωπος"},
		{"τῇ", "τη"},
		{"ᾱ̓", "α"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StripDiacritics(tt.in); got != tt.want {
				t.Errorf("StripDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "λόγος", "λόγος", 1},
		{"both empty", "", "", 1},
		{"one empty", "λόγος", "", 0},
		{"one Greek substitution counts once", "λόγος", "λογος", 0.8},
		{"insertion", "λέγουσι", "λέγουσιν", 1 - 1.0/8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRankSelfMatch(t *testing.T) {
	for _, s := range []string{"λόγος", "ἐλύθην", "a", ""} {
		got := Rank(s, []string{s})
		if len(got) != 1 || got[0].Candidate != s || got[0].Score != MaxScore {
			t.Errorf("Rank(%q, [%q]) = %v, want score %v", s, s, got, MaxScore)
		}
	}
}

func TestRankPrefersDiacriticDifference(t *testing.T) {
	got := Rank("λόγος", []string{"λαγος", "λογος"})
	if got[0].Candidate != "λογος" {
		t.Errorf("Rank() = %v, want λογος first", got)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("λογος should score strictly higher: %v", got)
	}
}

func TestRankStableTies(t *testing.T) {
	got := Rank("λόγος", []string{"λόγοι", "λόγου", "λόγον"})
	want := []string{"λόγοι", "λόγου", "λόγον"}
	for i := range want {
		if got[i].Candidate != want[i] {
			t.Fatalf("Rank() order = %v, want input order %v", got, want)
		}
	}
}

func TestClosestAndPlausible(t *testing.T) {
	if _, ok := Closest("λόγος", nil); ok {
		t.Error("Closest() on no candidates reported a match")
	}
	if got := Rank("λόγος", nil); len(got) != 0 {
		t.Errorf("Rank() on no candidates = %v", got)
	}

	m, ok := Closest("λογου", []string{"λόγος", "λόγου"})
	if !ok || m.Candidate != "λόγου" {
		t.Errorf("Closest() = %v, %v", m, ok)
	}

	if got := Plausible("αβ", []string{"γδ", "αδ"}); len(got) != 1 || got[0].Candidate != "αδ" {
		t.Errorf("Plausible() = %v, want only αδ", got)
	}
}
