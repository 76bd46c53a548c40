// Package classifier maps table header labels and table titles to
// grammatical tags using a declarative pattern table.
package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/grc-lexicon-parser/models"
)

//go:embed terms.yaml
var defaultTerms []byte

// Match kinds a rule can use.
const (
	MatchEquals   = "equals"
	MatchContains = "contains"
	MatchPrefix   = "prefix"
	MatchSuffix   = "suffix"
)

// Rule contributes Tags when its Pattern matches.
type Rule struct {
	Match   string   `yaml:"match"`
	Pattern string   `yaml:"pattern"`
	Tags    []string `yaml:"tags"`

	tags models.Tags
}

// Terms is the on-disk form of the pattern table.
type Terms struct {
	Headers []Rule `yaml:"headers"`
	Titles  []Rule `yaml:"titles"`
}

// Classifier is immutable once built and safe for concurrent use.
type Classifier struct {
	headers []Rule
	titles  []Rule
}

// New validates the rules of terms and builds a classifier from them.
func New(terms Terms) (*Classifier, error) {
	c := &Classifier{}
	var err error
	if c.headers, err = compile(terms.Headers); err != nil {
		return nil, fmt.Errorf("failed to compile header rules: %w", err)
	}
	if c.titles, err = compile(terms.Titles); err != nil {
		return nil, fmt.Errorf("failed to compile title rules: %w", err)
	}
	return c, nil
}

// Load parses a YAML pattern table.
func Load(data []byte) (*Classifier, error) {
	var terms Terms
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("failed to parse terms: %w", err)
	}
	return New(terms)
}

// LoadFile reads a YAML pattern table from disk. An empty path yields the
// built-in table.
func LoadFile(path string) (*Classifier, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read terms file: %w", err)
	}
	return Load(data)
}

// Default returns the classifier for the built-in terminology.
func Default() (*Classifier, error) {
	return Load(defaultTerms)
}

func compile(rules []Rule) ([]Rule, error) {
	out := make([]Rule, 0, len(rules))
	for i, r := range rules {
		switch r.Match {
		case MatchEquals, MatchContains, MatchPrefix, MatchSuffix:
		default:
			return nil, fmt.Errorf("rule %d (%q): unknown match kind %q", i, r.Pattern, r.Match)
		}
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("rule %d: empty pattern", i)
		}
		if len(r.Tags) == 0 {
			return nil, fmt.Errorf("rule %d (%q): no tags", i, r.Pattern)
		}

		var tags []models.Tag
		for _, s := range r.Tags {
			t, err := models.ParseTag(s)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%q): %w", i, r.Pattern, err)
			}
			tags = append(tags, t)
		}
		r.Pattern = normalize(r.Pattern)
		r.tags = models.NewTags(tags...)
		out = append(out, r)
	}
	return out, nil
}

func (r Rule) matches(text string) bool {
	switch r.Match {
	case MatchEquals:
		return text == r.Pattern
	case MatchContains:
		return strings.Contains(text, r.Pattern)
	case MatchPrefix:
		return strings.HasPrefix(text, r.Pattern)
	case MatchSuffix:
		return strings.HasSuffix(text, r.Pattern)
	}
	return false
}

// normalize lower-cases with Greek rules (final sigma) and collapses
// whitespace. A Caser is stateful, so one is made per call.
func normalize(s string) string {
	lower := cases.Lower(language.Greek).String(s)
	return strings.Join(strings.Fields(lower), " ")
}

func apply(rules []Rule, text string) models.Tags {
	var out models.Tags
	for _, r := range rules {
		if r.matches(text) {
			out = out.Union(r.tags)
		}
	}
	return out
}

// ClassifyHeader returns the tags of one header label. Unknown labels yield
// an empty set.
func (c *Classifier) ClassifyHeader(text string) models.Tags {
	text = normalize(text)
	if text == "" {
		return nil
	}
	return apply(c.headers, text)
}

// ClassifyTitle returns the tags of a table title: tense prefixes,
// contraction suffixes, dialect names, plus header terms appearing as words
// after the colon ("present: active indicative").
func (c *Classifier) ClassifyTitle(title string) models.Tags {
	title = normalize(title)
	if title == "" {
		return nil
	}
	tags := apply(c.titles, title)

	_, rest, ok := strings.Cut(title, ":")
	if !ok {
		return tags
	}
	words := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '(' || r == ')'
	})
	for _, w := range words {
		tags = tags.Union(apply(c.headers, w))
	}
	return tags
}
