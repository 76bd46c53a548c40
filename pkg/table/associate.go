package table

import (
	"sort"
	"strings"

	"github.com/dtnitsch/grc-lexicon-parser/models"
)

// Classifier maps header and title text to grammatical tags.
type Classifier interface {
	ClassifyHeader(text string) models.Tags
	ClassifyTitle(title string) models.Tags
}

// ParsedCell is one data cell with every tag its governing headers and the
// table title imply.
type ParsedCell struct {
	Text string
	Tags models.Tags
	X, Y int
}

// Options tunes which cells are discarded during association.
type Options struct {
	// NoFormGlyphs mark an attested absence of a form.
	NoFormGlyphs []string
	// DiscardHeaders drop every data cell they govern (compared
	// case-insensitively, trailing colon ignored).
	DiscardHeaders []string
}

// DefaultOptions matches the conventions of the wiktionary tables.
func DefaultOptions() Options {
	return Options{
		NoFormGlyphs:   []string{"—", "-"},
		DiscardHeaders: []string{"notes"},
	}
}

// Associate walks every grid coordinate holding a data cell and collects the
// headers that govern it: headers left of it in the same row, and headers
// above it in the same column up to the first gap after a header was found.
// A data cell spanning several coordinates is visited at each of them; cells
// yielding identical text and tags are reported once.
func Associate(g *Grid, title string, c Classifier, opts Options) []ParsedCell {
	titleTags := c.ClassifyTitle(title)

	var out []ParsedCell
	seen := make(map[string]bool)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cell, ok := g.At(x, y)
			if !ok || cell.Kind != Data {
				continue
			}
			text := strings.TrimSpace(cell.Text)
			if text == "" || opts.isNoForm(text) {
				continue
			}

			headers := g.governingHeaders(x, y)
			if opts.discards(headers) {
				continue
			}

			tags := titleTags
			for _, h := range headers {
				tags = tags.Union(c.ClassifyHeader(h.Text))
			}

			key := text + "\x00" + tags.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, ParsedCell{Text: text, Tags: tags, X: x, Y: y})
		}
	}

	return out
}

// Parse builds the grid of t and associates its data cells.
func Parse(t Table, c Classifier, opts Options) ([]ParsedCell, error) {
	g, err := BuildGrid(t.Rows)
	if err != nil {
		return nil, err
	}
	return Associate(g, t.Title, c, opts), nil
}

func (g *Grid) governingHeaders(x, y int) []*PlacedCell {
	ids := make(map[int]bool)
	var out []*PlacedCell
	add := func(c *PlacedCell) {
		if !ids[c.ID] {
			ids[c.ID] = true
			out = append(out, c)
		}
	}

	for px := 0; px < x; px++ {
		if c, ok := g.At(px, y); ok && c.Kind == Header {
			add(c)
		}
	}

	found := false
	for py := y - 1; py >= 0; py-- {
		c, ok := g.At(x, py)
		if !ok || c.Kind != Header {
			if found {
				break
			}
			continue
		}
		found = true
		add(c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (o Options) isNoForm(text string) bool {
	for _, g := range o.NoFormGlyphs {
		if text == g {
			return true
		}
	}
	return false
}

func (o Options) discards(headers []*PlacedCell) bool {
	for _, h := range headers {
		label := strings.TrimSuffix(strings.TrimSpace(h.Text), ":")
		for _, d := range o.DiscardHeaders {
			if strings.EqualFold(label, d) {
				return true
			}
		}
	}
	return false
}
