// Package parser reads fetched reference pages: page metadata through
// go-readability and inflection tables through goquery.
package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/table"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// movableNu is the lone span some tables append to show an optional final ν.
const movableNu = "ν"

type Parser struct{}

// Document is a parsed page: its recorded metadata plus the DOM.
type Document struct {
	Page *models.Page
	DOM  *goquery.Document
}

// ParsePage builds the DOM of a page and reads its metadata. The title falls
// back to the <title> element when readability cannot make sense of the page.
func (p *Parser) ParsePage(rawURL, body string) (*Document, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url %s: %w", rawURL, err)
	}

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html of %s: %w", rawURL, err)
	}

	page := &models.Page{
		URL:       rawURL,
		Title:     normalizeText(dom.Find("title").First().Text()),
		FetchedAt: time.Now().UTC(),
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(body), parsedURL)
	if err == nil {
		if t := normalizeText(article.Title); t != "" {
			page.Title = t
		}
		page.Excerpt = normalizeText(article.Excerpt)
		page.SiteName = normalizeText(article.SiteName)
	}

	dom.Find("h2").Each(func(i int, s *goquery.Selection) {
		if heading := normalizeText(s.Find(".mw-headline").Text()); heading != "" {
			page.Sections = append(page.Sections, heading)
		} else if heading := normalizeText(s.Text()); heading != "" {
			page.Sections = append(page.Sections, heading)
		}
	})

	return &Document{Page: page, DOM: dom}, nil
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// ReadTable reads the rows of an HTML table into header and data cells,
// keeping span attributes verbatim. Header text is lower-cased.
func ReadTable(s *goquery.Selection, title string) table.Table {
	t := table.Table{Title: strings.ToLower(normalizeText(title))}

	s.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var row table.Row
		tr.Children().Each(func(j int, cell *goquery.Selection) {
			var kind table.CellKind
			switch cell.Get(0).DataAtom {
			case atom.Th:
				kind = table.Header
			case atom.Td:
				kind = table.Data
			default:
				return
			}

			raw := table.RawCell{Kind: kind}
			raw.RowSpan, _ = cell.Attr("rowspan")
			raw.ColSpan, _ = cell.Attr("colspan")
			if kind == table.Header {
				raw.Text = strings.ToLower(normalizeText(cell.Text()))
			} else {
				raw.Text = readForms(cell)
			}
			row = append(row, raw)
		})
		t.Rows = append(t.Rows, row)
	})

	return t
}

// readForms reads the text of a data cell. Cells holding .Polyt spans use the
// last one; line breaks inside it separate alternates. A trailing lone ν span
// becomes a "(ν)" suffix.
func readForms(cell *goquery.Selection) string {
	polyts := cell.Find(".Polyt")
	if polyts.Length() == 0 {
		return normalizeText(cell.Text())
	}

	suffix := ""
	if strings.TrimSpace(polyts.Last().Text()) == movableNu {
		suffix = "(" + movableNu + ")"
		polyts = polyts.Slice(0, polyts.Length()-1)
	}
	if polyts.Length() == 0 {
		return ""
	}

	var b strings.Builder
	polyts.Last().Contents().Each(func(i int, c *goquery.Selection) {
		n := c.Get(0)
		switch {
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteString("\n")
		case n.Type == html.TextNode:
			b.WriteString(strings.TrimSpace(n.Data))
		default:
			b.WriteString(strings.TrimSpace(c.Text()))
		}
	})
	return strings.TrimSpace(b.String()) + suffix
}
