package models

import (
	"strings"
	"time"
)

// Page is what is recorded about one fetched reference page.
type Page struct {
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Excerpt   string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"` // meta description
	SiteName  string    `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Sections  []string  `json:"sections,omitempty" yaml:"sections,omitempty"` // language section headings
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// HasSection reports whether the page carries a language section with the
// given heading, compared case-insensitively.
func (p *Page) HasSection(name string) bool {
	for _, s := range p.Sections {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
