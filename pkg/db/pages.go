package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/grc-lexicon-parser/models"
)

// PageRecord is a stored page with its bookkeeping columns.
type PageRecord struct {
	models.Page `yaml:",inline"`
	PageID      int64  `json:"page_id" yaml:"page_id"`
	Lemma       string `json:"lemma" yaml:"lemma"`
	FetchCount  int    `json:"fetch_count" yaml:"fetch_count"`
}

// RecordPage inserts or refreshes the page a lemma was extracted from.
func (db *DB) RecordPage(lemma string, p *models.Page) (int64, error) {
	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return 0, fmt.Errorf("failed to encode sections: %w", err)
	}
	fetchedAt := p.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err = db.Exec(`
		INSERT INTO pages (url, lemma, title, excerpt, site_name, sections, fetched_at, fetch_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(url) DO UPDATE SET
			lemma = excluded.lemma,
			title = excluded.title,
			excerpt = excluded.excerpt,
			site_name = excluded.site_name,
			sections = excluded.sections,
			fetched_at = excluded.fetched_at,
			fetch_count = fetch_count + 1
	`, p.URL, lemma, p.Title, p.Excerpt, p.SiteName, string(sections), fetchedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to record page %s: %w", p.URL, err)
	}

	// LastInsertId is unreliable after the update branch of an upsert.
	var pageID int64
	if err := db.QueryRow("SELECT page_id FROM pages WHERE url = ?", p.URL).Scan(&pageID); err != nil {
		return 0, fmt.Errorf("failed to get page ID: %w", err)
	}
	return pageID, nil
}

// GetPage returns the stored page for url.
func (db *DB) GetPage(url string) (*PageRecord, error) {
	var rec PageRecord
	var lemma, title, excerpt, siteName, sections sql.NullString
	var fetchedAt sql.NullTime

	err := db.QueryRow(`
		SELECT page_id, url, lemma, title, excerpt, site_name, sections, fetched_at, fetch_count
		FROM pages WHERE url = ?
	`, url).Scan(&rec.PageID, &rec.URL, &lemma, &title, &excerpt, &siteName, &sections, &fetchedAt, &rec.FetchCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %s: %w", url, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", url, err)
	}

	rec.Lemma = lemma.String
	rec.Title = title.String
	rec.Excerpt = excerpt.String
	rec.SiteName = siteName.String
	rec.FetchedAt = fetchedAt.Time
	if sections.Valid && sections.String != "" {
		if err := json.Unmarshal([]byte(sections.String), &rec.Sections); err != nil {
			return nil, fmt.Errorf("failed to decode sections of %s: %w", url, err)
		}
	}
	return &rec, nil
}
