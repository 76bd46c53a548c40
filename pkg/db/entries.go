package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/grc-lexicon-parser/models"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/fuzzy"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/lexicon"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/paradigm"
)

// ErrNotFound is returned when no stored row matches.
var ErrNotFound = errors.New("not found")

// EntryInfo is the listing view of a stored entry.
type EntryInfo struct {
	EntryID   string
	Lemma     string
	Parts     []string
	Paradigms int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LemmaKey folds a lemma for diacritic- and case-insensitive lookup.
func LemmaKey(lemma string) string {
	key := strings.ToLower(fuzzy.StripDiacritics(strings.TrimSpace(lemma)))
	return strings.ReplaceAll(key, "ς", "σ")
}

// UpsertEntry stores e. When the lemma is already stored, e is merged into
// the stored entry, which keeps its ID. The stored result is returned.
func (db *DB) UpsertEntry(e *lexicon.Entry) (*lexicon.Entry, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	stored := e
	var doc string
	err = tx.QueryRow("SELECT document FROM lexicon_entries WHERE lemma = ?", e.Lemma).Scan(&doc)
	switch {
	case err == nil:
		existing, err := decodeEntry(doc)
		if err != nil {
			return nil, err
		}
		existing.Merge(e)
		stored = existing
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to check existing entry: %w", err)
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry %s: %w", stored.Lemma, err)
	}

	now := time.Now().UTC()
	_, err = tx.Exec(`
		INSERT INTO lexicon_entries (entry_id, lemma, lemma_key, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(lemma) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`, stored.ID, stored.Lemma, LemmaKey(stored.Lemma), string(data), stored.CreatedAt, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert entry %s: %w", stored.Lemma, err)
	}

	for _, pos := range stored.Parts {
		_, err = tx.Exec(`
			INSERT INTO entry_parts (entry_id, pos) VALUES (?, ?)
			ON CONFLICT(entry_id, pos) DO NOTHING
		`, stored.ID, string(pos))
		if err != nil {
			return nil, fmt.Errorf("failed to record part of speech: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit entry %s: %w", stored.Lemma, err)
	}
	return stored, nil
}

// GetEntryByLemma returns the entry stored for exactly lemma.
func (db *DB) GetEntryByLemma(lemma string) (*lexicon.Entry, error) {
	var doc string
	err := db.QueryRow("SELECT document FROM lexicon_entries WHERE lemma = ?", lemma).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", lemma, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", lemma, err)
	}
	return decodeEntry(doc)
}

// FindEntriesByLemmaKey returns the entries whose lemma folds to the same key
// as word, ignoring accents, breathings and case.
func (db *DB) FindEntriesByLemmaKey(word string) ([]*lexicon.Entry, error) {
	return db.queryEntries(`
		SELECT document FROM lexicon_entries
		WHERE lemma_key = ?
		ORDER BY lemma
	`, LemmaKey(word))
}

// FindEntriesByForm returns the entries whose form addressed by q is
// spelled exactly form.
func (db *DB) FindEntriesByForm(q models.Declension, form string) ([]*lexicon.Entry, error) {
	path, err := paradigm.Path(q)
	if err != nil {
		return nil, err
	}
	return db.queryEntries(`
		SELECT DISTINCT e.document
		FROM lexicon_entries e,
			json_each(e.document, '$.paradigms') p,
			json_each(p.value, ?) f
		WHERE json_extract(f.value, '$.contracted') = ?
		ORDER BY e.lemma
	`, JSONPath(path), form)
}

// FindEntriesContainingForm returns the entries holding form anywhere in
// their paradigms.
func (db *DB) FindEntriesContainingForm(form string) ([]*lexicon.Entry, error) {
	return db.queryEntries(`
		SELECT DISTINCT e.document
		FROM lexicon_entries e, json_tree(e.document, '$.paradigms') t
		WHERE t.key = 'contracted' AND t.atom = ?
		ORDER BY e.lemma
	`, form)
}

// JSONPath turns a paradigm path into the SQLite JSON path of its leaf
// within one stored paradigm.
func JSONPath(path []string) string {
	var b strings.Builder
	b.WriteString("$.parts")
	for _, label := range path {
		b.WriteString(`."`)
		b.WriteString(label)
		b.WriteString(`"`)
	}
	return b.String()
}

// ListEntries lists stored entries by lemma. A limit of zero lists all.
func (db *DB) ListEntries(limit int) ([]EntryInfo, error) {
	query := `
		SELECT entry_id, lemma, json_array_length(document, '$.paradigms'), created_at, updated_at
		FROM lexicon_entries
		ORDER BY lemma
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var infos []EntryInfo
	for rows.Next() {
		var info EntryInfo
		var paradigms sql.NullInt64
		if err := rows.Scan(&info.EntryID, &info.Lemma, &paradigms, &info.CreatedAt, &info.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		info.Paradigms = int(paradigms.Int64)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Parts are read once the listing rows are released.
	for i := range infos {
		parts, err := db.entryParts(infos[i].EntryID)
		if err != nil {
			return nil, err
		}
		infos[i].Parts = parts
	}
	return infos, nil
}

func (db *DB) entryParts(entryID string) ([]string, error) {
	rows, err := db.Query("SELECT pos FROM entry_parts WHERE entry_id = ? ORDER BY pos", entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts of speech: %w", err)
	}
	defer rows.Close()

	var parts []string
	for rows.Next() {
		var pos string
		if err := rows.Scan(&pos); err != nil {
			return nil, fmt.Errorf("failed to scan part of speech: %w", err)
		}
		parts = append(parts, pos)
	}
	return parts, rows.Err()
}

// DeleteEntry removes the entry of lemma.
func (db *DB) DeleteEntry(lemma string) error {
	res, err := db.Exec("DELETE FROM lexicon_entries WHERE lemma = ?", lemma)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", lemma, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s: %w", lemma, ErrNotFound)
	}
	return nil
}

func (db *DB) queryEntries(query string, args ...any) ([]*lexicon.Entry, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*lexicon.Entry
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e, err := decodeEntry(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func decodeEntry(doc string) (*lexicon.Entry, error) {
	var e lexicon.Entry
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return nil, fmt.Errorf("failed to decode entry: %w", err)
	}
	return &e, nil
}
