package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Lexicon entries: one JSON document per lemma
CREATE TABLE IF NOT EXISTS lexicon_entries (
    entry_id TEXT PRIMARY KEY,          -- ULID
    lemma TEXT NOT NULL UNIQUE,
    lemma_key TEXT NOT NULL,            -- lower-cased, without diacritics
    document TEXT NOT NULL,             -- lexicon.Entry as JSON
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entries_lemma_key ON lexicon_entries(lemma_key);

-- Parts of speech per entry, for listing without decoding documents
CREATE TABLE IF NOT EXISTS entry_parts (
    entry_id TEXT NOT NULL,
    pos TEXT NOT NULL,
    FOREIGN KEY (entry_id) REFERENCES lexicon_entries(entry_id) ON DELETE CASCADE,
    UNIQUE(entry_id, pos)
);

CREATE INDEX IF NOT EXISTS idx_parts_pos ON entry_parts(pos);

-- Pages the entries were extracted from
CREATE TABLE IF NOT EXISTS pages (
    page_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    lemma TEXT,
    title TEXT,
    excerpt TEXT,
    site_name TEXT,
    sections TEXT,                      -- JSON array of language headings
    fetched_at TIMESTAMP,
    fetch_count INTEGER DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_pages_lemma ON pages(lemma);
`
