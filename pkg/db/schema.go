package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Sites: one row per domain that has saved elements
CREATE TABLE IF NOT EXISTS sites (
    site_id INTEGER PRIMARY KEY AUTOINCREMENT,
    domain TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Elements: fingerprints of the elements a selector matched when auto_save
-- was requested, in document order
CREATE TABLE IF NOT EXISTS elements (
    element_id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL,
    selector TEXT NOT NULL,
    position INTEGER NOT NULL,
    tag TEXT NOT NULL,
    html_id TEXT,
    classes TEXT,           -- space separated
    path TEXT NOT NULL,     -- ancestor tags: html>body>div
    text TEXT,
    text_hash TEXT,
    saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (site_id) REFERENCES sites(site_id) ON DELETE CASCADE,
    UNIQUE(site_id, selector, position)
);

CREATE INDEX IF NOT EXISTS idx_elements_lookup ON elements(site_id, selector);
`
