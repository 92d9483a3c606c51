// ABOUTME: SQLite schema for the Schema Index and Memory Index
// ABOUTME: Creates index tables with nullable BLOB embedding columns
package sqlite

// Schema contains all SQL statements for database initialization.
// The embedding columns are NULLable BLOBs: NULL means "not computed",
// and an empty blob is never written. The distinction matters because
// the batch embedder selects rows by IS NULL.
const Schema = `
-- Schema Index: routable entities (tables, datasets, routing hints)
CREATE TABLE IF NOT EXISTS schema_descriptors (
    id TEXT PRIMARY KEY,
    source_kind TEXT NOT NULL,
    dataset_name TEXT,
    table_name TEXT,
    description TEXT NOT NULL,
    embedding BLOB,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Memory Index: validated question-to-SQL pairs
CREATE TABLE IF NOT EXISTS memory_records (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL UNIQUE,
    sql_text TEXT NOT NULL,
    tables_used TEXT,
    dataset_name TEXT,
    complexity TEXT,
    rationale TEXT,
    embedding BLOB,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for lookups
CREATE INDEX IF NOT EXISTS idx_descriptors_kind ON schema_descriptors(source_kind);
CREATE INDEX IF NOT EXISTS idx_descriptors_missing ON schema_descriptors(id) WHERE embedding IS NULL;
CREATE INDEX IF NOT EXISTS idx_records_missing ON memory_records(question) WHERE embedding IS NULL;
`
