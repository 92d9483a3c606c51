// ABOUTME: Memory Index persistence keyed by question text
// ABOUTME: Upsert-by-question with embedding invalidation and nearest search
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/LuisDee/sqlscout/internal/models"
	"github.com/google/uuid"
)

// MemoryStore handles Memory Index persistence
type MemoryStore struct {
	db *DB
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore(db *DB) *MemoryStore {
	return &MemoryStore{db: db}
}

// Upsert inserts or updates a record keyed by question. A content change
// nulls the stored embedding so the row is recomputed; re-submitting
// identical content is a no-op. Returns true when the row was written.
func (s *MemoryStore) Upsert(rec *models.MemoryRecord) (bool, error) {
	if rec.Question == "" {
		return false, fmt.Errorf("memory record question must not be empty")
	}
	if rec.SQLText == "" {
		return false, fmt.Errorf("memory record sql_text must not be empty")
	}

	existing, err := s.GetByQuestion(rec.Question)
	if err != nil {
		return false, fmt.Errorf("failed to look up record %q: %w", rec.Question, err)
	}

	tablesJSON, err := json.Marshal(rec.TablesUsed)
	if err != nil {
		return false, fmt.Errorf("failed to encode tables_used: %w", err)
	}

	if existing == nil {
		id := rec.ID
		if id == "" {
			id = fmt.Sprintf("mem_%s", uuid.New().String()[:8])
		}
		_, err = s.db.Exec(`
			INSERT INTO memory_records (id, question, sql_text, tables_used, dataset_name, complexity, rationale, embedding, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)
		`, id, rec.Question, rec.SQLText, string(tablesJSON), nullString(rec.DatasetName), nullString(rec.Complexity), nullString(rec.Rationale), time.Now(), time.Now())
		if err != nil {
			return false, fmt.Errorf("failed to insert record %q: %w", rec.Question, err)
		}
		return true, nil
	}

	if existing.ContentEquals(rec) {
		return false, nil
	}

	_, err = s.db.Exec(`
		UPDATE memory_records
		SET sql_text = ?, tables_used = ?, dataset_name = ?, complexity = ?, rationale = ?, embedding = NULL, updated_at = ?
		WHERE question = ?
	`, rec.SQLText, string(tablesJSON), nullString(rec.DatasetName), nullString(rec.Complexity), nullString(rec.Rationale), time.Now(), rec.Question)
	if err != nil {
		return false, fmt.Errorf("failed to update record %q: %w", rec.Question, err)
	}
	return true, nil
}

// GetByQuestion retrieves a record by its question key, nil when absent
func (s *MemoryStore) GetByQuestion(question string) (*models.MemoryRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, question, sql_text, tables_used, dataset_name, complexity, rationale, embedding, created_at, updated_at
		FROM memory_records
		WHERE question = ?
	`, question)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// MissingEmbeddings returns every record whose embedding IS NULL
func (s *MemoryStore) MissingEmbeddings() ([]models.MemoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, question, sql_text, tables_used, dataset_name, complexity, rationale, embedding, created_at, updated_at
		FROM memory_records
		WHERE embedding IS NULL
		ORDER BY question ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.MemoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// SetEmbedding stores a computed vector for the record with this question
func (s *MemoryStore) SetEmbedding(question string, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("refusing to store empty embedding for %q", question)
	}
	res, err := s.db.Exec(`
		UPDATE memory_records SET embedding = ? WHERE question = ?
	`, vectorToBlob(vector), question)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("no record with question %q", question)
	}
	return err
}

// Search ranks embedded records by cosine distance to the query vector
func (s *MemoryStore) Search(queryVector []float64, topK int) ([]models.ExampleMatch, error) {
	matches, err := s.searchAll(queryVector)
	if err != nil {
		return nil, err
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Nearest returns the single closest embedded record, nil when the index
// holds no embedded rows
func (s *MemoryStore) Nearest(queryVector []float64) (*models.ExampleMatch, error) {
	matches, err := s.searchAll(queryVector)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (s *MemoryStore) searchAll(queryVector []float64) ([]models.ExampleMatch, error) {
	rows, err := s.db.Query(`
		SELECT id, question, sql_text, tables_used, dataset_name, complexity, rationale, embedding, created_at, updated_at
		FROM memory_records
		WHERE embedding IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []models.ExampleMatch
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, models.ExampleMatch{
			Record:   *rec,
			Distance: CosineDistance(queryVector, rec.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches, nil
}

// Count returns the number of records and how many carry embeddings
func (s *MemoryStore) Count() (total, embedded int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COUNT(embedding) FROM memory_records
	`).Scan(&total, &embedded)
	return total, embedded, err
}

func scanRecord(row scanner) (*models.MemoryRecord, error) {
	var (
		rec        models.MemoryRecord
		tablesJSON sql.NullString
		dataset    sql.NullString
		complexity sql.NullString
		rationale  sql.NullString
		blob       []byte
	)

	if err := row.Scan(&rec.ID, &rec.Question, &rec.SQLText, &tablesJSON, &dataset, &complexity, &rationale, &blob, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	if tablesJSON.Valid && tablesJSON.String != "" {
		if err := json.Unmarshal([]byte(tablesJSON.String), &rec.TablesUsed); err != nil {
			return nil, fmt.Errorf("failed to decode tables_used for %q: %w", rec.Question, err)
		}
	}
	if dataset.Valid {
		rec.DatasetName = dataset.String
	}
	if complexity.Valid {
		rec.Complexity = complexity.String
	}
	if rationale.Valid {
		rec.Rationale = rationale.String
	}
	rec.Embedding = blobToVector(blob)

	return &rec, nil
}
