// ABOUTME: Schema Index persistence with merge upsert and distance search
// ABOUTME: Text changes invalidate the stored embedding for recomputation
package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/LuisDee/sqlscout/internal/models"
)

// SchemaStore handles Schema Index persistence
type SchemaStore struct {
	db *DB
}

// NewSchemaStore creates a new SchemaStore
func NewSchemaStore(db *DB) *SchemaStore {
	return &SchemaStore{db: db}
}

// Upsert inserts or updates a descriptor by its natural key. Returns true
// if the row was inserted or its text changed; in that case the stored
// embedding is nulled so the next embedding pass recomputes it. An
// unchanged descriptor is a no-op, which keeps resync idempotent.
func (s *SchemaStore) Upsert(d *models.SchemaDescriptor) (bool, error) {
	key := d.NaturalKey()

	var existing string
	err := s.db.QueryRow(`
		SELECT description FROM schema_descriptors WHERE id = ?
	`, key).Scan(&existing)

	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`
			INSERT INTO schema_descriptors (id, source_kind, dataset_name, table_name, description, embedding, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, NULL, ?, ?)
		`, key, string(d.SourceKind), nullString(d.DatasetName), nullString(d.TableName), d.Description, time.Now(), time.Now())
		if err != nil {
			return false, fmt.Errorf("failed to insert descriptor %s: %w", key, err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("failed to look up descriptor %s: %w", key, err)

	case existing == d.Description:
		return false, nil

	default:
		_, err = s.db.Exec(`
			UPDATE schema_descriptors
			SET description = ?, dataset_name = ?, table_name = ?, embedding = NULL, updated_at = ?
			WHERE id = ?
		`, d.Description, nullString(d.DatasetName), nullString(d.TableName), time.Now(), key)
		if err != nil {
			return false, fmt.Errorf("failed to update descriptor %s: %w", key, err)
		}
		return true, nil
	}
}

// Get retrieves a descriptor by id
func (s *SchemaStore) Get(id string) (*models.SchemaDescriptor, error) {
	row := s.db.QueryRow(`
		SELECT id, source_kind, dataset_name, table_name, description, embedding, created_at, updated_at
		FROM schema_descriptors
		WHERE id = ?
	`, id)

	d, err := scanDescriptor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// MissingEmbeddings returns every descriptor whose embedding has not been
// computed. The predicate is IS NULL on the column itself: a row written
// with an empty blob by a buggy caller would be invisible here, which is
// exactly the failure the codec refuses to produce.
func (s *SchemaStore) MissingEmbeddings() ([]models.SchemaDescriptor, error) {
	rows, err := s.db.Query(`
		SELECT id, source_kind, dataset_name, table_name, description, embedding, created_at, updated_at
		FROM schema_descriptors
		WHERE embedding IS NULL
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.SchemaDescriptor
	for rows.Next() {
		d, err := scanDescriptor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// SetEmbedding stores a computed vector for a descriptor
func (s *SchemaStore) SetEmbedding(id string, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("refusing to store empty embedding for %s", id)
	}
	res, err := s.db.Exec(`
		UPDATE schema_descriptors SET embedding = ? WHERE id = ?
	`, vectorToBlob(vector), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("no descriptor with id %s", id)
	}
	return err
}

// Search ranks embedded descriptors by cosine distance to the query vector
func (s *SchemaStore) Search(queryVector []float64, topK int) ([]models.SchemaMatch, error) {
	rows, err := s.db.Query(`
		SELECT id, source_kind, dataset_name, table_name, description, embedding, created_at, updated_at
		FROM schema_descriptors
		WHERE embedding IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var matches []models.SchemaMatch
	for rows.Next() {
		d, err := scanDescriptor(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, models.SchemaMatch{
			Descriptor: *d,
			Distance:   CosineDistance(queryVector, d.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Counts returns total and embedded row counts
func (s *SchemaStore) Counts() (total, embedded int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COUNT(embedding) FROM schema_descriptors
	`).Scan(&total, &embedded)
	return total, embedded, err
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDescriptor(row scanner) (*models.SchemaDescriptor, error) {
	var (
		d       models.SchemaDescriptor
		kind    string
		dataset sql.NullString
		table   sql.NullString
		blob    []byte
	)

	if err := row.Scan(&d.ID, &kind, &dataset, &table, &d.Description, &blob, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}

	d.SourceKind = models.SourceKind(kind)
	if dataset.Valid {
		d.DatasetName = dataset.String
	}
	if table.Valid {
		d.TableName = table.String
	}
	d.Embedding = blobToVector(blob)

	return &d, nil
}

// nullString converts empty strings to NULL for storage
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
