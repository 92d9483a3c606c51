// ABOUTME: Shared test doubles for the core package
// ABOUTME: Fake embedder with call counting and failure-injecting indexes
package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/LuisDee/sqlscout/internal/llm"
	"github.com/LuisDee/sqlscout/internal/models"
	"github.com/LuisDee/sqlscout/internal/storage/sqlite"
)

// fakeEmbedder returns canned vectors and counts calls so tests can
// assert how often the (expensive) embedding step actually runs
type fakeEmbedder struct {
	calls   int
	vectors map[string][]float64
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string, _ llm.EmbeddingTask) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0, 0}, nil
}

func (f *fakeEmbedder) Dimension() int { return 3 }

// newTestStores opens an in-memory database with both index stores
func newTestStores(t *testing.T) (*sqlite.SchemaStore, *sqlite.MemoryStore) {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewSchemaStore(db), sqlite.NewMemoryStore(db)
}

// seedExample inserts and embeds one memory record
func seedExample(t *testing.T, store *sqlite.MemoryStore, question, sqlText string, vector []float64) {
	t.Helper()
	rec := &models.MemoryRecord{Question: question, SQLText: sqlText}
	if _, err := store.Upsert(rec); err != nil {
		t.Fatalf("Upsert(%q) error = %v", question, err)
	}
	if err := store.SetEmbedding(question, vector); err != nil {
		t.Fatalf("SetEmbedding(%q) error = %v", question, err)
	}
}

// seedTable inserts and embeds one schema descriptor
func seedTable(t *testing.T, store *sqlite.SchemaStore, dataset, table string, vector []float64) {
	t.Helper()
	d := &models.SchemaDescriptor{
		SourceKind:  models.SourceTable,
		DatasetName: dataset,
		TableName:   table,
		Description: fmt.Sprintf("Table %s.%s", dataset, table),
	}
	if _, err := store.Upsert(d); err != nil {
		t.Fatalf("Upsert(%s.%s) error = %v", dataset, table, err)
	}
	if err := store.SetEmbedding(d.NaturalKey(), vector); err != nil {
		t.Fatalf("SetEmbedding(%s.%s) error = %v", dataset, table, err)
	}
}

// failingSchemaIndex errors on every operation
type failingSchemaIndex struct{}

func (failingSchemaIndex) Upsert(*models.SchemaDescriptor) (bool, error) {
	return false, fmt.Errorf("schema index unreachable")
}
func (failingSchemaIndex) MissingEmbeddings() ([]models.SchemaDescriptor, error) {
	return nil, fmt.Errorf("schema index unreachable")
}
func (failingSchemaIndex) SetEmbedding(string, []float64) error {
	return fmt.Errorf("schema index unreachable")
}
func (failingSchemaIndex) Search([]float64, int) ([]models.SchemaMatch, error) {
	return nil, fmt.Errorf("schema index unreachable")
}

// failingMemoryIndex errors on every operation
type failingMemoryIndex struct{}

func (failingMemoryIndex) Upsert(*models.MemoryRecord) (bool, error) {
	return false, fmt.Errorf("memory index unreachable")
}
func (failingMemoryIndex) GetByQuestion(string) (*models.MemoryRecord, error) {
	return nil, fmt.Errorf("memory index unreachable")
}
func (failingMemoryIndex) MissingEmbeddings() ([]models.MemoryRecord, error) {
	return nil, fmt.Errorf("memory index unreachable")
}
func (failingMemoryIndex) SetEmbedding(string, []float64) error {
	return fmt.Errorf("memory index unreachable")
}
func (failingMemoryIndex) Search([]float64, int) ([]models.ExampleMatch, error) {
	return nil, fmt.Errorf("memory index unreachable")
}
func (failingMemoryIndex) Nearest([]float64) (*models.ExampleMatch, error) {
	return nil, fmt.Errorf("memory index unreachable")
}

// countingValidator records how many times the external validator ran
type countingValidator struct {
	calls    int
	outcomes []models.ValidationOutcome
}

func (v *countingValidator) Validate(context.Context, string) models.ValidationOutcome {
	v.calls++
	if len(v.outcomes) > 0 {
		out := v.outcomes[0]
		if len(v.outcomes) > 1 {
			v.outcomes = v.outcomes[1:]
		}
		return out
	}
	return models.ValidationOutcome{Success: false, ErrorDetail: "synthetic failure"}
}
