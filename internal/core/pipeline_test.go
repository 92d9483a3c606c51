// ABOUTME: Tests for the embedding pipeline
// ABOUTME: Verifies two-phase sync, idempotent resync, and per-row skips
package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/LuisDee/sqlscout/internal/llm"
	"github.com/LuisDee/sqlscout/internal/models"
)

// selectiveEmbedder fails only for chosen texts, exercising the per-row
// skip path inside one compute pass
type selectiveEmbedder struct {
	calls int
	fail  map[string]bool
}

func (s *selectiveEmbedder) Embed(_ context.Context, text string, _ llm.EmbeddingTask) ([]float64, error) {
	s.calls++
	if s.fail[text] {
		return nil, fmt.Errorf("embedding service rejected %q", text)
	}
	return []float64{1, 0, 0}, nil
}

func (s *selectiveEmbedder) Dimension() int { return 3 }

func testDescriptors() []models.SchemaDescriptor {
	return []models.SchemaDescriptor{
		{SourceKind: models.SourceDataset, DatasetName: "sales", Description: "Sales mart"},
		{SourceKind: models.SourceTable, DatasetName: "sales", TableName: "orders", Description: "Table sales.orders: one row per order"},
		{SourceKind: models.SourceRoutingHint, Description: "Revenue questions belong in the sales mart"},
	}
}

func testRecords() []models.MemoryRecord {
	return []models.MemoryRecord{
		{Question: "how many orders shipped", SQLText: "SELECT count(*) FROM sales.orders WHERE status = 'shipped'"},
		{Question: "total revenue by month", SQLText: "SELECT month, sum(amount) FROM sales.orders GROUP BY month"},
	}
}

func TestPipeline_Resync(t *testing.T) {
	schemas, memories := newTestStores(t)
	embedder := &fakeEmbedder{}
	p := NewPipeline(schemas, memories, embedder)

	stats, err := p.Resync(context.Background(), testDescriptors(), testRecords())
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if stats.Upserted != 5 {
		t.Errorf("Upserted = %d, want 5", stats.Upserted)
	}
	if stats.Embedded != 5 {
		t.Errorf("Embedded = %d, want 5", stats.Embedded)
	}
	if stats.Failed != 0 {
		t.Errorf("Failed = %d, want 0", stats.Failed)
	}
}

// Re-running the pipeline on unchanged content must upsert nothing and
// embed nothing
func TestPipeline_ResyncIdempotent(t *testing.T) {
	schemas, memories := newTestStores(t)
	embedder := &fakeEmbedder{}
	p := NewPipeline(schemas, memories, embedder)

	if _, err := p.Resync(context.Background(), testDescriptors(), testRecords()); err != nil {
		t.Fatalf("first Resync() error = %v", err)
	}
	callsAfterFirst := embedder.calls

	stats, err := p.Resync(context.Background(), testDescriptors(), testRecords())
	if err != nil {
		t.Fatalf("second Resync() error = %v", err)
	}
	if stats.Upserted != 0 {
		t.Errorf("second run Upserted = %d, want 0", stats.Upserted)
	}
	if stats.Embedded != 0 {
		t.Errorf("second run Embedded = %d, want 0", stats.Embedded)
	}
	if embedder.calls != callsAfterFirst {
		t.Errorf("embedder calls grew from %d to %d on unchanged content", callsAfterFirst, embedder.calls)
	}
}

// A changed description re-queues exactly that row for embedding
func TestPipeline_ChangedRowReEmbedded(t *testing.T) {
	schemas, memories := newTestStores(t)
	embedder := &fakeEmbedder{}
	p := NewPipeline(schemas, memories, embedder)

	descriptors := testDescriptors()
	if _, err := p.Resync(context.Background(), descriptors, nil); err != nil {
		t.Fatalf("Resync() error = %v", err)
	}

	descriptors[1].Description = "Table sales.orders: one row per order line"
	stats, err := p.Resync(context.Background(), descriptors, nil)
	if err != nil {
		t.Fatalf("Resync() after edit error = %v", err)
	}
	if stats.Upserted != 1 {
		t.Errorf("Upserted = %d, want 1", stats.Upserted)
	}
	if stats.Embedded != 1 {
		t.Errorf("Embedded = %d, want 1", stats.Embedded)
	}
}

// One failing row must not abort the pass; it stays NULL and is retried
// on the next run
func TestPipeline_PerRowFailureSkipped(t *testing.T) {
	schemas, memories := newTestStores(t)
	embedder := &selectiveEmbedder{fail: map[string]bool{"total revenue by month": true}}
	p := NewPipeline(schemas, memories, embedder)

	stats, err := p.Resync(context.Background(), nil, testRecords())
	if err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if stats.Embedded != 1 {
		t.Errorf("Embedded = %d, want 1", stats.Embedded)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}

	missing, err := memories.MissingEmbeddings()
	if err != nil {
		t.Fatalf("MissingEmbeddings() error = %v", err)
	}
	if len(missing) != 1 || missing[0].Question != "total revenue by month" {
		t.Fatalf("MissingEmbeddings() = %v, want just the failed row", missing)
	}

	// The service recovers; the retried run picks the row up
	embedder.fail = nil
	stats, err = p.Resync(context.Background(), nil, testRecords())
	if err != nil {
		t.Fatalf("retry Resync() error = %v", err)
	}
	if stats.Embedded != 1 {
		t.Errorf("retry Embedded = %d, want 1", stats.Embedded)
	}
	if stats.Failed != 0 {
		t.Errorf("retry Failed = %d, want 0", stats.Failed)
	}
}

func TestPipeline_NoEmbedderErrors(t *testing.T) {
	schemas, memories := newTestStores(t)
	p := NewPipeline(schemas, memories, nil)

	if _, err := p.Sync(testDescriptors(), nil); err != nil {
		t.Fatalf("Sync() without embedder error = %v; phase one needs no embedder", err)
	}
	if _, _, err := p.ComputeMissingEmbeddings(context.Background()); err == nil {
		t.Error("ComputeMissingEmbeddings() without embedder should error")
	}
}
