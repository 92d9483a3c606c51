// ABOUTME: Embedding pipeline syncing catalog content into both indexes
// ABOUTME: Two phases: upsert text, then batch-embed rows missing vectors
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/LuisDee/sqlscout/internal/llm"
	"github.com/LuisDee/sqlscout/internal/models"
)

// SyncStats summarizes one pipeline run
type SyncStats struct {
	Upserted int `json:"upserted"`
	Embedded int `json:"embedded"`
	Failed   int `json:"failed"`
}

// Pipeline keeps the vector indexes consistent with the catalog. Upserting
// text and computing embeddings are separate phases: editing metadata stays
// cheap, and re-running the whole pipeline on unchanged content computes
// nothing.
type Pipeline struct {
	schemas  SchemaIndex
	memories MemoryIndex
	embedder llm.Embedder
}

// NewPipeline creates an embedding pipeline over both indexes
func NewPipeline(schemas SchemaIndex, memories MemoryIndex, embedder llm.Embedder) *Pipeline {
	return &Pipeline{
		schemas:  schemas,
		memories: memories,
		embedder: embedder,
	}
}

// Sync upserts catalog descriptors and example records by natural key.
// Rows whose text changed come out of this phase with a NULL embedding,
// queued for the compute phase.
func (p *Pipeline) Sync(descriptors []models.SchemaDescriptor, records []models.MemoryRecord) (int, error) {
	upserted := 0

	for i := range descriptors {
		changed, err := p.schemas.Upsert(&descriptors[i])
		if err != nil {
			return upserted, fmt.Errorf("failed to sync descriptor %s: %w", descriptors[i].NaturalKey(), err)
		}
		if changed {
			upserted++
		}
	}

	for i := range records {
		changed, err := p.memories.Upsert(&records[i])
		if err != nil {
			return upserted, fmt.Errorf("failed to sync example %q: %w", records[i].Question, err)
		}
		if changed {
			upserted++
		}
	}

	return upserted, nil
}

// ComputeMissingEmbeddings embeds every row whose vector is absent - the
// predicate is NULL in storage, so rows that failed a previous run are
// picked up again. Per-row failures are logged and skipped; an unembedded
// row is merely unreachable by search until the next run.
func (p *Pipeline) ComputeMissingEmbeddings(ctx context.Context) (computed, failed int, err error) {
	if p.embedder == nil {
		return 0, 0, fmt.Errorf("embedder not configured")
	}

	missing, err := p.schemas.MissingEmbeddings()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list unembedded descriptors: %w", err)
	}
	for _, d := range missing {
		vector, embedErr := p.embedder.Embed(ctx, d.Description, llm.TaskDocument)
		if embedErr != nil {
			log.Printf("Warning: embedding failed for descriptor %s: %v", d.ID, embedErr)
			failed++
			continue
		}
		if setErr := p.schemas.SetEmbedding(d.ID, vector); setErr != nil {
			log.Printf("Warning: failed to store embedding for descriptor %s: %v", d.ID, setErr)
			failed++
			continue
		}
		computed++
	}

	missingRecords, err := p.memories.MissingEmbeddings()
	if err != nil {
		return computed, failed, fmt.Errorf("failed to list unembedded records: %w", err)
	}
	for _, rec := range missingRecords {
		vector, embedErr := p.embedder.Embed(ctx, rec.Question, llm.TaskDocument)
		if embedErr != nil {
			log.Printf("Warning: embedding failed for example %q: %v", rec.Question, embedErr)
			failed++
			continue
		}
		if setErr := p.memories.SetEmbedding(rec.Question, vector); setErr != nil {
			log.Printf("Warning: failed to store embedding for example %q: %v", rec.Question, setErr)
			failed++
			continue
		}
		computed++
	}

	return computed, failed, nil
}

// Resync runs both phases and reports combined stats
func (p *Pipeline) Resync(ctx context.Context, descriptors []models.SchemaDescriptor, records []models.MemoryRecord) (SyncStats, error) {
	upserted, err := p.Sync(descriptors, records)
	if err != nil {
		return SyncStats{Upserted: upserted}, err
	}

	computed, failed, err := p.ComputeMissingEmbeddings(ctx)
	return SyncStats{
		Upserted: upserted,
		Embedded: computed,
		Failed:   failed,
	}, err
}
