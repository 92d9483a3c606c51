// ABOUTME: Learning loop persisting validated question-to-SQL pairs
// ABOUTME: Upsert with embedding invalidation, then scoped immediate re-embed
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/LuisDee/sqlscout/internal/llm"
	"github.com/LuisDee/sqlscout/internal/models"
)

// CommitRequest carries one validated question-to-SQL pair
type CommitRequest struct {
	Question    string   `json:"question"`
	SQLText     string   `json:"sql_text"`
	TablesUsed  []string `json:"tables_used,omitempty"`
	DatasetName string   `json:"dataset_name,omitempty"`
	Complexity  string   `json:"complexity,omitempty"`
	Rationale   string   `json:"rationale,omitempty"`
}

// CommitResult reports the two independent halves of a commit: whether
// the text was saved, and whether the row is already searchable. A failed
// embedding is non-fatal - the next full embedding pass picks the row up -
// but it is reported distinctly so callers never conflate the two.
type CommitResult struct {
	Saved      bool   `json:"saved"`
	Embedded   bool   `json:"embedded"`
	EmbedError string `json:"embed_error,omitempty"`
}

// Learner writes confirmed results back into the Memory Index
type Learner struct {
	memories MemoryIndex
	embedder llm.Embedder
}

// NewLearner creates a learning loop over the Memory Index
func NewLearner(memories MemoryIndex, embedder llm.Embedder) *Learner {
	return &Learner{memories: memories, embedder: embedder}
}

// Commit upserts the pair keyed by question and immediately embeds just
// the affected row so the example is searchable within the same session.
// Malformed requests fail fast; storage failure fails the commit; only
// the embedding half degrades.
func (l *Learner) Commit(ctx context.Context, req CommitRequest) (CommitResult, error) {
	if req.Question == "" {
		return CommitResult{}, fmt.Errorf("commit requires a question")
	}
	if req.SQLText == "" {
		return CommitResult{}, fmt.Errorf("commit requires sql text")
	}
	if err := EnsureReadOnly(req.SQLText); err != nil {
		return CommitResult{}, fmt.Errorf("refusing to learn non-read-only SQL: %w", err)
	}

	rec := &models.MemoryRecord{
		Question:    req.Question,
		SQLText:     req.SQLText,
		TablesUsed:  req.TablesUsed,
		DatasetName: req.DatasetName,
		Complexity:  req.Complexity,
		Rationale:   req.Rationale,
	}

	changed, err := l.memories.Upsert(rec)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to save learned example: %w", err)
	}

	// Scoped to the just-written key, and only when the vector is truly
	// absent: an unchanged re-commit of an already-embedded row computes
	// nothing.
	if !changed {
		stored, getErr := l.memories.GetByQuestion(req.Question)
		if getErr == nil && stored != nil && stored.Embedding != nil {
			return CommitResult{Saved: true, Embedded: true}, nil
		}
	}

	if l.embedder == nil {
		return CommitResult{Saved: true, Embedded: false, EmbedError: "embedder not configured"}, nil
	}

	vector, err := l.embedder.Embed(ctx, req.Question, llm.TaskDocument)
	if err != nil {
		log.Printf("Warning: immediate embedding failed for %q, deferred to next sync: %v", req.Question, err)
		return CommitResult{Saved: true, Embedded: false, EmbedError: err.Error()}, nil
	}
	if err := l.memories.SetEmbedding(req.Question, vector); err != nil {
		log.Printf("Warning: failed to store embedding for %q, deferred to next sync: %v", req.Question, err)
		return CommitResult{Saved: true, Embedded: false, EmbedError: err.Error()}, nil
	}

	return CommitResult{Saved: true, Embedded: true}, nil
}
