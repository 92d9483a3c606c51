// ABOUTME: Combined retrieval router fanning one embedding out to both indexes
// ABOUTME: Session-cached results and partial degradation on index failure
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/LuisDee/sqlscout/internal/llm"
	"github.com/LuisDee/sqlscout/internal/models"
)

// Router performs the combined retrieval step: one embedding for the
// question, fanned out as two nearest-neighbor searches. The embedding is
// the expensive network call; the searches are cheap reads, so a single
// vector serves both. Results are cached on the session keyed by the
// normalized question, so a later examples-only fetch in the same turn
// costs no second embedding.
type Router struct {
	schemas  SchemaIndex
	memories MemoryIndex
	embedder llm.Embedder
	topK     int
}

// NewRouter creates a retrieval router over both indexes
func NewRouter(schemas SchemaIndex, memories MemoryIndex, embedder llm.Embedder, topK int) *Router {
	return &Router{
		schemas:  schemas,
		memories: memories,
		embedder: embedder,
		topK:     topK,
	}
}

// Route returns candidate tables and few-shot examples for a question.
// When one index half fails the other is still returned with Partial set;
// the error return is reserved for a total failure (no embedding, or both
// halves down).
func (r *Router) Route(ctx context.Context, sess *Session, question string) (*models.RetrievalResult, error) {
	sess.BeginQuestion(NormalizeQuestion(question))

	if cached := sess.Retrieval(); cached != nil {
		return cached, nil
	}

	vector := sess.QuestionVector()
	if vector == nil {
		if r.embedder == nil {
			return nil, fmt.Errorf("retrieval requires an embedder")
		}
		var err error
		vector, err = r.embedder.Embed(ctx, question, llm.TaskQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to embed question: %w", err)
		}
		sess.SetQuestionVector(vector)
	}

	result := &models.RetrievalResult{}

	tables, tablesErr := r.schemas.Search(vector, r.topK)
	if tablesErr != nil {
		log.Printf("Warning: schema index search failed: %v", tablesErr)
	} else {
		result.Tables = tables
	}

	examples, examplesErr := r.memories.Search(vector, r.topK)
	if examplesErr != nil {
		log.Printf("Warning: memory index search failed: %v", examplesErr)
	} else {
		result.Examples = examples
	}

	if tablesErr != nil && examplesErr != nil {
		return nil, fmt.Errorf("both index searches failed: %v; %v", tablesErr, examplesErr)
	}
	result.Partial = tablesErr != nil || examplesErr != nil

	sess.SetRetrieval(result)
	return result, nil
}

// FetchExamples returns the example half of the retrieval, served from
// the session cache when the turn already routed
func (r *Router) FetchExamples(ctx context.Context, sess *Session, question string) ([]models.ExampleMatch, error) {
	sess.BeginQuestion(NormalizeQuestion(question))

	if cached := sess.Retrieval(); cached != nil {
		return cached.Examples, nil
	}

	result, err := r.Route(ctx, sess, question)
	if err != nil {
		return nil, err
	}
	return result.Examples, nil
}
