// ABOUTME: Semantic cache short-circuiting repeat questions to stored SQL
// ABOUTME: Nearest-neighbor lookup; every failure degrades to a miss
package core

import (
	"context"
	"log"

	"github.com/LuisDee/sqlscout/internal/llm"
	"github.com/LuisDee/sqlscout/internal/models"
)

// SemanticCache answers a question directly from the Memory Index when a
// previously validated question is close enough. Threshold is cosine
// distance: a hit requires distance <= threshold, inclusive, so a record
// at exactly the threshold is served. The cache is read-only and must
// never be a hard dependency - index or embedding errors are logged and
// reported as a miss.
type SemanticCache struct {
	memories  MemoryIndex
	embedder  llm.Embedder
	threshold float64
}

// NewSemanticCache creates a cache over the Memory Index
func NewSemanticCache(memories MemoryIndex, embedder llm.Embedder, threshold float64) *SemanticCache {
	return &SemanticCache{
		memories:  memories,
		embedder:  embedder,
		threshold: threshold,
	}
}

// Lookup checks the cache for a near-duplicate of the question. The call
// marks the start of a new question on the session, resetting the
// self-correction state, and leaves the computed embedding in the session
// for the router to reuse.
func (c *SemanticCache) Lookup(ctx context.Context, sess *Session, question string) models.CacheResult {
	sess.BeginQuestion(NormalizeQuestion(question))

	vector := sess.QuestionVector()
	if vector == nil {
		if c.embedder == nil {
			log.Printf("Warning: semantic cache has no embedder, treating as miss")
			return models.CacheResult{Hit: false}
		}
		var err error
		vector, err = c.embedder.Embed(ctx, question, llm.TaskQuery)
		if err != nil {
			log.Printf("Warning: cache embedding failed, treating as miss: %v", err)
			return models.CacheResult{Hit: false}
		}
		sess.SetQuestionVector(vector)
	}

	match, err := c.memories.Nearest(vector)
	if err != nil {
		log.Printf("Warning: cache search failed, treating as miss: %v", err)
		return models.CacheResult{Hit: false}
	}
	if match == nil {
		return models.CacheResult{Hit: false}
	}

	if match.Distance <= c.threshold {
		return models.CacheResult{
			Hit:             true,
			SQL:             match.Record.SQLText,
			Distance:        match.Distance,
			MatchedQuestion: match.Record.Question,
		}
	}

	return models.CacheResult{Hit: false, Distance: match.Distance}
}
