// ABOUTME: Memory Index models for validated question-to-SQL pairs
// ABOUTME: Defines MemoryRecord with upsert-by-question semantics
package models

import "time"

// MemoryRecord is one row of the Memory Index: a validated question→SQL
// pair. Question is the unique upsert key; re-submission with the same
// question updates the row in place and nulls the stale embedding.
type MemoryRecord struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	SQLText     string    `json:"sql_text"`
	TablesUsed  []string  `json:"tables_used,omitempty"`
	DatasetName string    `json:"dataset_name,omitempty"`
	Complexity  string    `json:"complexity,omitempty"`
	Rationale   string    `json:"rationale,omitempty"`
	Embedding   []float64 `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContentEquals reports whether two records carry the same text content.
// Used by the upsert path to decide whether an update (and embedding
// invalidation) is needed at all.
func (r *MemoryRecord) ContentEquals(other *MemoryRecord) bool {
	if r.SQLText != other.SQLText ||
		r.DatasetName != other.DatasetName ||
		r.Complexity != other.Complexity ||
		r.Rationale != other.Rationale {
		return false
	}
	if len(r.TablesUsed) != len(other.TablesUsed) {
		return false
	}
	for i := range r.TablesUsed {
		if r.TablesUsed[i] != other.TablesUsed[i] {
			return false
		}
	}
	return true
}
