// ABOUTME: Retrieval result types shared by the cache and router
// ABOUTME: Defines ranked matches with cosine distance (0 = identical)
package models

// SchemaMatch is one ranked Schema Index hit
type SchemaMatch struct {
	Descriptor SchemaDescriptor `json:"descriptor"`
	Distance   float64          `json:"distance"`
}

// ExampleMatch is one ranked Memory Index hit
type ExampleMatch struct {
	Record   MemoryRecord `json:"record"`
	Distance float64      `json:"distance"`
}

// RetrievalResult is the fan-out result of one question embedding against
// both indexes. Partial is set when exactly one index half failed; the
// surviving half is still usable context.
type RetrievalResult struct {
	Tables   []SchemaMatch  `json:"tables"`
	Examples []ExampleMatch `json:"examples"`
	Partial  bool           `json:"partial"`
}

// CacheResult is the outcome of a semantic cache lookup
type CacheResult struct {
	Hit             bool    `json:"hit"`
	SQL             string  `json:"sql,omitempty"`
	Distance        float64 `json:"distance,omitempty"`
	MatchedQuestion string  `json:"matched_question,omitempty"`
}
