// ABOUTME: Consumer-side index interfaces for the routing core
// ABOUTME: Satisfied by the sqlite stores; faked in tests
package core

import "github.com/LuisDee/sqlscout/internal/models"

// SchemaIndex is the Schema Index surface the core depends on
type SchemaIndex interface {
	Upsert(d *models.SchemaDescriptor) (bool, error)
	MissingEmbeddings() ([]models.SchemaDescriptor, error)
	SetEmbedding(id string, vector []float64) error
	Search(vector []float64, topK int) ([]models.SchemaMatch, error)
}

// MemoryIndex is the Memory Index surface the core depends on
type MemoryIndex interface {
	Upsert(rec *models.MemoryRecord) (bool, error)
	GetByQuestion(question string) (*models.MemoryRecord, error)
	MissingEmbeddings() ([]models.MemoryRecord, error)
	SetEmbedding(question string, vector []float64) error
	Search(vector []float64, topK int) ([]models.ExampleMatch, error)
	Nearest(vector []float64) (*models.ExampleMatch, error)
}
