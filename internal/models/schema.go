// ABOUTME: Schema Index models for routable warehouse entities
// ABOUTME: Defines SchemaDescriptor and its natural-key derivation
package models

import (
	"fmt"
	"strings"
	"time"
)

// SourceKind classifies a routable entity in the Schema Index
type SourceKind string

const (
	// SourceTable - a single warehouse table
	SourceTable SourceKind = "table"

	// SourceDataset - a whole dataset/schema grouping
	SourceDataset SourceKind = "dataset"

	// SourceRoutingHint - free-standing routing guidance with no table identity
	SourceRoutingHint SourceKind = "routing-hint"
)

// SchemaDescriptor is one row of the Schema Index: a table, dataset, or
// routing hint with descriptive text and an optional embedding.
// Embedding is nil until computed; an empty vector is never a valid state.
type SchemaDescriptor struct {
	ID          string     `json:"id"`
	SourceKind  SourceKind `json:"source_kind"`
	DatasetName string     `json:"dataset_name,omitempty"`
	TableName   string     `json:"table_name,omitempty"`
	Description string     `json:"description"`
	Embedding   []float64  `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NaturalKey returns the stable upsert key for the descriptor.
// Tables and datasets key on their identity; routing hints have no
// identity, so they key on a slug of their description text.
func (d *SchemaDescriptor) NaturalKey() string {
	switch d.SourceKind {
	case SourceRoutingHint:
		return fmt.Sprintf("hint:%s", slugify(d.Description))
	case SourceDataset:
		return fmt.Sprintf("dataset:%s", d.DatasetName)
	default:
		return fmt.Sprintf("table:%s.%s", d.DatasetName, d.TableName)
	}
}

// slugify lowercases text and maps non-alphanumeric runs to underscores,
// truncated to 48 characters for a stable, readable key.
func slugify(text string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
		if b.Len() >= 48 {
			break
		}
	}
	return strings.Trim(b.String(), "_")
}
