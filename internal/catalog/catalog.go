// ABOUTME: YAML catalog and example corpus loader
// ABOUTME: Flattens datasets, tables, and hints into index documents
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LuisDee/sqlscout/internal/models"
	"gopkg.in/yaml.v3"
)

// Document is the top-level YAML shape. A single file may carry catalog
// content, example content, or both.
type Document struct {
	Datasets     []Dataset `yaml:"datasets"`
	RoutingHints []string  `yaml:"routing_hints"`
	Examples     []Example `yaml:"examples"`
}

// Dataset describes one dataset and its tables
type Dataset struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Tables      []Table `yaml:"tables"`
}

// Table describes one routable table
type Table struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Example is one curated question-to-SQL pair
type Example struct {
	Question   string   `yaml:"question"`
	SQL        string   `yaml:"sql"`
	Tables     []string `yaml:"tables"`
	Dataset    string   `yaml:"dataset"`
	Complexity string   `yaml:"complexity"`
	Rationale  string   `yaml:"rationale"`
}

// Load parses a single YAML file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}

// LoadDir loads and merges every .yaml/.yml file in a directory
func LoadDir(dir string) (*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", dir)
	}
	sort.Strings(names)

	merged := &Document{}
	for _, name := range names {
		doc, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		merged.Datasets = append(merged.Datasets, doc.Datasets...)
		merged.RoutingHints = append(merged.RoutingHints, doc.RoutingHints...)
		merged.Examples = append(merged.Examples, doc.Examples...)
	}
	return merged, nil
}

// Descriptors flattens the catalog half into Schema Index documents.
// Table descriptions are prefixed with their dataset context so the
// embedded text carries enough signal to route on its own.
func (d *Document) Descriptors() []models.SchemaDescriptor {
	var out []models.SchemaDescriptor

	for _, ds := range d.Datasets {
		if ds.Description != "" {
			out = append(out, models.SchemaDescriptor{
				SourceKind:  models.SourceDataset,
				DatasetName: ds.Name,
				Description: ds.Description,
			})
		}
		for _, tbl := range ds.Tables {
			out = append(out, models.SchemaDescriptor{
				SourceKind:  models.SourceTable,
				DatasetName: ds.Name,
				TableName:   tbl.Name,
				Description: fmt.Sprintf("Table %s.%s: %s", ds.Name, tbl.Name, tbl.Description),
			})
		}
	}

	for _, hint := range d.RoutingHints {
		if strings.TrimSpace(hint) == "" {
			continue
		}
		out = append(out, models.SchemaDescriptor{
			SourceKind:  models.SourceRoutingHint,
			Description: hint,
		})
	}

	return out
}

// Records flattens the example half into Memory Index documents
func (d *Document) Records() []models.MemoryRecord {
	var out []models.MemoryRecord
	for _, ex := range d.Examples {
		if ex.Question == "" || ex.SQL == "" {
			continue
		}
		out = append(out, models.MemoryRecord{
			Question:    ex.Question,
			SQLText:     ex.SQL,
			TablesUsed:  ex.Tables,
			DatasetName: ex.Dataset,
			Complexity:  ex.Complexity,
			Rationale:   ex.Rationale,
		})
	}
	return out
}
