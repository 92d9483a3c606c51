// ABOUTME: Tests for the read-only SQL guard
// ABOUTME: Covers multi-statement bypasses, CTEs, literals, and identifiers
package core

import "testing"

func TestEnsureReadOnly_AllowsReads(t *testing.T) {
	statements := []string{
		"SELECT id, name FROM users",
		"select * from orders where status = 'open'",
		"WITH recent AS (SELECT * FROM events WHERE ts > '2026-01-01') SELECT count(*) FROM recent",
		"EXPLAIN SELECT 1",
		"  \n\tSELECT 1",
	}
	for _, stmt := range statements {
		if err := EnsureReadOnly(stmt); err != nil {
			t.Errorf("EnsureReadOnly(%q) = %v, want nil", stmt, err)
		}
	}
}

func TestEnsureReadOnly_RejectsWrites(t *testing.T) {
	statements := []string{
		"INSERT INTO users (name) VALUES ('x')",
		"UPDATE users SET name = 'x'",
		"DELETE FROM users",
		"DROP TABLE users",
		"TRUNCATE TABLE users",
		"CREATE TABLE t (id int)",
		"GRANT SELECT ON t TO someone",
	}
	for _, stmt := range statements {
		if err := EnsureReadOnly(stmt); err == nil {
			t.Errorf("EnsureReadOnly(%q) = nil, want error", stmt)
		}
	}
}

// The prefix trick: a harmless first statement followed by a write.
// Checking only the first token would let these through.
func TestEnsureReadOnly_RejectsMultiStatementBypass(t *testing.T) {
	statements := []string{
		"SELECT 1; DROP TABLE users",
		"SELECT 1; DELETE FROM users WHERE 1=1",
		"EXPLAIN SELECT 1; TRUNCATE TABLE logs",
	}
	for _, stmt := range statements {
		if err := EnsureReadOnly(stmt); err == nil {
			t.Errorf("EnsureReadOnly(%q) = nil, want error", stmt)
		}
	}
}

// A WITH clause that hides a data-modifying statement inside the CTE
func TestEnsureReadOnly_RejectsWriteInsideCTE(t *testing.T) {
	stmt := "WITH gone AS (DELETE FROM users RETURNING id) SELECT * FROM gone"
	if err := EnsureReadOnly(stmt); err == nil {
		t.Errorf("EnsureReadOnly(%q) = nil, want error", stmt)
	}
}

// Keywords inside string literals and comments are data, not commands
func TestEnsureReadOnly_IgnoresLiteralsAndComments(t *testing.T) {
	statements := []string{
		"SELECT 'DROP TABLE users' AS threat",
		"SELECT * FROM audit WHERE action = 'delete'",
		"SELECT 1 -- update this later",
		"SELECT 1 /* insert nothing */",
		`SELECT "delete" FROM weird_column_names`,
	}
	for _, stmt := range statements {
		if err := EnsureReadOnly(stmt); err != nil {
			t.Errorf("EnsureReadOnly(%q) = %v, want nil", stmt, err)
		}
	}
}

// Identifiers that merely contain a banned word must not trip the guard
func TestEnsureReadOnly_IgnoresSubstringIdentifiers(t *testing.T) {
	statements := []string{
		"SELECT created_at FROM users",
		"SELECT updated_at, deleted_at FROM users",
		"SELECT * FROM insertion_log",
	}
	for _, stmt := range statements {
		if err := EnsureReadOnly(stmt); err != nil {
			t.Errorf("EnsureReadOnly(%q) = %v, want nil", stmt, err)
		}
	}
}

func TestEnsureReadOnly_RejectsEmptyAndNonSelect(t *testing.T) {
	if err := EnsureReadOnly(""); err == nil {
		t.Error("EnsureReadOnly(\"\") = nil, want error")
	}
	if err := EnsureReadOnly("   \n  "); err == nil {
		t.Error("EnsureReadOnly(whitespace) = nil, want error")
	}
	if err := EnsureReadOnly("SHOW TABLES"); err == nil {
		t.Error("EnsureReadOnly(SHOW) = nil, want error; not in the allow list")
	}
}
