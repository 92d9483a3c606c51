// ABOUTME: Tests for the sync command structure
// ABOUTME: Verifies flags and metadata without touching a live database

package commands

import "testing"

func TestNewSyncCmd(t *testing.T) {
	cmd := NewSyncCmd()

	if cmd.Use != "sync" {
		t.Errorf("Use = %q, want %q", cmd.Use, "sync")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	flag := cmd.Flags().Lookup("catalog")
	if flag == nil {
		t.Fatal("--catalog flag not found")
	}
	if flag.DefValue != "" {
		t.Errorf("--catalog default = %q, want empty (falls back to config)", flag.DefValue)
	}
}
