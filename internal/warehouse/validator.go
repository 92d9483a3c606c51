// ABOUTME: Warehouse dry-run validator using EXPLAIN
// ABOUTME: Compiles candidate SQL against the live schema without executing it
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/LuisDee/sqlscout/internal/models"
)

// DryRunValidator checks a candidate statement by asking the warehouse to
// plan it. EXPLAIN compiles against the live schema - unknown tables, bad
// columns, and type errors all surface - without reading a single row.
type DryRunValidator struct {
	db      *sql.DB
	timeout time.Duration
}

// NewDryRunValidator creates a validator over an open warehouse connection
func NewDryRunValidator(db *sql.DB, timeout time.Duration) *DryRunValidator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DryRunValidator{db: db, timeout: timeout}
}

// Validate plans the statement and reports the warehouse's verdict. The
// error text goes back verbatim so the caller can base a correction on it.
func (v *DryRunValidator) Validate(ctx context.Context, sqlText string) models.ValidationOutcome {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	rows, err := v.db.QueryContext(ctx, "EXPLAIN "+sqlText)
	if err != nil {
		return models.ValidationOutcome{Success: false, ErrorDetail: err.Error()}
	}
	defer func() { _ = rows.Close() }()

	// Drain the plan; some drivers only report errors on iteration
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return models.ValidationOutcome{Success: false, ErrorDetail: err.Error()}
	}
	return models.ValidationOutcome{Success: true}
}

// Ping verifies the warehouse connection is usable
func (v *DryRunValidator) Ping(ctx context.Context) error {
	if err := v.db.PingContext(ctx); err != nil {
		return fmt.Errorf("warehouse unreachable: %w", err)
	}
	return nil
}
