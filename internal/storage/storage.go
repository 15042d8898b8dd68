package storage

import (
	"context"

	"github.com/dshills/patientdb/pkg/types"
)

// Store is the embedded SQL capability every other component goes through.
// Statements are executed verbatim; params bind to ? placeholders.
type Store interface {
	// Execute runs a statement and returns every row it yields.
	// Statements that produce no rows (DDL, DML) return an empty result.
	Execute(ctx context.Context, query string, params ...any) (*types.QueryResult, error)

	// Exec runs a statement that yields no rows and returns the last inserted row ID
	Exec(ctx context.Context, query string, params ...any) (int64, error)

	// Migrate applies pending schema migrations. Safe to call repeatedly.
	Migrate(ctx context.Context) error

	// SchemaVersion returns the most recently applied migration, or "" when none
	SchemaVersion(ctx context.Context) (string, error)

	// Path returns the database location the store was opened with
	Path() string

	// Close releases the underlying connection
	Close() error
}
