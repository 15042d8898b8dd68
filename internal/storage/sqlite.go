package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dshills/patientdb/pkg/types"
)

// MemoryPath opens a private in-memory database. Used by tests.
const MemoryPath = ":memory:"

// SQLiteStorage implements the Store interface using SQLite
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Single connection: every statement is serialized through it, and an
	// in-memory database stays the same database across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if dbPath != MemoryPath {
		// Enable WAL mode; not supported for in-memory databases
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage opens (or creates) the database at dbPath.
// The schema is not created here; call Migrate.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQLiteStorage{db: db, path: dbPath}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database location
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Migrate applies pending schema migrations
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	return ApplyMigrations(ctx, s.db)
}

// SchemaVersion returns the latest applied schema version
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (string, error) {
	return currentSchemaVersion(ctx, s.db)
}

// Execute runs query and collects every row into column-keyed maps
func (s *SQLiteStorage) Execute(ctx context.Context, query string, params ...any) (*types.QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, &EngineError{Op: "query", SQL: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &EngineError{Op: "query", SQL: query, Err: err}
	}

	result := &types.QueryResult{
		Columns: columns,
		Rows:    make([]types.Row, 0),
	}

	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &EngineError{Op: "query", SQL: query, Err: err}
		}

		row := make(types.Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &EngineError{Op: "query", SQL: query, Err: err}
	}

	return result, nil
}

// Exec runs a statement that yields no rows
func (s *SQLiteStorage) Exec(ctx context.Context, query string, params ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, &EngineError{Op: "exec", SQL: query, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &EngineError{Op: "exec", SQL: query, Err: err}
	}
	return id, nil
}

// normalizeValue maps driver values onto the scalar set callers can rely on:
// int64, float64, string, bool and nil.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

// firstKeyword returns the upper-cased leading keyword of a statement,
// skipping whitespace, "--" line comments and "/* */" block comments.
func firstKeyword(query string) string {
	q := query
	for {
		q = strings.TrimLeft(q, " \t\r\n(")
		switch {
		case strings.HasPrefix(q, "--"):
			idx := strings.IndexByte(q, '\n')
			if idx < 0 {
				return ""
			}
			q = q[idx+1:]
		case strings.HasPrefix(q, "/*"):
			idx := strings.Index(q, "*/")
			if idx < 0 {
				return ""
			}
			q = q[idx+2:]
		default:
			end := strings.IndexFunc(q, func(r rune) bool {
				return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
			})
			if end < 0 {
				end = len(q)
			}
			return strings.ToUpper(q[:end])
		}
	}
}

// readOnlyKeywords are the statement kinds that cannot modify the database
var readOnlyKeywords = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"EXPLAIN": true,
	"PRAGMA":  true,
	"VALUES":  true,
}

// IsReadOnlyStatement reports whether query starts with a keyword that only reads.
// WITH ... DELETE and writing PRAGMAs are not detected.
func IsReadOnlyStatement(query string) bool {
	return readOnlyKeywords[firstKeyword(query)]
}
