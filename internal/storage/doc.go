// Package storage provides SQLite-based persistence for patient records.
//
// The storage layer owns the single embedded database handle and exposes it as
// the Store capability: execute a statement with ordered parameters, get rows
// back. Everything above this package (the patient service, the importer, the
// MCP server) funnels its reads and writes through a Store.
//
// # Database Schema
//
// Tables:
//   - schema_version: Applied migration versions (semver)
//   - patients: id, name, age, gender, address
//
// The schema is created by Migrate, which is idempotent:
//
//	store, err := storage.NewSQLiteStorage("patients.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Process-wide Handle
//
// Applications open the store once through Shared, which first checks that
// the runtime can hold a database (directory exists or can be created, and is
// writable):
//
//	store, err := storage.Shared(cfg.DBPath)
//	if errors.Is(err, storage.ErrUnavailable) {
//	    // degrade: run without persistence
//	}
//
// Shared never reopens the store, even if called again with another path.
//
// # Executing Statements
//
//	result, err := store.Execute(ctx, "SELECT * FROM patients WHERE age > ?", 60)
//	for _, row := range result.Rows {
//	    fmt.Println(row["id"], row["name"])
//	}
//
//	id, err := store.Exec(ctx,
//	    "INSERT INTO patients (name, age) VALUES (?, ?)", "Ada", 36)
//
// Rejected statements return *EngineError. Its message is the engine's
// message, unchanged:
//
//	var engineErr *storage.EngineError
//	if errors.As(err, &engineErr) {
//	    fmt.Println(engineErr.Error()) // e.g. "no such table: patient"
//	}
//
// # Concurrency
//
// The connection pool is capped at one connection. Statements from
// concurrent callers are serialized by database/sql; no other locking is
// done.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// Pure Go Build (default, or purego tag):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build -tags "purego"
//
// CGO Build (cgo_sqlite tag, ignored when purego is also set):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "cgo_sqlite"
package storage
