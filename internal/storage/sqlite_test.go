package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	require.NotNil(t, storage)
	require.NoError(t, storage.Migrate(context.Background()))
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	assert.NotNil(t, storage.db)
	assert.Equal(t, MemoryPath, storage.Path())
}

func TestNewSQLiteStorage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.db")

	storage, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, storage.Migrate(ctx))

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should exist")
}

func TestClose(t *testing.T) {
	storage, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	assert.NoError(t, storage.Close())
}

func TestExecAndExecute(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	id1, err := storage.Exec(ctx, "INSERT INTO patients (name, age, gender, address) VALUES (?, ?, ?, ?)",
		"Ada Lovelace", 36, "female", "London")
	require.NoError(t, err)
	id2, err := storage.Exec(ctx, "INSERT INTO patients (name, age) VALUES (?, ?)", "Alan Turing", nil)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	result, err := storage.Execute(ctx, "SELECT * FROM patients ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "age", "gender", "address"}, result.Columns)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	assert.Equal(t, id1, first["id"])
	assert.Equal(t, "Ada Lovelace", first["name"])
	assert.Equal(t, int64(36), first["age"])
	assert.Equal(t, "female", first["gender"])
	assert.Equal(t, "London", first["address"])

	second := result.Rows[1]
	assert.Nil(t, second["age"])
	assert.Nil(t, second["gender"])
}

func TestExecute_WithParams(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	for _, age := range []int{30, 61, 75} {
		_, err := storage.Exec(ctx, "INSERT INTO patients (name, age) VALUES (?, ?)", "p", age)
		require.NoError(t, err)
	}

	result, err := storage.Execute(ctx, "SELECT age FROM patients WHERE age > ?", 60)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Len())
}

func TestExecute_NoRows(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	result, err := storage.Execute(ctx, "SELECT * FROM patients")
	require.NoError(t, err)
	assert.NotNil(t, result.Rows)
	assert.Empty(t, result.Rows)
}

func TestExecute_DML(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	// Writes through Execute are allowed and yield no rows
	result, err := storage.Execute(ctx, "INSERT INTO patients (name) VALUES ('Grace Hopper')")
	require.NoError(t, err)
	assert.Empty(t, result.Rows)

	result, err = storage.Execute(ctx, "SELECT COUNT(*) AS n FROM patients")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, int64(1), result.Rows[0]["n"])
}

func TestExecute_SyntaxError(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	_, err := storage.Execute(ctx, "SELEC * FROM patients")
	require.Error(t, err)

	var engineErr *EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, "query", engineErr.Op)
	assert.Equal(t, "SELEC * FROM patients", engineErr.SQL)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Equal(t, engineErr.Err.Error(), err.Error(), "message should be the engine's, unchanged")
}

func TestExec_ConstraintViolation(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	_, err := storage.Exec(ctx, "INSERT INTO patients (name) VALUES (?)", nil)
	require.Error(t, err)
	assert.True(t, IsEngineError(err))
	assert.Contains(t, err.Error(), "NOT NULL constraint failed")
}

func TestIsReadOnlyStatement(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT * FROM patients", true},
		{"  select 1", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"(SELECT 1)", true},
		{"-- list\nSELECT * FROM patients", true},
		{"/* note */ SELECT 1", true},
		{"EXPLAIN QUERY PLAN SELECT 1", true},
		{"PRAGMA table_info(patients)", true},
		{"VALUES (1)", true},
		{"DELETE FROM patients", false},
		{"insert into patients (name) values ('x')", false},
		{"DROP TABLE patients", false},
		{"UPDATE patients SET age = 1", false},
		{"", false},
		{"-- only a comment", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReadOnlyStatement(tt.query))
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "abc", normalizeValue([]byte("abc")))
	assert.Equal(t, int64(3), normalizeValue(3))
	assert.Equal(t, int64(3), normalizeValue(int32(3)))
	assert.Equal(t, float64(1.5), normalizeValue(float32(1.5)))
	assert.Nil(t, normalizeValue(nil))
	assert.Equal(t, "x", normalizeValue("x"))
}
