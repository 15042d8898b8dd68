package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/patientdb/internal/patients"
	"github.com/dshills/patientdb/internal/storage"
	"github.com/dshills/patientdb/pkg/types"
)

func setupService(t *testing.T) (*patients.Service, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := patients.NewService(store, patients.Options{Logger: zerolog.Nop()})
	require.NoError(t, svc.Init(context.Background()))
	return svc, store
}

func patientRows(records ...[]string) []Row {
	header := []string{"name", "age", "gender", "address"}
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = NewRow(header, r)
	}
	return rows
}

// recordingInserter captures records and fails on demand
type recordingInserter struct {
	records []types.NewPatient
	failAt  int
	err     error
	cancel  context.CancelFunc
}

func (r *recordingInserter) AddPatient(_ context.Context, record types.NewPatient) error {
	if r.failAt > 0 && len(r.records)+1 == r.failAt {
		return r.err
	}
	r.records = append(r.records, record)
	if r.cancel != nil && len(r.records) == 1 {
		r.cancel()
	}
	return nil
}

func TestImport_NegativeAgeStored(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	rows := patientRows(
		[]string{"Ada", "-1", "", ""},
		[]string{"Alan", "41", "", ""},
	)
	result, err := NewPipeline(svc, zerolog.Nop()).Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	list, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(-1), list[0].AgeOr(0))
}

func TestImport_AgeOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	rows := patientRows(
		[]string{"Ada", "36", "", ""},
		[]string{"Alan", "1e30", "", ""},
	)
	result, err := NewPipeline(svc, zerolog.Nop()).Import(ctx, rows)

	var rowErr *ImportRowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.ErrorIs(t, err, ErrInvalidAge)
	assert.Equal(t, 1, result.Imported)
}

func TestImport_AllRows(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	require.NoError(t, svc.AddPatient(ctx, types.NewPatient{Name: "Existing"}))

	before, err := svc.ListPatients(ctx)
	require.NoError(t, err)

	rows := patientRows(
		[]string{"Ada", "36", "female", "London"},
		[]string{"Alan", "41", "male", "Wilmslow"},
		[]string{"Grace", "", "female", ""},
	)
	result, err := NewPipeline(svc, zerolog.Nop()).Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.BatchID.String())

	after, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+3)

	// Row order determines id order
	assert.Equal(t, "Ada", after[1].Name)
	assert.Equal(t, "Alan", after[2].Name)
	assert.Equal(t, "Grace", after[3].Name)
	assert.Nil(t, after[3].Age)
}

func TestImport_ZeroRows(t *testing.T) {
	svc, _ := setupService(t)

	result, err := NewPipeline(svc, zerolog.Nop()).Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
}

func TestImport_FailFast(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	rows := patientRows(
		[]string{"One", "10"},
		[]string{"Two", "20"},
		[]string{"Three", "abc"},
		[]string{"Four", "40"},
		[]string{"Five", "50"},
	)
	result, err := NewPipeline(svc, zerolog.Nop()).Import(ctx, rows)
	require.Error(t, err)

	var rowErr *ImportRowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Row)
	assert.ErrorIs(t, err, ErrInvalidAge)
	assert.Contains(t, err.Error(), "row 3:")
	assert.Equal(t, 2, result.Imported)

	list, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2, "rows before the failure stay persisted")
	assert.Equal(t, "One", list[0].Name)
	assert.Equal(t, "Two", list[1].Name)
}

func TestImport_MissingName(t *testing.T) {
	svc, _ := setupService(t)

	rows := patientRows([]string{"Ada", "36"}, []string{"  ", "20"})
	_, err := NewPipeline(svc, zerolog.Nop()).Import(context.Background(), rows)

	var rowErr *ImportRowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.ErrorIs(t, err, patients.ErrNameRequired)
}

func TestImport_EngineErrorSurfaced(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)
	_, err := store.Execute(ctx, "DROP TABLE patients")
	require.NoError(t, err)

	_, err = NewPipeline(svc, zerolog.Nop()).Import(ctx, patientRows([]string{"Ada", "36"}))
	require.Error(t, err)

	var engineErr *storage.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, "row 1: "+engineErr.Error(), err.Error(), "engine message is kept verbatim")
}

func TestImport_UnknownColumnsIgnored(t *testing.T) {
	target := &recordingInserter{}
	rows := []Row{NewRow([]string{"Name", "Blood Type", "AGE"}, []string{"Ada", "O+", "36.0"})}

	result, err := NewPipeline(target, zerolog.Nop()).Import(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, target.records, 1)
	assert.Equal(t, "Ada", target.records[0].Name)
	assert.Equal(t, int64(36), *target.records[0].Age)
}

func TestImport_InserterError(t *testing.T) {
	boom := errors.New("disk full")
	target := &recordingInserter{failAt: 2, err: boom}

	result, err := NewPipeline(target, zerolog.Nop()).Import(context.Background(),
		patientRows([]string{"A"}, []string{"B"}, []string{"C"}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, target.records, 1)
}

func TestImport_CanceledBetweenRows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	target := &recordingInserter{cancel: cancel}

	result, err := NewPipeline(target, zerolog.Nop()).Import(ctx,
		patientRows([]string{"A"}, []string{"B"}, []string{"C"}))

	var rowErr *ImportRowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Imported)
}

func TestImportBytes(t *testing.T) {
	svc, _ := setupService(t)
	pipeline := NewPipeline(svc, zerolog.Nop())

	result, err := pipeline.ImportBytes(context.Background(), CSVParser{},
		[]byte("name,age\nAda,36\nAlan,41\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	_, err = pipeline.ImportBytes(context.Background(), XLSXParser{}, []byte("garbage"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	pipeline := NewPipeline(svc, zerolog.Nop())
	dir := t.TempDir()

	xlsxPath := filepath.Join(dir, "patients.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, buildWorkbook(t, [][]interface{}{
		{"name", "age"},
		{"Elder", 80},
		{"Senior", 65},
	}), 0o600))

	result, err := pipeline.ImportFile(ctx, xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	queried, err := svc.QueryPatients(ctx, "SELECT * FROM patients WHERE age > 60")
	require.NoError(t, err)
	assert.Len(t, queried.Rows, 2)

	_, err = pipeline.ImportFile(ctx, filepath.Join(dir, "patients.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = pipeline.ImportFile(ctx, filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		raw     string
		want    *int64
		wantErr bool
	}{
		{"45", types.Int64(45), false},
		{" 45.0 ", types.Int64(45), false},
		{"045", types.Int64(45), false},
		{"", nil, false},
		{"   ", nil, false},
		{"abc", nil, true},
		{"45.5", nil, true},
		{"NaN", nil, true},
		{"-1", types.Int64(-1), false},
		{"1e30", nil, true},
		{"9223372036854775808", nil, true},
		{"-1e19", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseAge(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAge)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
