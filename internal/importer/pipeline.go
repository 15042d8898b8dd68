package importer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/dshills/patientdb/pkg/types"
)

// ErrInvalidAge is returned when an age cell is not a whole number
var ErrInvalidAge = errors.New("age must be a whole number")

// Inserter persists a single patient record
type Inserter interface {
	AddPatient(ctx context.Context, record types.NewPatient) error
}

// ImportRowError reports the data row that stopped an import
type ImportRowError struct {
	Row int // 1-indexed data row, header excluded
	Err error
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Err.Error())
}

func (e *ImportRowError) Unwrap() error {
	return e.Err
}

// Result accumulates the outcome of one import
type Result struct {
	BatchID  uuid.UUID     `json:"batch_id"`
	Imported int           `json:"imported"`
	Duration time.Duration `json:"duration_ns"`
}

// Pipeline feeds parsed rows to an Inserter one at a time, in order
type Pipeline struct {
	target Inserter
	logger zerolog.Logger
}

// NewPipeline creates a pipeline writing through target
func NewPipeline(target Inserter, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		target: target,
		logger: logger.With().Str("component", "importer").Logger(),
	}
}

// rowIterator walks rows in order, reporting 1-indexed positions
type rowIterator struct {
	rows []Row
	pos  int
}

func (it *rowIterator) next() (Row, int, bool) {
	if it.pos >= len(it.rows) {
		return Row{}, 0, false
	}
	row := it.rows[it.pos]
	it.pos++
	return row, it.pos, true
}

// Import inserts rows in order and stops at the first failure. Rows inserted
// before the failure are kept. On failure the partial result is returned
// together with an *ImportRowError.
func (p *Pipeline) Import(ctx context.Context, rows []Row) (*Result, error) {
	start := time.Now()
	result := &Result{BatchID: uuid.New()}
	log := p.logger.With().Str("batch_id", result.BatchID.String()).Logger()

	log.Info().Int("rows", len(rows)).Msg("import started")

	it := &rowIterator{rows: rows}
	for {
		row, n, ok := it.next()
		if !ok {
			break
		}

		err := ctx.Err()
		var record types.NewPatient
		if err == nil {
			record, err = MapRow(row)
		}
		if err == nil {
			err = p.target.AddPatient(ctx, record)
		}
		if err != nil {
			result.Duration = time.Since(start)
			return result, p.fail(log, result, &ImportRowError{Row: n, Err: err})
		}
		result.Imported++
	}

	result.Duration = time.Since(start)
	log.Info().
		Int("imported", result.Imported).
		Dur("duration", result.Duration).
		Msg("import completed")
	return result, nil
}

func (p *Pipeline) fail(log zerolog.Logger, result *Result, err *ImportRowError) error {
	log.Warn().
		Int("row", err.Row).
		Int("imported", result.Imported).
		Err(err.Err).
		Msg("import stopped")
	return err
}

// ImportBytes parses data with parser and imports the rows
func (p *Pipeline) ImportBytes(ctx context.Context, parser Parser, data []byte) (*Result, error) {
	rows, err := parser.Parse(data)
	if err != nil {
		if !errors.Is(err, ErrParse) {
			err = fmt.Errorf("%w: %v", ErrParse, err)
		}
		return nil, err
	}
	return p.Import(ctx, rows)
}

// ImportFile reads path, picks a parser from its extension and imports it
func (p *Pipeline) ImportFile(ctx context.Context, path string) (*Result, error) {
	parser, err := ParserFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.ImportBytes(ctx, parser, data)
}

// MapRow converts a sheet row into an insertable record. Only name, age,
// gender and address are read.
func MapRow(row Row) (types.NewPatient, error) {
	record := types.NewPatient{}
	record.Name, _ = row.Get("name")
	record.Gender, _ = row.Get("gender")
	record.Address, _ = row.Get("address")

	if raw, ok := row.Get("age"); ok {
		age, err := parseAge(raw)
		if err != nil {
			return types.NewPatient{}, err
		}
		record.Age = age
	}
	return record, nil
}

// parseAge accepts integer text and whole floats ("45", "45.0"); blank is unknown
func parseAge(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAge, raw)
	}
	age, err := cast.ToInt64E(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAge, raw)
	}
	return &age, nil
}
