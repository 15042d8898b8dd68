package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dshills/patientdb/internal/storage"
	"github.com/dshills/patientdb/pkg/types"
)

var (
	// ErrNameRequired is returned when a record has an empty name
	ErrNameRequired = types.ErrNameRequired
	// ErrEmptyQuery is returned when the ad-hoc SQL text is blank
	ErrEmptyQuery = errors.New("query text is empty")
	// ErrReadOnlyQuery is returned when read-only mode rejects a writing statement
	ErrReadOnlyQuery = errors.New("only read statements are allowed in read-only mode")
)

const (
	insertPatientSQL = "INSERT INTO patients (name, age, gender, address) VALUES (?, ?, ?, ?)"
	listPatientsSQL  = "SELECT id, name, age, gender, address FROM patients ORDER BY id"
)

// Options configures a Service
type Options struct {
	// ReadOnlyQueries rejects ad-hoc statements that could modify the database
	ReadOnlyQueries bool
	Logger          zerolog.Logger
}

// Service is the patient data service. It is the only component that talks
// to the store; when the store is nil (no persistent storage in this
// runtime) reads return nothing and writes do nothing.
type Service struct {
	store    storage.Store
	readOnly bool
	logger   zerolog.Logger
}

// NewService creates a service over store. A nil store puts the service in
// degraded mode.
func NewService(store storage.Store, opts Options) *Service {
	return &Service{
		store:    store,
		readOnly: opts.ReadOnlyQueries,
		logger:   opts.Logger.With().Str("component", "patients").Logger(),
	}
}

// Available reports whether the service has a persistent store
func (s *Service) Available() bool {
	return s.store != nil
}

// Store returns the underlying store, nil in degraded mode
func (s *Service) Store() storage.Store {
	return s.store
}

// Init creates the schema if it does not exist. Safe to call repeatedly.
func (s *Service) Init(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	s.logger.Debug().Str("path", s.store.Path()).Msg("schema ready")
	return nil
}

// AddPatient inserts one record. Engine rejections come back as
// *storage.EngineError with the engine's message.
func (s *Service) AddPatient(ctx context.Context, record types.NewPatient) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}

	record = record.Normalized()
	id, err := s.store.Exec(ctx, insertPatientSQL,
		record.Name, nullableInt(record.Age), nullableString(record.Gender), nullableString(record.Address))
	if err != nil {
		return err
	}

	s.logger.Debug().Int64("id", id).Msg("patient added")
	return nil
}

// ListPatients returns every patient in insertion order
func (s *Service) ListPatients(ctx context.Context) ([]types.Patient, error) {
	if s.store == nil {
		return []types.Patient{}, nil
	}

	result, err := s.store.Execute(ctx, listPatientsSQL)
	if err != nil {
		return nil, err
	}

	patients := make([]types.Patient, 0, len(result.Rows))
	for _, row := range result.Rows {
		patients = append(patients, PatientFromRow(row))
	}
	return patients, nil
}

// QueryPatients runs sqlText verbatim and returns the rows it yields. The
// statement is not restricted to SELECT unless ReadOnlyQueries is set.
func (s *Service) QueryPatients(ctx context.Context, sqlText string) (*types.QueryResult, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, ErrEmptyQuery
	}
	if s.readOnly && !storage.IsReadOnlyStatement(sqlText) {
		return nil, ErrReadOnlyQuery
	}
	if s.store == nil {
		return types.EmptyResult(), nil
	}

	result, err := s.store.Execute(ctx, sqlText)
	if err != nil {
		s.logger.Debug().Err(err).Msg("ad-hoc query rejected")
		return nil, err
	}
	return result, nil
}

// Count returns the number of stored patients
func (s *Service) Count(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	result, err := s.store.Execute(ctx, "SELECT COUNT(*) AS n FROM patients")
	if err != nil {
		return 0, err
	}
	if len(result.Rows) == 0 {
		return 0, nil
	}
	n, _ := result.Rows[0]["n"].(int64)
	return int(n), nil
}

// PatientFromRow converts a patients row into a Patient. Missing or NULL
// columns leave the zero value.
func PatientFromRow(row types.Row) types.Patient {
	p := types.Patient{}
	if id, ok := row["id"].(int64); ok {
		p.ID = id
	}
	p.Name, _ = row["name"].(string)
	switch age := row["age"].(type) {
	case int64:
		p.Age = types.Int64(age)
	case float64:
		p.Age = types.Int64(int64(age))
	}
	p.Gender, _ = row["gender"].(string)
	p.Address, _ = row["address"].(string)
	return p
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
