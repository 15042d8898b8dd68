package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPatientValidate(t *testing.T) {
	tests := []struct {
		name    string
		patient NewPatient
		wantErr error
	}{
		{"valid", NewPatient{Name: "Ada", Age: Int64(36)}, nil},
		{"no age", NewPatient{Name: "Ada"}, nil},
		{"empty name", NewPatient{Name: ""}, ErrNameRequired},
		{"whitespace name", NewPatient{Name: "   \t"}, ErrNameRequired},
		{"negative age", NewPatient{Name: "Ada", Age: Int64(-1)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patient.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewPatientNormalized(t *testing.T) {
	p := NewPatient{Name: "  Ada  ", Gender: " f ", Address: "\t1 Main St\n"}.Normalized()
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "f", p.Gender)
	assert.Equal(t, "1 Main St", p.Address)
}

func TestPatientInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "AL"},
		{"ada king lovelace", "AKL"},
		{"  grace   hopper ", "GH"},
		{"émile zola", "ÉZ"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Patient{Name: tt.name}.Initials())
		})
	}
}

func TestPatientAgeOr(t *testing.T) {
	assert.Equal(t, int64(-1), Patient{}.AgeOr(-1))
	assert.Equal(t, int64(40), Patient{Age: Int64(40)}.AgeOr(-1))
}

func TestQueryResultLen(t *testing.T) {
	var nilResult *QueryResult
	assert.Equal(t, 0, nilResult.Len())
	assert.Equal(t, 0, EmptyResult().Len())
	assert.Equal(t, 2, (&QueryResult{Rows: []Row{{}, {}}}).Len())
}
