package types

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Patient is a persisted patient record
type Patient struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Age     *int64 `json:"age"` // Nullable
	Gender  string `json:"gender,omitempty"`
	Address string `json:"address,omitempty"`
}

// NewPatient is the shape accepted by a structured insert
type NewPatient struct {
	Name    string `json:"name"`
	Age     *int64 `json:"age"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}

// Validate checks the record before it reaches the store.
// Name must contain something other than whitespace; age is left to the
// store's column type.
func (p NewPatient) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Normalized returns a copy with surrounding whitespace removed from every text field
func (p NewPatient) Normalized() NewPatient {
	p.Name = strings.TrimSpace(p.Name)
	p.Gender = strings.TrimSpace(p.Gender)
	p.Address = strings.TrimSpace(p.Address)
	return p
}

// Initials returns the upper-cased first letter of each part of the name,
// e.g. "ada king lovelace" -> "AKL".
func (p Patient) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(p.Name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// AgeOr returns the age, or def when the age is unknown
func (p Patient) AgeOr(def int64) int64 {
	if p.Age == nil {
		return def
	}
	return *p.Age
}

// Int64 returns a pointer to v. Handy for the nullable Age field.
func Int64(v int64) *int64 {
	return &v
}
