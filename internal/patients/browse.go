package patients

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/patientdb/pkg/types"
)

// SortBy selects the ordering used when browsing
type SortBy string

const (
	SortByName SortBy = "name"
	SortByAge  SortBy = "age"
	SortByID   SortBy = "id"
)

// ParseSortBy validates a user-supplied sort key. Empty means SortByName.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByName:
		return SortByName, nil
	case SortByAge:
		return SortByAge, nil
	case SortByID:
		return SortByID, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want name, age or id)", s)
	}
}

// Filter returns the patients whose name contains term, ignoring case.
// An empty term matches everyone.
func Filter(patients []types.Patient, term string) []types.Patient {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]types.Patient, 0, len(patients))
	for _, p := range patients {
		if term == "" || strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy of patients. Ties keep id order; unknown ages
// sort after known ones.
func Sort(patients []types.Patient, by SortBy) []types.Patient {
	out := slices.Clone(patients)
	slices.SortStableFunc(out, func(a, b types.Patient) int {
		var c int
		switch by {
		case SortByName:
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortByAge:
			c = compareAge(a.Age, b.Age)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Browse applies Filter then Sort
func Browse(patients []types.Patient, term string, by SortBy) []types.Patient {
	return Sort(Filter(patients, term), by)
}

func compareAge(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}
