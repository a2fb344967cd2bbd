// Package roster implements the filter/sort engine over the joined
// member-plus-hours catalogue view.
package roster

import (
	"sort"
	"strings"

	"github.com/bibnhs/chapter-portal/pkg/core/hours"
)

// Row is one member of the joined roster: profile fields plus the selected
// hour vector already computed for the active trimester window.
type Row struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Grade     int
	Role      string
	Hours     hours.MemberHours
	Selected  hours.Vector
}

// SortKey selects the column the roster is ordered by
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByTotal     SortKey = "total"
	SortByGrade     SortKey = "grade"
	SortByInSchool  SortKey = "inSchool"
	SortByOutSchool SortKey = "outSchool"
	SortByRedHook   SortKey = "redHook"
)

func (k SortKey) IsValid() bool {
	switch k {
	case SortByName, SortByTotal, SortByGrade, SortByInSchool, SortByOutSchool, SortByRedHook:
		return true
	}
	return false
}

// Query describes the filter and ordering applied to the roster. An empty
// Grades set admits no members; a nil MinHours disables the hour floor.
type Query struct {
	Search     string
	Grades     []int
	MinHours   *float64
	SortBy     SortKey
	Descending bool
}

// Totals are the column-wise sums over exactly the filtered rows
type Totals struct {
	InSchool  float64
	OutSchool float64
	RedHook   float64
	Overall   float64
}

// Apply filters and sorts the roster, returning the visible rows in order
// plus the column totals over those rows. Sorting is stable: rows that
// compare equal keep their input order, in both directions.
func Apply(rows []Row, q Query) ([]Row, Totals) {
	grades := make(map[int]bool, len(q.Grades))
	for _, g := range q.Grades {
		grades[g] = true
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if search != "" {
			fullName := strings.ToLower(row.FirstName + " " + row.LastName)
			email := strings.ToLower(row.Email)
			if !strings.Contains(fullName, search) && !strings.Contains(email, search) {
				continue
			}
		}
		if !grades[row.Grade] {
			continue
		}
		if q.MinHours != nil && row.Selected.Overall() < *q.MinHours {
			continue
		}
		filtered = append(filtered, row)
	}

	sortRows(filtered, q.SortBy, q.Descending)

	var totals Totals
	for _, row := range filtered {
		totals.InSchool += row.Selected.InSchool
		totals.OutSchool += row.Selected.OutSchool
		totals.RedHook += row.Selected.RedHook
		totals.Overall += row.Selected.Overall()
	}

	return filtered, totals
}

func sortRows(rows []Row, key SortKey, descending bool) {
	less := lessFunc(key)
	sort.SliceStable(rows, func(i, j int) bool {
		if descending {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// lessFunc returns the ascending comparator for a sort key. Name compares
// "last first" case-insensitively; every other key compares numerically on
// the selected vector.
func lessFunc(key SortKey) func(a, b Row) bool {
	switch key {
	case SortByName:
		return func(a, b Row) bool {
			return strings.ToLower(a.LastName+" "+a.FirstName) < strings.ToLower(b.LastName+" "+b.FirstName)
		}
	case SortByGrade:
		return func(a, b Row) bool { return a.Grade < b.Grade }
	case SortByInSchool:
		return func(a, b Row) bool { return a.Selected.InSchool < b.Selected.InSchool }
	case SortByOutSchool:
		return func(a, b Row) bool { return a.Selected.OutSchool < b.Selected.OutSchool }
	case SortByRedHook:
		return func(a, b Row) bool { return a.Selected.RedHook < b.Selected.RedHook }
	default: // SortByTotal
		return func(a, b Row) bool { return a.Selected.Overall() < b.Selected.Overall() }
	}
}
