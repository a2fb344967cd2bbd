package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibnhs/chapter-portal/pkg/core/hours"
)

func floatPtr(f float64) *float64 { return &f }

func sampleRows() []Row {
	return []Row{
		{ID: "u-1", FirstName: "Ada", LastName: "Young", Email: "ada@school.org", Grade: 10,
			Selected: hours.Vector{InSchool: 4, OutSchool: 6, RedHook: 2}},
		{ID: "u-2", FirstName: "Ben", LastName: "Adams", Email: "ben@school.org", Grade: 11,
			Selected: hours.Vector{InSchool: 10, OutSchool: 1, RedHook: 3}},
		{ID: "u-3", FirstName: "Cleo", LastName: "Marsh", Email: "cleo@school.org", Grade: 12,
			Selected: hours.Vector{InSchool: 2}},
	}
}

func allGrades() []int { return []int{10, 11, 12} }

func TestApply_EmptyGradeSetAdmitsNobody(t *testing.T) {
	visible, totals := Apply(sampleRows(), Query{SortBy: SortByName})

	assert.Empty(t, visible)
	assert.Equal(t, Totals{}, totals)
}

func TestApply_GradeFilter(t *testing.T) {
	visible, _ := Apply(sampleRows(), Query{Grades: []int{10, 12}, SortBy: SortByName})

	require.Len(t, visible, 2)
	assert.Equal(t, "u-3", visible[0].ID)
	assert.Equal(t, "u-1", visible[1].ID)
}

func TestApply_Search(t *testing.T) {
	byName, _ := Apply(sampleRows(), Query{Grades: allGrades(), Search: "ben a", SortBy: SortByName})
	require.Len(t, byName, 1)
	assert.Equal(t, "u-2", byName[0].ID)

	byEmail, _ := Apply(sampleRows(), Query{Grades: allGrades(), Search: "CLEO@", SortBy: SortByName})
	require.Len(t, byEmail, 1)
	assert.Equal(t, "u-3", byEmail[0].ID)
}

func TestApply_MinHoursIsStrict(t *testing.T) {
	// u-1 has exactly 12 overall; a floor of 12 keeps it, 12.5 drops it.
	kept, _ := Apply(sampleRows(), Query{Grades: allGrades(), MinHours: floatPtr(12), SortBy: SortByName})
	ids := make([]string, 0, len(kept))
	for _, r := range kept {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, "u-1")

	dropped, _ := Apply(sampleRows(), Query{Grades: allGrades(), MinHours: floatPtr(12.5), SortBy: SortByName})
	for _, r := range dropped {
		assert.NotEqual(t, "u-1", r.ID)
	}
}

func TestApply_SortByName(t *testing.T) {
	visible, _ := Apply(sampleRows(), Query{Grades: allGrades(), SortBy: SortByName})

	require.Len(t, visible, 3)
	assert.Equal(t, "u-2", visible[0].ID) // Adams
	assert.Equal(t, "u-3", visible[1].ID) // Marsh
	assert.Equal(t, "u-1", visible[2].ID) // Young
}

func TestApply_SortByTotalDescending(t *testing.T) {
	visible, _ := Apply(sampleRows(), Query{Grades: allGrades(), SortBy: SortByTotal, Descending: true})

	require.Len(t, visible, 3)
	assert.Equal(t, "u-2", visible[0].ID) // 14
	assert.Equal(t, "u-1", visible[1].ID) // 12
	assert.Equal(t, "u-3", visible[2].ID) // 2
}

func TestApply_DescendingReversesAscending(t *testing.T) {
	for _, key := range []SortKey{SortByName, SortByTotal, SortByGrade, SortByInSchool, SortByOutSchool, SortByRedHook} {
		asc, _ := Apply(sampleRows(), Query{Grades: allGrades(), SortBy: key})
		desc, _ := Apply(sampleRows(), Query{Grades: allGrades(), SortBy: key, Descending: true})

		require.Len(t, desc, len(asc))
		for i := range asc {
			assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID,
				"key %s position %d", key, i)
		}
	}
}

func TestApply_TiedRowsKeepInputOrderBothDirections(t *testing.T) {
	// u-1 and u-2 compare equal on every sort key; u-3 is distinct
	tied := []Row{
		{ID: "u-1", FirstName: "Ada", LastName: "Young", Email: "ada@school.org", Grade: 10,
			Selected: hours.Vector{InSchool: 5, OutSchool: 5, RedHook: 2}},
		{ID: "u-2", FirstName: "Ada", LastName: "Young", Email: "ada2@school.org", Grade: 10,
			Selected: hours.Vector{InSchool: 5, OutSchool: 5, RedHook: 2}},
		{ID: "u-3", FirstName: "Cleo", LastName: "Marsh", Email: "cleo@school.org", Grade: 11,
			Selected: hours.Vector{InSchool: 1}},
	}

	position := func(rows []Row, id string) int {
		for i, r := range rows {
			if r.ID == id {
				return i
			}
		}
		return -1
	}

	for _, key := range []SortKey{SortByName, SortByTotal, SortByGrade, SortByInSchool, SortByOutSchool, SortByRedHook} {
		asc, _ := Apply(tied, Query{Grades: []int{10, 11}, SortBy: key})
		desc, _ := Apply(tied, Query{Grades: []int{10, 11}, SortBy: key, Descending: true})

		require.Len(t, asc, 3)
		require.Len(t, desc, 3)
		assert.Less(t, position(asc, "u-1"), position(asc, "u-2"), "key %s ascending", key)
		assert.Less(t, position(desc, "u-1"), position(desc, "u-2"), "key %s descending", key)
	}
}

func TestApply_TotalsCoverFilteredRowsOnly(t *testing.T) {
	_, totals := Apply(sampleRows(), Query{Grades: []int{10}, SortBy: SortByName})

	assert.Equal(t, 4.0, totals.InSchool)
	assert.Equal(t, 6.0, totals.OutSchool)
	assert.Equal(t, 2.0, totals.RedHook)
	assert.Equal(t, 12.0, totals.Overall)
}

func TestSortKey_IsValid(t *testing.T) {
	assert.True(t, SortByName.IsValid())
	assert.True(t, SortByRedHook.IsValid())
	assert.False(t, SortKey("email").IsValid())
}
