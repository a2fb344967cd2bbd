// Package hours implements the service-hour aggregation pipeline: per-member
// per-trimester category sums and the eligibility classification derived from
// them. Everything here is a pure function over an entry set; callers re-run
// the pipeline whenever the underlying data changes.
package hours

import (
	"time"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

// Vector holds category hour sums. Overall is always derived from the three
// category slots rather than accumulated independently, so the sum identity
// holds by construction.
type Vector struct {
	InSchool  float64
	OutSchool float64
	RedHook   float64
}

// Overall returns the arithmetic sum of the three categories
func (v Vector) Overall() float64 {
	return v.InSchool + v.OutSchool + v.RedHook
}

// Add returns the component-wise sum of two vectors
func (v Vector) Add(o Vector) Vector {
	return Vector{
		InSchool:  v.InSchool + o.InSchool,
		OutSchool: v.OutSchool + o.OutSchool,
		RedHook:   v.RedHook + o.RedHook,
	}
}

// slot maps a category onto a vector field. The closed table replaces
// per-category if/else chains so an unrecognized category can never be
// silently mis-counted.
var slots = map[model.Category]func(*Vector) *float64{
	model.CategoryInSchool:  func(v *Vector) *float64 { return &v.InSchool },
	model.CategoryOutSchool: func(v *Vector) *float64 { return &v.OutSchool },
	model.CategoryRedHook:   func(v *Vector) *float64 { return &v.RedHook },
}

// MemberHours holds one member's aggregated completed hours: the all-time
// total plus one vector per trimester. Entries whose trimester falls outside
// 1-3 count toward Total only.
type MemberHours struct {
	Total     Vector
	Trimester [3]Vector // index 0 = trimester 1
}

// Selected sums the vectors for the given trimester numbers. An empty
// selection yields the zero vector. Trimester numbers outside 1-3 are
// ignored.
func (m MemberHours) Selected(trimesters []int) Vector {
	var sel Vector
	for _, t := range trimesters {
		if model.ValidTrimester(t) {
			sel = sel.Add(m.Trimester[t-1])
		}
	}
	return sel
}

// Aggregate computes per-member hour sums from a set of service entries.
// Only completed entries count; a nil hours value counts as zero.
func Aggregate(entries []model.ServiceEntry) map[string]*MemberHours {
	byMember := make(map[string]*MemberHours)

	for _, entry := range entries {
		if entry.Status != model.StatusCompleted {
			continue
		}

		slot, known := slots[entry.Category]
		if !known {
			continue
		}

		value := 0.0
		if entry.Hours != nil {
			value = *entry.Hours
		}

		mh, ok := byMember[entry.UserID]
		if !ok {
			mh = &MemberHours{}
			byMember[entry.UserID] = mh
		}

		*slot(&mh.Total) += value
		if entry.Trimester != nil && model.ValidTrimester(*entry.Trimester) {
			*slot(&mh.Trimester[*entry.Trimester-1]) += value
		}
	}

	return byMember
}

// AggregateMember computes the hour sums for a single member's entries
func AggregateMember(userID string, entries []model.ServiceEntry) MemberHours {
	byMember := Aggregate(entries)
	if mh, ok := byMember[userID]; ok {
		return *mh
	}
	return MemberHours{}
}

// DefaultTrimesters returns the trimester window the UI preselects for a
// given date: only trimester 1 during Sep-Dec, 1-2 during Jan-Feb, and the
// full year from March onward.
func DefaultTrimesters(now time.Time) []int {
	switch month := now.Month(); {
	case month >= time.September:
		return []int{1}
	case month <= time.February:
		return []int{1, 2}
	default:
		return []int{1, 2, 3}
	}
}
