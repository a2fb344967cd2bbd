package hours

import "github.com/bibnhs/chapter-portal/pkg/core/model"

// Level is the three-way eligibility classification of an hour sum against
// its trimester-scaled threshold.
type Level string

const (
	LevelDeficient Level = "deficient"
	LevelPartial   Level = "partial"
	LevelSatisfied Level = "satisfied"
)

// Per-trimester hour requirements. Thresholds scale linearly with the number
// of trimesters selected.
const (
	SchoolHoursPerTrimester  = 5.0 // in_school and out_school each
	RedHookHoursPerTrimester = 3.0
	TotalHoursPerTrimester   = 15.0
)

// CategoryThreshold returns the required hours for a category over k
// selected trimesters.
func CategoryThreshold(category model.Category, k int) float64 {
	if category == model.CategoryRedHook {
		return RedHookHoursPerTrimester * float64(k)
	}
	return SchoolHoursPerTrimester * float64(k)
}

// classifyValue applies the shared three-way rule: exactly zero is
// deficient, anything below threshold is partial, at or above is satisfied.
func classifyValue(value, threshold float64) Level {
	switch {
	case value == 0:
		return LevelDeficient
	case value < threshold:
		return LevelPartial
	default:
		return LevelSatisfied
	}
}

// Classification holds the per-category and overall levels for a selected
// hour vector.
type Classification struct {
	InSchool  Level
	OutSchool Level
	RedHook   Level
	Overall   Level
}

// Classify evaluates a selected vector against thresholds scaled by k, the
// number of trimesters selected (k >= 1). The overall level is deficient
// only at zero hours, partial while any category is partial or the overall
// sum is below 15*k, and satisfied otherwise. Pure and stateless; callers
// re-run it on every render.
func Classify(sel Vector, k int) Classification {
	c := Classification{
		InSchool:  classifyValue(sel.InSchool, CategoryThreshold(model.CategoryInSchool, k)),
		OutSchool: classifyValue(sel.OutSchool, CategoryThreshold(model.CategoryOutSchool, k)),
		RedHook:   classifyValue(sel.RedHook, CategoryThreshold(model.CategoryRedHook, k)),
	}

	overall := sel.Overall()
	switch {
	case overall == 0:
		c.Overall = LevelDeficient
	case c.InSchool == LevelPartial || c.OutSchool == LevelPartial || c.RedHook == LevelPartial:
		c.Overall = LevelPartial
	case overall < TotalHoursPerTrimester*float64(k):
		c.Overall = LevelPartial
	default:
		c.Overall = LevelSatisfied
	}

	return c
}

// Display colors are bound 1:1 to levels so presentation can never diverge
// from the classification. Category cells use a dark red for deficient;
// the overall cell softens deficient to light grey.
var (
	categoryColors = map[Level]string{
		LevelDeficient: "#8B0000",
		LevelPartial:   "#808080",
		LevelSatisfied: "#28a745",
	}
	overallColors = map[Level]string{
		LevelDeficient: "#D3D3D3",
		LevelPartial:   "#808080",
		LevelSatisfied: "#28a745",
	}
)

// CategoryColor returns the display color for a category cell level
func CategoryColor(l Level) string {
	return categoryColors[l]
}

// OverallColor returns the display color for the overall cell level
func OverallColor(l Level) string {
	return overallColors[l]
}
