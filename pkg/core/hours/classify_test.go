package hours

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

func TestCategoryThreshold(t *testing.T) {
	assert.Equal(t, 5.0, CategoryThreshold(model.CategoryInSchool, 1))
	assert.Equal(t, 10.0, CategoryThreshold(model.CategoryOutSchool, 2))
	assert.Equal(t, 3.0, CategoryThreshold(model.CategoryRedHook, 1))
	assert.Equal(t, 9.0, CategoryThreshold(model.CategoryRedHook, 3))
}

func TestClassify_SingleTrimester(t *testing.T) {
	c := Classify(Vector{InSchool: 5, OutSchool: 2, RedHook: 0}, 1)

	assert.Equal(t, LevelSatisfied, c.InSchool)
	assert.Equal(t, LevelPartial, c.OutSchool)
	assert.Equal(t, LevelDeficient, c.RedHook)
	assert.Equal(t, LevelPartial, c.Overall)
}

func TestClassify_AllZero(t *testing.T) {
	c := Classify(Vector{}, 1)

	assert.Equal(t, LevelDeficient, c.InSchool)
	assert.Equal(t, LevelDeficient, c.OutSchool)
	assert.Equal(t, LevelDeficient, c.RedHook)
	assert.Equal(t, LevelDeficient, c.Overall)
}

func TestClassify_Satisfied(t *testing.T) {
	c := Classify(Vector{InSchool: 6, OutSchool: 6, RedHook: 3}, 1)

	assert.Equal(t, LevelSatisfied, c.InSchool)
	assert.Equal(t, LevelSatisfied, c.OutSchool)
	assert.Equal(t, LevelSatisfied, c.RedHook)
	assert.Equal(t, LevelSatisfied, c.Overall)
}

// Every category over its threshold but the overall sum under 15 per
// trimester still leaves the overall level partial.
func TestClassify_OverallFloorBindsIndependently(t *testing.T) {
	c := Classify(Vector{InSchool: 5, OutSchool: 5, RedHook: 3}, 1)

	assert.Equal(t, LevelSatisfied, c.InSchool)
	assert.Equal(t, LevelSatisfied, c.OutSchool)
	assert.Equal(t, LevelSatisfied, c.RedHook)
	assert.Equal(t, LevelPartial, c.Overall)
}

func TestClassify_TwoTrimestersScaleThresholds(t *testing.T) {
	// 4 T1 in-school + 2 T1 red hook + 6 T2 out-of-school over a two
	// trimester window: every slot under its doubled threshold.
	mh := MemberHours{
		Trimester: [3]Vector{
			{InSchool: 4, RedHook: 2},
			{OutSchool: 6},
			{},
		},
	}
	sel := mh.Selected([]int{1, 2})
	assert.Equal(t, Vector{InSchool: 4, OutSchool: 6, RedHook: 2}, sel)

	c := Classify(sel, 2)
	assert.Equal(t, LevelPartial, c.InSchool)
	assert.Equal(t, LevelPartial, c.OutSchool)
	assert.Equal(t, LevelPartial, c.RedHook)
	assert.Equal(t, LevelPartial, c.Overall)
}

func TestColors(t *testing.T) {
	assert.Equal(t, "#8B0000", CategoryColor(LevelDeficient))
	assert.Equal(t, "#808080", CategoryColor(LevelPartial))
	assert.Equal(t, "#28a745", CategoryColor(LevelSatisfied))

	assert.Equal(t, "#D3D3D3", OverallColor(LevelDeficient))
	assert.Equal(t, "#808080", OverallColor(LevelPartial))
	assert.Equal(t, "#28a745", OverallColor(LevelSatisfied))
}
