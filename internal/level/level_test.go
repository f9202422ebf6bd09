package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{-10, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{500, 4},
		{999, 4},
		{1000, 5},
		{2000, 6},
		{4000, 7},
		{7999, 7},
		{8000, 8},
		{14999, 8},
		{15000, 9},
		{1000000, 9},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.points), "points=%d", tt.points)
	}
}

func TestLevel_Monotonic(t *testing.T) {
	prev := Level(0)
	for p := 0; p <= 16000; p += 7 {
		cur := Level(p)
		assert.GreaterOrEqual(t, cur, prev, "points=%d", p)
		prev = cur
	}
}

func TestProgressToNext(t *testing.T) {
	assert.Equal(t, 0, ProgressToNext(0))
	assert.Equal(t, 50, ProgressToNext(50))
	assert.Equal(t, 0, ProgressToNext(100))
	assert.Equal(t, 50, ProgressToNext(175))
	assert.Equal(t, 99, ProgressToNext(14999))
	assert.Equal(t, 100, ProgressToNext(15000))
	assert.Equal(t, 100, ProgressToNext(20000))
}

func TestNext(t *testing.T) {
	assert.Equal(t, NextLevel{Level: 2, PointsNeeded: 100, Progress: 0}, Next(0))
	assert.Equal(t, NextLevel{Level: 3, PointsNeeded: 30, Progress: 80}, Next(220))
	assert.Equal(t, NextLevel{Level: 9, PointsNeeded: 1, Progress: 99}, Next(14999))
	assert.Equal(t, NextLevel{Level: Max, PointsNeeded: 0, Progress: 100}, Next(15000))
}

func TestChanged(t *testing.T) {
	lvl, up := Changed(90, 110)
	assert.True(t, up)
	assert.Equal(t, 2, lvl)

	lvl, up = Changed(110, 120)
	assert.False(t, up)
	assert.Equal(t, 2, lvl)

	// Multiple levels at once report the final one.
	lvl, up = Changed(0, 600)
	assert.True(t, up)
	assert.Equal(t, 4, lvl)

	// Losing points is never a level-up.
	_, up = Changed(600, 0)
	assert.False(t, up)
}
