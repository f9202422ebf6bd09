// Package level maps achievement points to a user level.
package level

// Thresholds[i] is the minimum points for level i+1.
var Thresholds = [...]int{0, 100, 250, 500, 1000, 2000, 4000, 8000, 15000}

// Max is the highest reachable level.
const Max = len(Thresholds)

// Level returns the level for points, in [1, Max]. Negative points are
// treated as zero.
func Level(points int) int {
	lvl := 1
	for i, min := range Thresholds {
		if points >= min {
			lvl = i + 1
		}
	}
	return lvl
}

// ProgressToNext returns the percent (0..100) of the way from the current
// level's floor to the next level's floor. Max level is always 100.
func ProgressToNext(points int) int {
	lvl := Level(points)
	if lvl == Max {
		return 100
	}
	if points < 0 {
		points = 0
	}
	floor := Thresholds[lvl-1]
	ceil := Thresholds[lvl]
	pct := (points - floor) * 100 / (ceil - floor)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// NextLevel describes the distance to the next level.
type NextLevel struct {
	Level        int `json:"level"`
	PointsNeeded int `json:"pointsNeeded"`
	Progress     int `json:"progress"`
}

// Next returns the next level and the points still needed to reach it.
// At Max the next level is Max with nothing left to earn.
func Next(points int) NextLevel {
	lvl := Level(points)
	if lvl == Max {
		return NextLevel{Level: Max, PointsNeeded: 0, Progress: 100}
	}
	if points < 0 {
		points = 0
	}
	return NextLevel{
		Level:        lvl + 1,
		PointsNeeded: Thresholds[lvl] - points,
		Progress:     ProgressToNext(points),
	}
}

// Changed reports whether moving from before to after points crosses a
// level boundary upward, and the new level if so.
func Changed(before, after int) (int, bool) {
	old, cur := Level(before), Level(after)
	return cur, cur > old
}
