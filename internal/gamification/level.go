package gamification

// The XP-to-level curve is a policy constant: a strictly increasing table of
// cumulative XP thresholds. levelThresholds[i] is the XP at which level i+1
// begins. Early levels come fast (level 5 at 500 XP, level 10 at 2000),
// then +500 per level through 25, then +1000 per level, capped at MaxLevel.
const MaxLevel = 100

var levelThresholds []int

func init() {
	levelThresholds = []int{0, 100, 225, 350, 500, 700, 950, 1250, 1600, 2000}
	for xp := 2000; len(levelThresholds) < 25; {
		xp += 500
		levelThresholds = append(levelThresholds, xp)
	}
	for xp := levelThresholds[24]; len(levelThresholds) < MaxLevel; {
		xp += 1000
		levelThresholds = append(levelThresholds, xp)
	}
}

// LevelForXP maps cumulative XP to a level. Monotonic non-decreasing;
// LevelForXP(0) = 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	level := 1
	for i := 1; i < len(levelThresholds); i++ {
		if xp < levelThresholds[i] {
			break
		}
		level = i + 1
	}
	return level
}

// XPForLevel returns the cumulative XP at which the given level begins.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}

type XPResult struct {
	TotalXP       int
	PreviousLevel int
	NewLevel      int
	LeveledUp     bool
}

// ApplyXP adds a delta to the running total (clamped at 0) and reports the
// level transition. A multi-level jump is reported once, carrying the final
// level.
func ApplyXP(totalXP, delta int) XPResult {
	if totalXP < 0 {
		totalXP = 0
	}
	prev := LevelForXP(totalXP)
	total := totalXP + delta
	if total < 0 {
		total = 0
	}
	next := LevelForXP(total)
	return XPResult{
		TotalXP:       total,
		PreviousLevel: prev,
		NewLevel:      next,
		LeveledUp:     next > prev,
	}
}
