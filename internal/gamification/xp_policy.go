package gamification

// Base XP per solve, by difficulty. Policy constants; badge rewards come
// on top via the award loop.
const (
	XPSolveEasy   = 10
	XPSolveMedium = 25
	XPSolveHard   = 50

	// XPPatternCompletion is the bonus for finishing every problem in a
	// pattern.
	XPPatternCompletion = 100
)

func BaseSolveXP(difficulty string) int {
	switch difficulty {
	case DifficultyMedium:
		return XPSolveMedium
	case DifficultyHard:
		return XPSolveHard
	}
	return XPSolveEasy
}
