package gamification

import "testing"

func TestLevelForXPBaseline(t *testing.T) {
	if got := LevelForXP(0); got != 1 {
		t.Fatalf("LevelForXP(0)=%d, want 1", got)
	}
	if got := LevelForXP(-10); got != 1 {
		t.Fatalf("LevelForXP(-10)=%d, want 1", got)
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 120000; xp += 37 {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("LevelForXP not monotonic: xp=%d level=%d prev=%d", xp, level, prev)
		}
		prev = level
	}
	if LevelForXP(1<<30) != MaxLevel {
		t.Fatalf("huge XP must cap at MaxLevel %d", MaxLevel)
	}
}

func TestLevelBreakpointsStrictlyIncreasing(t *testing.T) {
	for level := 2; level <= MaxLevel; level++ {
		if XPForLevel(level) <= XPForLevel(level-1) {
			t.Fatalf("breakpoint for level %d (%d) not above level %d (%d)",
				level, XPForLevel(level), level-1, XPForLevel(level-1))
		}
		at := XPForLevel(level)
		if LevelForXP(at) != level {
			t.Fatalf("LevelForXP(%d)=%d, want %d at its own breakpoint", at, LevelForXP(at), level)
		}
		if LevelForXP(at-1) != level-1 {
			t.Fatalf("LevelForXP(%d)=%d, want %d just below breakpoint", at-1, LevelForXP(at-1), level-1)
		}
	}
}

func TestApplyXPLevelUpReportedOnce(t *testing.T) {
	// Level 5 begins at 500 XP.
	res := ApplyXP(480, 30)
	if res.TotalXP != 510 {
		t.Fatalf("total=%d, want 510", res.TotalXP)
	}
	if !res.LeveledUp || res.NewLevel != 5 || res.PreviousLevel != 4 {
		t.Fatalf("got leveledUp=%v new=%d prev=%d, want true/5/4", res.LeveledUp, res.NewLevel, res.PreviousLevel)
	}
}

func TestApplyXPMultiLevelJumpSingleEvent(t *testing.T) {
	res := ApplyXP(0, 600)
	if res.PreviousLevel != 1 || res.NewLevel != 5 || !res.LeveledUp {
		t.Fatalf("got prev=%d new=%d leveledUp=%v, want 1/5/true as one event", res.PreviousLevel, res.NewLevel, res.LeveledUp)
	}
}

func TestApplyXPClampsAtZero(t *testing.T) {
	res := ApplyXP(40, -100)
	if res.TotalXP != 0 {
		t.Fatalf("total=%d, want clamp at 0", res.TotalXP)
	}
	if res.LeveledUp {
		t.Fatalf("losing XP must not report a level up")
	}
}
