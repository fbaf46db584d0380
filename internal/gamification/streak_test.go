package gamification

import (
	"testing"
	"time"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02 15:04", value, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", value, err)
	}
	return d
}

func solveAt(t *testing.T, value string) ActivityEntry {
	t.Helper()
	return ActivityEntry{
		Type:     ActivityProblemSolved,
		Date:     day(t, value),
		Metadata: map[string]string{"difficulty": DifficultyEasy, "platform": "leetcode"},
	}
}

func TestComputeStreakConsecutiveDays(t *testing.T) {
	entries := []ActivityEntry{
		solveAt(t, "2026-03-01 09:00"),
		solveAt(t, "2026-03-02 22:10"),
		solveAt(t, "2026-03-03 00:30"),
	}
	ix := NewDayIndex(entries, time.UTC)
	current, longest := ComputeStreak(ix, day(t, "2026-03-03 12:00"))
	if current != 3 || longest != 3 {
		t.Fatalf("current=%d longest=%d, want 3/3", current, longest)
	}
}

func TestComputeStreakNoSolveTodayKeepsYesterdayStreak(t *testing.T) {
	entries := []ActivityEntry{
		solveAt(t, "2026-03-01 09:00"),
		solveAt(t, "2026-03-02 09:00"),
	}
	ix := NewDayIndex(entries, time.UTC)
	current, _ := ComputeStreak(ix, day(t, "2026-03-03 08:00"))
	if current != 2 {
		t.Fatalf("current=%d, want 2 (first solve of today must not break yesterday's streak)", current)
	}
}

func TestComputeStreakGapResets(t *testing.T) {
	entries := []ActivityEntry{
		solveAt(t, "2026-03-01 09:00"),
		solveAt(t, "2026-03-02 09:00"),
	}
	ix := NewDayIndex(entries, time.UTC)
	current, longest := ComputeStreak(ix, day(t, "2026-03-05 08:00"))
	if current != 0 {
		t.Fatalf("current=%d, want 0 after a 2-day gap", current)
	}
	if longest != 2 {
		t.Fatalf("longest=%d, want 2", longest)
	}
}

func TestSameDayRepeatsExtendAtMostOnce(t *testing.T) {
	entries := []ActivityEntry{
		solveAt(t, "2026-03-01 09:00"),
	}
	ix := NewDayIndex(entries, time.UTC)
	asOf := day(t, "2026-03-01 10:00")
	res := UpdateStreak(ix, asOf, 0, 0)
	if res.Current != 1 || !res.Extended {
		t.Fatalf("first solve: current=%d extended=%v, want 1/true", res.Current, res.Extended)
	}

	entries = append(entries, solveAt(t, "2026-03-01 11:00"), solveAt(t, "2026-03-01 12:00"))
	ix = NewDayIndex(entries, time.UTC)
	res = UpdateStreak(ix, day(t, "2026-03-01 12:30"), res.Current, res.Longest)
	if res.Current != 1 {
		t.Fatalf("same-day repeats: current=%d, want still 1", res.Current)
	}
	if res.Extended || res.Broken {
		t.Fatalf("same-day repeats must not report extended=%v broken=%v", res.Extended, res.Broken)
	}
}

func TestUpdateStreakScenarioSixToSeven(t *testing.T) {
	entries := make([]ActivityEntry, 0, 7)
	for d := 1; d <= 7; d++ {
		entries = append(entries, solveAt(t, time.Date(2026, 3, d, 9, 0, 0, 0, time.UTC).Format("2006-01-02 15:04")))
	}
	ix := NewDayIndex(entries, time.UTC)
	res := UpdateStreak(ix, day(t, "2026-03-07 10:00"), 6, 6)
	if res.Current != 7 || !res.Extended || res.Broken {
		t.Fatalf("got current=%d extended=%v broken=%v, want 7/true/false", res.Current, res.Extended, res.Broken)
	}
	if !IsMilestone(res.Current) {
		t.Fatalf("7 must be a milestone streak")
	}
}

func TestUpdateStreakScenarioBrokenAfterGap(t *testing.T) {
	entries := make([]ActivityEntry, 0, 6)
	for d := 1; d <= 5; d++ {
		entries = append(entries, solveAt(t, time.Date(2026, 3, d, 9, 0, 0, 0, time.UTC).Format("2006-01-02 15:04")))
	}
	// Last solve 3 calendar days ago, then one today.
	entries = append(entries, solveAt(t, "2026-03-08 09:00"))
	ix := NewDayIndex(entries, time.UTC)
	res := UpdateStreak(ix, day(t, "2026-03-08 10:00"), 5, 5)
	if res.Current != 1 {
		t.Fatalf("current=%d, want reset to 1", res.Current)
	}
	if !res.Broken || res.Extended {
		t.Fatalf("got broken=%v extended=%v, want true/false", res.Broken, res.Extended)
	}
	if res.Longest != 5 {
		t.Fatalf("longest=%d, want 5 preserved", res.Longest)
	}
}

func TestUpdateStreakLongestNeverDecreases(t *testing.T) {
	entries := []ActivityEntry{solveAt(t, "2026-03-10 09:00")}
	ix := NewDayIndex(entries, time.UTC)
	res := UpdateStreak(ix, day(t, "2026-03-10 10:00"), 0, 42)
	if res.Longest != 42 {
		t.Fatalf("longest=%d, want stored 42 preserved", res.Longest)
	}
}

func TestUpdateStreakClampsInvariantViolation(t *testing.T) {
	entries := []ActivityEntry{
		solveAt(t, "2026-03-09 09:00"),
		solveAt(t, "2026-03-10 09:00"),
	}
	ix := NewDayIndex(entries, time.UTC)
	// Stored longest below the recomputed current: clamp, don't fail.
	res := UpdateStreak(ix, day(t, "2026-03-10 10:00"), 1, 1)
	if res.Current != 2 || res.Longest != 2 {
		t.Fatalf("current=%d longest=%d, want clamped 2/2", res.Current, res.Longest)
	}
}

func TestCalendarWindow(t *testing.T) {
	entries := []ActivityEntry{
		solveAt(t, "2026-03-01 09:00"),
		solveAt(t, "2026-03-03 09:00"),
	}
	ix := NewDayIndex(entries, time.UTC)
	cal := ix.Calendar(day(t, "2026-03-03 12:00"), 4)
	if len(cal) != 4 {
		t.Fatalf("calendar size=%d, want 4", len(cal))
	}
	if !cal["2026-03-03"] || cal["2026-03-02"] || !cal["2026-03-01"] || cal["2026-02-28"] {
		t.Fatalf("unexpected calendar: %v", cal)
	}
}

func TestMalformedEntriesSkipped(t *testing.T) {
	entries := []ActivityEntry{
		solveAt(t, "2026-03-01 09:00"),
		{Type: ActivityProblemSolved},                     // zero date
		{Type: "bogus", Date: day(t, "2026-03-01 09:00")}, // unknown type
	}
	if got := CountMalformed(entries); got != 2 {
		t.Fatalf("malformed=%d, want 2", got)
	}
	ix := NewDayIndex(entries, time.UTC)
	current, _ := ComputeStreak(ix, day(t, "2026-03-01 12:00"))
	if current != 1 {
		t.Fatalf("current=%d, want 1 with malformed rows ignored", current)
	}
}
