package gamification

import (
	"time"
)

// DayLocation is the time zone used for calendar-day boundaries everywhere
// streaks and daily counts are computed. UTC keeps multi-instance
// deployments consistent; it is a policy constant, not a per-user setting.
var DayLocation = time.UTC

const dayKeyFormat = "2006-01-02"

// MilestoneLengths are the streak lengths that get a celebratory
// notification instead of the generic message.
var MilestoneLengths = []int{7, 14, 30, 50, 100}

func IsMilestone(n int) bool {
	for _, m := range MilestoneLengths {
		if n == m {
			return true
		}
	}
	return false
}

// DayIndex indexes solve activity by calendar day so streak and calendar
// queries do not rescan the full ledger per call.
type DayIndex struct {
	loc  *time.Location
	days map[string]int
}

func NewDayIndex(entries []ActivityEntry, loc *time.Location) *DayIndex {
	if loc == nil {
		loc = DayLocation
	}
	ix := &DayIndex{loc: loc, days: make(map[string]int)}
	for _, e := range entries {
		if !e.Valid() || e.Type != ActivityProblemSolved {
			continue
		}
		ix.days[e.Date.In(loc).Format(dayKeyFormat)]++
	}
	return ix
}

func (ix *DayIndex) Active(day time.Time) bool {
	return ix.days[day.In(ix.loc).Format(dayKeyFormat)] > 0
}

func (ix *DayIndex) SolvedOn(day time.Time) int {
	return ix.days[day.In(ix.loc).Format(dayKeyFormat)]
}

// ActiveDays returns the set of day keys (YYYY-MM-DD) with at least one
// solve.
func (ix *DayIndex) ActiveDays() map[string]bool {
	out := make(map[string]bool, len(ix.days))
	for k := range ix.days {
		out[k] = true
	}
	return out
}

// Calendar produces a day-key -> active map for the window of n days ending
// at asOf, for streak widgets.
func (ix *DayIndex) Calendar(asOf time.Time, n int) map[string]bool {
	out := make(map[string]bool, n)
	day := truncateToDay(asOf, ix.loc)
	for i := 0; i < n; i++ {
		out[day.Format(dayKeyFormat)] = ix.days[day.Format(dayKeyFormat)] > 0
		day = day.AddDate(0, 0, -1)
	}
	return out
}

func truncateToDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StreakResult is the outcome of one streak recomputation, compared against
// the previously stored counters.
type StreakResult struct {
	Current     int
	Longest     int
	ActiveDates map[string]bool
	Extended    bool
	Broken      bool
}

// ComputeStreak derives current/longest consecutive-day streaks from the
// ledger as of asOf. Days are calendar days in the index's location, not
// rolling 24h windows. The current streak counts back from the most recent
// active day; a most recent active day older than yesterday resets it to 0.
func ComputeStreak(ix *DayIndex, asOf time.Time) (current, longest int) {
	today := truncateToDay(asOf, ix.loc)

	start := today
	switch {
	case ix.Active(today):
	case ix.Active(today.AddDate(0, 0, -1)):
		// No solve yet today; yesterday's streak still stands.
		start = today.AddDate(0, 0, -1)
	default:
		start = time.Time{}
	}
	if !start.IsZero() {
		for day := start; ix.Active(day); day = day.AddDate(0, 0, -1) {
			current++
		}
	}

	// Longest run over the whole history.
	run := 0
	for day := range ix.days {
		d, err := time.ParseInLocation(dayKeyFormat, day, ix.loc)
		if err != nil {
			continue
		}
		// Only count runs from their first day to avoid rescanning.
		if ix.Active(d.AddDate(0, 0, -1)) {
			continue
		}
		n := 0
		for ; ix.Active(d); d = d.AddDate(0, 0, 1) {
			n++
		}
		if n > run {
			run = n
		}
	}
	longest = run
	return current, longest
}

// UpdateStreak recomputes the streak and resolves it against the previously
// stored counters. Longest never decreases; a stored longest below the
// recomputed current is clamped up rather than failing the pass.
func UpdateStreak(ix *DayIndex, asOf time.Time, prevCurrent, prevLongest int) StreakResult {
	current, longest := ComputeStreak(ix, asOf)
	if prevLongest > longest {
		longest = prevLongest
	}
	if current > longest {
		longest = current
	}
	return StreakResult{
		Current:     current,
		Longest:     longest,
		ActiveDates: ix.ActiveDays(),
		Extended:    current > prevCurrent,
		Broken:      current < prevCurrent,
	}
}
