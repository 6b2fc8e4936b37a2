// Package markethours provides the US equity session clock shared by the
// monitor and the scanner.
package markethours

import "time"

// Session phases, in chronological order.
const (
	PhaseClosed       = "closed"
	PhaseOpeningRange = "opening_range" // 9:30-10:00 ET
	PhaseMorning      = "morning"       // 10:00-11:30 ET
	PhaseMidday       = "midday"        // 11:30-14:00 ET
	PhaseAfternoon    = "afternoon"     // 14:00-15:30 ET
	PhaseLastHalfHour = "last_30_min"   // 15:30-16:00 ET
)

var eastern *time.Location

// Location returns the exchange time zone (America/New_York).
func Location() *time.Location { return eastern }

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("ET", -5*3600)
	}
	eastern = loc
}

func minutesSinceOpen(now time.Time) (int, bool) {
	et := now.In(eastern)
	if wd := et.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 0, false
	}
	mins := et.Hour()*60 + et.Minute()
	open := 9*60 + 30
	close := 16 * 60
	if mins < open || mins > close {
		return 0, false
	}
	return mins - open, true
}

// IsMarketHours reports whether now falls within regular US market hours
// (weekday, 9:30-16:00 ET).
func IsMarketHours(now time.Time) bool {
	_, ok := minutesSinceOpen(now)
	return ok
}

// SessionPhase classifies the current point in the trading session.
func SessionPhase(now time.Time) string {
	m, ok := minutesSinceOpen(now)
	if !ok {
		return PhaseClosed
	}
	switch {
	case m < 30:
		return PhaseOpeningRange
	case m < 120:
		return PhaseMorning
	case m < 270:
		return PhaseMidday
	case m < 360:
		return PhaseAfternoon
	default:
		return PhaseLastHalfHour
	}
}

// AllowNewEntries reports whether new BUY entries are advisable right now:
// the opening range and the final 30 minutes are excluded.
func AllowNewEntries(now time.Time) bool {
	p := SessionPhase(now)
	return p != PhaseClosed && p != PhaseOpeningRange && p != PhaseLastHalfHour
}
