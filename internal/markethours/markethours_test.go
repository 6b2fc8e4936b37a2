package markethours

import (
	"testing"
	"time"
)

// et builds a timestamp on Wednesday 2025-06-04 at the given ET clock time.
func et(hour, min int) time.Time {
	return time.Date(2025, 6, 4, hour, min, 0, 0, eastern)
}

func TestSessionPhase(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{et(9, 0), PhaseClosed},
		{et(9, 30), PhaseOpeningRange},
		{et(9, 59), PhaseOpeningRange},
		{et(10, 0), PhaseMorning},
		{et(11, 29), PhaseMorning},
		{et(11, 30), PhaseMidday},
		{et(13, 59), PhaseMidday},
		{et(14, 0), PhaseAfternoon},
		{et(15, 29), PhaseAfternoon},
		{et(15, 30), PhaseLastHalfHour},
		{et(16, 0), PhaseLastHalfHour},
		{et(16, 1), PhaseClosed},
	}
	for _, tt := range tests {
		if got := SessionPhase(tt.at); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.at.Format("15:04"), got, tt.want)
		}
	}
}

func TestWeekendClosed(t *testing.T) {
	saturday := time.Date(2025, 6, 7, 11, 0, 0, 0, eastern)
	if IsMarketHours(saturday) {
		t.Error("Saturday should be closed")
	}
	if SessionPhase(saturday) != PhaseClosed {
		t.Error("Saturday phase should be closed")
	}
}

func TestAllowNewEntries(t *testing.T) {
	tests := []struct {
		at   time.Time
		want bool
	}{
		{et(9, 45), false},  // opening range
		{et(10, 30), true},  // morning
		{et(12, 0), true},   // midday
		{et(15, 45), false}, // last 30 minutes
		{et(18, 0), false},  // closed
	}
	for _, tt := range tests {
		if got := AllowNewEntries(tt.at); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.at.Format("15:04"), got, tt.want)
		}
	}
}
