// Package store persists alerts, tracked entries, cooldowns and monitor
// status to SQLite.
package store

import (
	"time"

	"TradeSentry/internal/model"
)

// Fired identifies one alert that already fired this session.
type Fired struct {
	Symbol string
	Type   model.AlertType
}

// Cooldown is a per-symbol BUY freeze with a read-time expiry check.
type Cooldown struct {
	Symbol      string
	SessionDate string
	ExpiresAt   time.Time
	Reason      string
}

// MonitorStatus is the single-row heartbeat the monitor maintains.
type MonitorStatus struct {
	Running     bool
	LastPollAt  time.Time
	PollsToday  int
	AlertsToday int
	UpdatedAt   time.Time
}

// SessionSummary aggregates one session's alerts for the end-of-day digest.
type SessionSummary struct {
	Date   string
	Total  int
	Buys   int
	Sells  int
	Shorts int
	ByType map[model.AlertType]int
}

// Store persists the monitor's state across polls and restarts.
type Store interface {
	// alerts
	RecordAlert(sig *model.AlertSignal, sessionDate string) error
	WasAlertFired(symbol string, t model.AlertType, sessionDate string) (bool, error)
	FiredToday(sessionDate string) ([]Fired, error)
	AlertsToday(sessionDate string) ([]model.AlertSignal, error)
	Summary(sessionDate string) (*SessionSummary, error)

	// active entries
	CreateActiveEntry(e *model.ActiveEntry, sessionDate string) error
	ActiveEntries(symbol, sessionDate string) ([]model.ActiveEntry, error)
	CloseActiveEntry(symbol string, t model.AlertType, sessionDate, reason string) error
	CloseAllEntries(symbol, sessionDate, reason string) error

	// cooldowns
	SaveCooldown(c *Cooldown) error
	IsCooledDown(symbol, sessionDate string, now time.Time) (bool, error)
	ActiveCooldowns(sessionDate string, now time.Time) ([]Cooldown, error)

	// heartbeat
	UpdateStatus(st *MonitorStatus) error
	Status() (*MonitorStatus, error)

	Close() error
}

// SessionDate formats a timestamp as the session key (exchange-local date).
func SessionDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
