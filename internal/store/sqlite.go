package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TradeSentry/internal/model"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so status reads don't block the poll loop's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS alerts (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol       TEXT NOT NULL,
			alert_type   TEXT NOT NULL,
			direction    TEXT NOT NULL,
			price        REAL,
			entry        REAL,
			stop         REAL,
			target1      REAL,
			target2      REAL,
			confidence   TEXT,
			message      TEXT,
			score        INTEGER,
			score_label  TEXT,
			session_date TEXT NOT NULL,
			created_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_session ON alerts(session_date, symbol)`,

		`CREATE TABLE IF NOT EXISTS active_entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol       TEXT NOT NULL,
			session_date TEXT NOT NULL,
			alert_type   TEXT NOT NULL,
			entry_price  REAL NOT NULL,
			stop_price   REAL NOT NULL,
			target1      REAL,
			target2      REAL,
			status       TEXT NOT NULL DEFAULT 'open',
			close_reason TEXT,
			created_at   TEXT NOT NULL,
			UNIQUE(symbol, session_date, alert_type)
		)`,

		`CREATE TABLE IF NOT EXISTS cooldowns (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol       TEXT NOT NULL,
			session_date TEXT NOT NULL,
			expires_at   TEXT NOT NULL,
			reason       TEXT,
			UNIQUE(symbol, session_date)
		)`,

		`CREATE TABLE IF NOT EXISTS monitor_status (
			id           INTEGER PRIMARY KEY CHECK (id = 1),
			running      INTEGER NOT NULL DEFAULT 0,
			last_poll_at TEXT,
			polls_today  INTEGER NOT NULL DEFAULT 0,
			alerts_today INTEGER NOT NULL DEFAULT 0,
			updated_at   TEXT
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) RecordAlert(sig *model.AlertSignal, sessionDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO alerts
		(symbol, alert_type, direction, price, entry, stop, target1, target2,
		 confidence, message, score, score_label, session_date, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sig.Symbol, string(sig.Type), sig.Direction, sig.Price,
		sig.Entry, sig.Stop, sig.Target1, sig.Target2,
		sig.Confidence, sig.Message, sig.Score, sig.ScoreLabel,
		sessionDate, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) WasAlertFired(symbol string, t model.AlertType, sessionDate string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM alerts
		WHERE symbol = ? AND alert_type = ? AND session_date = ?`,
		symbol, string(t), sessionDate).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) FiredToday(sessionDate string) ([]Fired, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol, alert_type FROM alerts
		WHERE session_date = ?`, sessionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Fired
	for rows.Next() {
		var f Fired
		var t string
		if err := rows.Scan(&f.Symbol, &t); err != nil {
			return nil, err
		}
		f.Type = model.AlertType(t)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AlertsToday(sessionDate string) ([]model.AlertSignal, error) {
	rows, err := s.db.Query(`SELECT symbol, alert_type, direction, price, entry,
		stop, target1, target2, confidence, message, score, score_label
		FROM alerts WHERE session_date = ? ORDER BY id`, sessionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AlertSignal
	for rows.Next() {
		var sig model.AlertSignal
		var t string
		if err := rows.Scan(&sig.Symbol, &t, &sig.Direction, &sig.Price,
			&sig.Entry, &sig.Stop, &sig.Target1, &sig.Target2,
			&sig.Confidence, &sig.Message, &sig.Score, &sig.ScoreLabel); err != nil {
			return nil, err
		}
		sig.Type = model.AlertType(t)
		out = append(out, sig)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Summary(sessionDate string) (*SessionSummary, error) {
	alerts, err := s.AlertsToday(sessionDate)
	if err != nil {
		return nil, err
	}
	sum := &SessionSummary{
		Date:   sessionDate,
		ByType: make(map[model.AlertType]int),
	}
	for _, a := range alerts {
		sum.Total++
		sum.ByType[a.Type]++
		switch a.Direction {
		case model.Buy:
			sum.Buys++
		case model.Short:
			sum.Shorts++
		default:
			sum.Sells++
		}
	}
	return sum, nil
}

func (s *SQLiteStore) CreateActiveEntry(e *model.ActiveEntry, sessionDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// INSERT OR IGNORE: one entry per (symbol, session, rule)
	_, err := s.db.Exec(`INSERT OR IGNORE INTO active_entries
		(symbol, session_date, alert_type, entry_price, stop_price, target1, target2, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		e.Symbol, sessionDate, string(e.AlertType),
		e.EntryPrice, e.StopPrice, e.Target1, e.Target2,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) ActiveEntries(symbol, sessionDate string) ([]model.ActiveEntry, error) {
	rows, err := s.db.Query(`SELECT symbol, alert_type, entry_price, stop_price, target1, target2
		FROM active_entries
		WHERE symbol = ? AND session_date = ? AND status = 'open'`,
		symbol, sessionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ActiveEntry
	for rows.Next() {
		var e model.ActiveEntry
		var t string
		if err := rows.Scan(&e.Symbol, &t, &e.EntryPrice, &e.StopPrice, &e.Target1, &e.Target2); err != nil {
			return nil, err
		}
		e.AlertType = model.AlertType(t)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CloseActiveEntry(symbol string, t model.AlertType, sessionDate, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE active_entries SET status = 'closed', close_reason = ?
		WHERE symbol = ? AND alert_type = ? AND session_date = ? AND status = 'open'`,
		reason, symbol, string(t), sessionDate)
	return err
}

func (s *SQLiteStore) CloseAllEntries(symbol, sessionDate, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE active_entries SET status = 'closed', close_reason = ?
		WHERE symbol = ? AND session_date = ? AND status = 'open'`,
		reason, symbol, sessionDate)
	return err
}

func (s *SQLiteStore) SaveCooldown(c *Cooldown) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// REPLACE: a new stop-out restarts the clock
	_, err := s.db.Exec(`INSERT OR REPLACE INTO cooldowns
		(symbol, session_date, expires_at, reason)
		VALUES (?,?,?,?)`,
		c.Symbol, c.SessionDate, c.ExpiresAt.UTC().Format(time.RFC3339), c.Reason)
	return err
}

// IsCooledDown checks expiry at read time, so stale rows never block a
// symbol past their window.
func (s *SQLiteStore) IsCooledDown(symbol, sessionDate string, now time.Time) (bool, error) {
	var expires string
	err := s.db.QueryRow(`SELECT expires_at FROM cooldowns
		WHERE symbol = ? AND session_date = ?`, symbol, sessionDate).Scan(&expires)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	t, err := time.Parse(time.RFC3339, expires)
	if err != nil {
		return false, fmt.Errorf("parse cooldown expiry: %w", err)
	}
	return now.Before(t), nil
}

func (s *SQLiteStore) ActiveCooldowns(sessionDate string, now time.Time) ([]Cooldown, error) {
	rows, err := s.db.Query(`SELECT symbol, session_date, expires_at, reason
		FROM cooldowns WHERE session_date = ?`, sessionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Cooldown
	for rows.Next() {
		var c Cooldown
		var expires string
		if err := rows.Scan(&c.Symbol, &c.SessionDate, &expires, &c.Reason); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, expires)
		if err != nil {
			return nil, fmt.Errorf("parse cooldown expiry: %w", err)
		}
		if now.Before(t) {
			c.ExpiresAt = t
			out = append(out, c)
		}
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateStatus(st *MonitorStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	running := 0
	if st.Running {
		running = 1
	}
	_, err := s.db.Exec(`INSERT INTO monitor_status
		(id, running, last_poll_at, polls_today, alerts_today, updated_at)
		VALUES (1,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			running = excluded.running,
			last_poll_at = excluded.last_poll_at,
			polls_today = excluded.polls_today,
			alerts_today = excluded.alerts_today,
			updated_at = excluded.updated_at`,
		running,
		st.LastPollAt.UTC().Format(time.RFC3339),
		st.PollsToday, st.AlertsToday,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) Status() (*MonitorStatus, error) {
	var st MonitorStatus
	var running int
	var lastPoll, updated sql.NullString
	err := s.db.QueryRow(`SELECT running, last_poll_at, polls_today, alerts_today, updated_at
		FROM monitor_status WHERE id = 1`).
		Scan(&running, &lastPoll, &st.PollsToday, &st.AlertsToday, &updated)
	if err == sql.ErrNoRows {
		return &MonitorStatus{}, nil
	}
	if err != nil {
		return nil, err
	}
	st.Running = running == 1
	if lastPoll.Valid {
		if t, err := time.Parse(time.RFC3339, lastPoll.String); err == nil {
			st.LastPollAt = t
		}
	}
	if updated.Valid {
		if t, err := time.Parse(time.RFC3339, updated.String); err == nil {
			st.UpdatedAt = t
		}
	}
	return &st, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
