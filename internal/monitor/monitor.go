// Package monitor drives the poll loop: every few minutes during market
// hours it pulls fresh bars, runs the rule engine per symbol, and routes
// whatever fires through dedup, notification, persistence and cooldowns.
package monitor

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"TradeSentry/internal/config"
	"TradeSentry/internal/feed"
	"TradeSentry/internal/markethours"
	"TradeSentry/internal/model"
	"TradeSentry/internal/notifier"
	"TradeSentry/internal/rules"
	"TradeSentry/internal/store"
)

// Monitor owns the cron loop and the per-poll pipeline.
type Monitor struct {
	Cron      *cron.Cron
	Collector *feed.Collector
	Store     store.Store
	Notifier  *notifier.Notifier
	Cfg       *config.Config
	Ctx       context.Context

	mu         sync.Mutex
	autoStops  map[string]model.AutoStopEntry
	pollsToday int
	alertCount int

	now func() time.Time
}

// New creates a Monitor with the cron clock pinned to exchange time.
func New(ctx context.Context, col *feed.Collector, st store.Store, nt *notifier.Notifier, cfg *config.Config) *Monitor {
	return &Monitor{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(markethours.Location())),
		Collector: col,
		Store:     st,
		Notifier:  nt,
		Cfg:       cfg,
		Ctx:       ctx,
		autoStops: make(map[string]model.AutoStopEntry),
		now:       time.Now,
	}
}

// RegisterAll registers the poll task and the end-of-day summary.
func (m *Monitor) RegisterAll() error {
	if _, err := m.Cron.AddFunc(m.Cfg.Monitor.PollCron, m.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	// summary shortly after the close, weekdays
	if _, err := m.Cron.AddFunc("0 5 16 * * 1-5", m.summaryTask); err != nil {
		return fmt.Errorf("register summary task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (m *Monitor) Start() {
	m.Cron.Start()
	log.Println("[INFO] monitor started")
}

// Stop stops the cron scheduler gracefully and marks the heartbeat down.
func (m *Monitor) Stop() {
	m.Cron.Stop()
	if err := m.Store.UpdateStatus(&store.MonitorStatus{Running: false, LastPollAt: m.now()}); err != nil {
		log.Printf("[ERROR] update status on stop: %v", err)
	}
	log.Println("[INFO] monitor stopped")
}

// AddAutoStop tracks a manually reported position for stop-out alerts.
func (m *Monitor) AddAutoStop(symbol string, e model.AutoStopEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoStops[symbol] = e
}

// RunPollNow executes one poll immediately (manual trigger / RUN_ON_START).
func (m *Monitor) RunPollNow() {
	m.pollTask()
}

func (m *Monitor) pollTask() {
	now := m.now()
	if !markethours.IsMarketHours(now) {
		return
	}
	log.Println("[INFO] running poll")

	spy, err := m.Collector.SpySnapshot()
	if err != nil {
		log.Printf("[WARN] SPY snapshot: %v, continuing without regime", err)
	}

	sessionDate := store.SessionDate(now, markethours.Location())
	fired := m.firedSet(sessionDate)

	for _, symbol := range m.Cfg.Watchlist {
		if err := m.processSymbol(symbol, sessionDate, now, spy, fired); err != nil {
			log.Printf("[ERROR] %s: %v", symbol, err)
		}
	}

	m.mu.Lock()
	m.pollsToday++
	polls, alerts := m.pollsToday, m.alertCount
	m.mu.Unlock()
	if err := m.Store.UpdateStatus(&store.MonitorStatus{
		Running: true, LastPollAt: now, PollsToday: polls, AlertsToday: alerts,
	}); err != nil {
		log.Printf("[ERROR] heartbeat: %v", err)
	}
}

func (m *Monitor) firedSet(sessionDate string) map[rules.FiredKey]bool {
	fired := make(map[rules.FiredKey]bool)
	list, err := m.Store.FiredToday(sessionDate)
	if err != nil {
		log.Printf("[ERROR] load fired set: %v", err)
		return fired
	}
	for _, f := range list {
		fired[rules.FiredKey{Symbol: f.Symbol, Type: f.Type}] = true
	}
	return fired
}

func (m *Monitor) processSymbol(symbol, sessionDate string, now time.Time, spy *model.SpyContext, fired map[rules.FiredKey]bool) error {
	bars, prior, err := m.Collector.Snapshot(symbol)
	if err != nil {
		return err
	}

	cooled, err := m.Store.IsCooledDown(symbol, sessionDate, now)
	if err != nil {
		return fmt.Errorf("cooldown check: %w", err)
	}
	entries, err := m.Store.ActiveEntries(symbol, sessionDate)
	if err != nil {
		return fmt.Errorf("active entries: %w", err)
	}

	m.mu.Lock()
	var autoStop *model.AutoStopEntry
	if e, ok := m.autoStops[symbol]; ok {
		autoStop = &e
	}
	m.mu.Unlock()

	ctx := rules.Context{
		SessionPhase:   markethours.SessionPhase(now),
		EntriesAllowed: markethours.AllowNewEntries(now),
		IsMegaCap:      m.Cfg.IsMegaCap(symbol),
		CooledDown:     cooled,
		FiredToday:     fired,
		Spy:            spy,
		ActiveEntries:  entries,
		AutoStop:       autoStop,
		RiskCapPct:     m.Cfg.RiskPctFor(symbol),
		PlannedLevel:   m.Cfg.PlannedLevelFor(symbol),
	}

	signals := rules.Evaluate(symbol, bars, prior, ctx)
	sort.SliceStable(signals, func(i, j int) bool { return signals[i].Score > signals[j].Score })

	for i := range signals {
		if err := m.handleSignal(&signals[i], prior, sessionDate, now, fired); err != nil {
			log.Printf("[ERROR] %s %s: %v", symbol, signals[i].Type, err)
		}
	}
	return nil
}

// handleSignal runs one fired signal through the side-effect chain:
// dedup, notify, record, entry tracking, cooldown.
func (m *Monitor) handleSignal(sig *model.AlertSignal, prior *model.PriorDay, sessionDate string, now time.Time, fired map[rules.FiredKey]bool) error {
	// store-backed dedup in case the in-memory set is stale
	already, err := m.Store.WasAlertFired(sig.Symbol, sig.Type, sessionDate)
	if err != nil {
		return fmt.Errorf("dedup check: %w", err)
	}
	if already {
		return nil
	}

	emailSent, smsSent := m.Notifier.Notify(m.Ctx, sig, prior)
	log.Printf("[INFO] alert %s %s %s score=%d email=%v sms=%v",
		sig.Direction, sig.Symbol, sig.Type, sig.Score, emailSent, smsSent)

	if err := m.Store.RecordAlert(sig, sessionDate); err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	fired[rules.FiredKey{Symbol: sig.Symbol, Type: sig.Type}] = true
	m.mu.Lock()
	m.alertCount++
	m.mu.Unlock()

	switch sig.Type {
	case model.StopLossHit, model.AutoStopOut:
		if err := m.Store.CloseAllEntries(sig.Symbol, sessionDate, string(sig.Type)); err != nil {
			return fmt.Errorf("close entries: %w", err)
		}
		m.mu.Lock()
		delete(m.autoStops, sig.Symbol)
		m.mu.Unlock()
		cd := &store.Cooldown{
			Symbol:      sig.Symbol,
			SessionDate: sessionDate,
			ExpiresAt:   now.Add(time.Duration(m.Cfg.Monitor.CooldownMinutes) * time.Minute),
			Reason:      string(sig.Type),
		}
		if err := m.Store.SaveCooldown(cd); err != nil {
			return fmt.Errorf("save cooldown: %w", err)
		}

	case model.Target2Hit:
		if err := m.Store.CloseAllEntries(sig.Symbol, sessionDate, string(sig.Type)); err != nil {
			return fmt.Errorf("close entries: %w", err)
		}

	default:
		if sig.Direction == model.Buy && sig.HasLevels() {
			e := &model.ActiveEntry{
				Symbol:     sig.Symbol,
				EntryPrice: sig.Entry,
				StopPrice:  sig.Stop,
				Target1:    sig.Target1,
				Target2:    sig.Target2,
				AlertType:  sig.Type,
			}
			if err := m.Store.CreateActiveEntry(e, sessionDate); err != nil {
				return fmt.Errorf("create entry: %w", err)
			}
		}
	}
	return nil
}

func (m *Monitor) summaryTask() {
	now := m.now()
	sessionDate := store.SessionDate(now, markethours.Location())
	sum, err := m.Store.Summary(sessionDate)
	if err != nil {
		log.Printf("[ERROR] session summary: %v", err)
		return
	}
	if sum.Total == 0 {
		log.Println("[INFO] quiet session, no summary sent")
		return
	}
	cds, err := m.Store.ActiveCooldowns(sessionDate, now)
	if err != nil {
		log.Printf("[WARN] list cooldowns: %v", err)
	}
	subject := fmt.Sprintf("[TradeSentry] Session summary %s (%d alerts)", sessionDate, sum.Total)
	if err := m.Notifier.NotifySummary(m.Ctx, subject, notifier.FormatSessionSummary(sum, cds)); err != nil {
		log.Printf("[ERROR] send summary: %v", err)
	}

	m.mu.Lock()
	m.pollsToday = 0
	m.alertCount = 0
	m.mu.Unlock()
}

// RunTest pushes a canned signal through both channels to verify delivery.
func (m *Monitor) RunTest() {
	sig := &model.AlertSignal{
		Symbol: "TEST", Type: model.MABounce20, Direction: model.Buy,
		Price: 100.00, Entry: 100.00, Stop: 99.00, Target1: 101.00, Target2: 102.00,
		Confidence: model.ConfidenceHigh,
		Message:    "Delivery test, no action required",
		Score:      75, ScoreLabel: "A",
	}
	emailSent, smsSent := m.Notifier.Notify(m.Ctx, sig, nil)
	log.Printf("[INFO] test alert sent: email=%v sms=%v", emailSent, smsSent)
}
