// Package analytics orchestrates the analytics pipeline: debounced
// recomputation, personal-best tracking, and snapshot publication.
package analytics

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/analytics/behavior"
	"github.com/tmctyres/unplug-analytics/internal/analytics/best"
	"github.com/tmctyres/unplug-analytics/internal/analytics/insight"
	"github.com/tmctyres/unplug-analytics/internal/analytics/rollup"
	"github.com/tmctyres/unplug-analytics/internal/analytics/trend"
	"github.com/tmctyres/unplug-analytics/internal/logger"
	"github.com/tmctyres/unplug-analytics/internal/models"
)

// Store supplies raw activity data and persists analytics state.
// Satisfied by *db.DB.
type Store interface {
	LoadDailyStats(from, to time.Time) ([]models.DailyStats, error)
	CurrentStreak() (int, error)
	LoadPersonalBests() (map[models.BestCategory]models.PersonalBestRecord, error)
	SavePersonalBests(map[models.BestCategory]models.PersonalBestRecord) error
}

// EventType defines the type of analytics event.
type EventType int

const (
	EventSnapshotUpdated EventType = iota
	EventPersonalBest
	EventError
)

// Event represents an analytics service event.
type Event struct {
	Type     EventType
	Snapshot *models.AnalyticsSnapshot
	Best     *models.PersonalBestEvent
	Error    error
}

const (
	defaultDebounceWindow = 5 * time.Second
	defaultHistoryDays    = 365
	recentBestWindow      = 3 * 24 * time.Hour
)

// Options configures the orchestrator.
type Options struct {
	DebounceWindow    time.Duration
	InsightLimit      int
	WeeklyGoalMinutes int
	HistoryDays       int
	Scheduler         Scheduler
	Now               func() time.Time
}

// Service is the analytics orchestrator. It is the only stateful piece
// of the pipeline: it owns the best-value table and the last computed
// snapshot, and hands both out only as copies.
type Service struct {
	mu    sync.Mutex
	store Store

	debounce    time.Duration
	historyDays int
	scheduler   Scheduler
	now         func() time.Time

	engine      *insight.Engine
	tracker     *best.Tracker
	weeklyGoal  int
	snapshot    *models.AnalyticsSnapshot
	recentBests []models.PersonalBestEvent

	cancelDebounce func()
	recomputing    bool
	pending        bool

	eventChan chan Event
}

// New builds the orchestrator and seeds the personal-best table from
// the store. It does not compute anything until triggered.
func New(store Store, opts Options) (*Service, error) {
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = defaultDebounceWindow
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = defaultHistoryDays
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewTimerScheduler()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	stored, err := store.LoadPersonalBests()
	if err != nil {
		return nil, fmt.Errorf("failed to load personal bests: %w", err)
	}
	seed := make([]models.PersonalBestRecord, 0, len(stored))
	for _, r := range stored {
		seed = append(seed, r)
	}

	return &Service{
		store:       store,
		debounce:    opts.DebounceWindow,
		historyDays: opts.HistoryDays,
		scheduler:   opts.Scheduler,
		now:         opts.Now,
		engine:      insight.NewEngine(insight.DefaultRules(), opts.InsightLimit),
		tracker:     best.NewTracker(seed),
		weeklyGoal:  opts.WeeklyGoalMinutes,
		snapshot:    &models.AnalyticsSnapshot{},
		eventChan:   make(chan Event, 100),
	}, nil
}

// Events returns the event channel for subscribing to snapshot updates
// and personal-best announcements.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// NotifyDataChanged schedules a debounced recompute. Bursts within the
// debounce window collapse into a single cycle.
func (s *Service) NotifyDataChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelDebounce != nil {
		s.cancelDebounce()
	}
	s.cancelDebounce = s.scheduler.Schedule(s.debounce, func() {
		s.mu.Lock()
		s.cancelDebounce = nil
		s.mu.Unlock()
		s.Recompute()
	})
}

// NotifySessionCompleted runs an immediate personal-best check against
// today's and this week's rollups. It does not wait for, or replace,
// the debounced full recompute.
func (s *Service) NotifySessionCompleted() {
	now := s.now()
	from := rollup.WeekStart(now)

	days, err := s.store.LoadDailyStats(from, now)
	if err != nil {
		logger.Error("failed to load stats for session check", "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	if len(days) == 0 {
		return
	}

	daily := rollup.BuildDaily(days)
	weekly := rollup.BuildWeekly(daily)

	streak, err := s.store.CurrentStreak()
	if err != nil {
		logger.Warn("failed to read current streak", "error", err)
	}

	s.mu.Lock()
	var events []models.PersonalBestEvent
	events = append(events, s.tracker.CheckDaily(daily[len(daily)-1])...)
	if len(weekly) > 0 {
		events = append(events, s.tracker.CheckWeekly(weekly[len(weekly)-1])...)
	}
	events = append(events, s.tracker.CheckStreak(streak, now)...)
	records := s.tracker.Records()
	s.rememberBests(events, now)
	if s.snapshot != nil {
		s.snapshot.PersonalBests = records
		s.snapshot.CurrentStreak = streak
	}
	s.mu.Unlock()

	if err := s.persistBests(records); err != nil {
		logger.Error("failed to persist personal bests", "error", err)
	}

	for i := range events {
		s.sendEvent(Event{Type: EventPersonalBest, Best: &events[i]})
	}
}

// Recompute runs a full analytics cycle now. Never reentrant: a
// trigger arriving while a cycle is in flight is coalesced into one
// follow-up cycle after the current one finishes.
func (s *Service) Recompute() {
	s.mu.Lock()
	if s.recomputing {
		s.pending = true
		s.mu.Unlock()
		return
	}
	s.recomputing = true
	s.mu.Unlock()

	for {
		s.runCycle()

		s.mu.Lock()
		if !s.pending {
			s.recomputing = false
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.mu.Unlock()
	}
}

// runCycle executes one complete pipeline pass.
func (s *Service) runCycle() {
	now := s.now()
	from := now.AddDate(0, 0, -s.historyDays)

	days, err := s.store.LoadDailyStats(from, now)
	if err != nil {
		logger.Error("failed to load daily stats", "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	streak, err := s.store.CurrentStreak()
	if err != nil {
		logger.Warn("failed to read current streak", "error", err)
	}

	daily, weekly, monthly := rollup.Build(days)
	patterns := behavior.Mine(behavior.Synthesize(days), now)

	s.mu.Lock()
	var bests []models.PersonalBestEvent
	if len(daily) > 0 {
		bests = append(bests, s.tracker.CheckDaily(daily[len(daily)-1])...)
	}
	if len(weekly) > 0 {
		bests = append(bests, s.tracker.CheckWeekly(weekly[len(weekly)-1])...)
	}
	bests = append(bests, s.tracker.CheckStreak(streak, now)...)
	records := s.tracker.Records()
	s.rememberBests(bests, now)
	recent := append([]models.PersonalBestEvent(nil), s.recentBests...)
	s.mu.Unlock()

	snapshot := &models.AnalyticsSnapshot{
		Daily:          daily,
		Weekly:         weekly,
		Monthly:        monthly,
		Patterns:       patterns,
		PersonalBests:  records,
		CurrentStreak:  streak,
		LastCalculated: now,
	}

	snapshot.Insights = s.engine.Evaluate(&insight.Context{
		Snapshot:          snapshot,
		RecentBests:       recent,
		CurrentStreak:     streak,
		WeeklyGoalMinutes: float64(s.weeklyGoal),
		Now:               now,
	})

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	if err := s.persistBests(records); err != nil {
		logger.Error("failed to persist personal bests", "error", err)
	}

	logger.Debug("analytics cycle complete",
		"days", len(daily), "weeks", len(weekly), "months", len(monthly),
		"patterns", len(patterns), "insights", len(snapshot.Insights),
		"new_bests", len(bests))

	s.sendEvent(Event{Type: EventSnapshotUpdated, Snapshot: snapshot.Clone()})
	for i := range bests {
		s.sendEvent(Event{Type: EventPersonalBest, Best: &bests[i]})
	}
}

// rememberBests keeps recent personal-best events for the recognition
// insight rule. Caller must hold s.mu.
func (s *Service) rememberBests(events []models.PersonalBestEvent, now time.Time) {
	kept := s.recentBests[:0]
	for _, e := range s.recentBests {
		if now.Sub(e.Date) <= recentBestWindow {
			kept = append(kept, e)
		}
	}
	s.recentBests = append(kept, events...)
}

func (s *Service) persistBests(records []models.PersonalBestRecord) error {
	byCategory := make(map[models.BestCategory]models.PersonalBestRecord, len(records))
	for _, r := range records {
		byCategory[r.Category] = r
	}
	return s.store.SavePersonalBests(byCategory)
}

// Snapshot returns a deep copy of the last computed snapshot. Callers
// can never observe a partially updated cycle.
func (s *Service) Snapshot() *models.AnalyticsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// RollupsInRange returns daily rollups between from and to inclusive.
func (s *Service) RollupsInRange(from, to time.Time) []models.DailyRollup {
	snap := s.Snapshot()
	var out []models.DailyRollup
	for _, d := range snap.Daily {
		if !d.Date.Before(from) && !d.Date.After(to) {
			out = append(out, d)
		}
	}
	return out
}

// RollupsForTimeRange returns daily rollups inside the given range,
// counted back from now.
func (s *Service) RollupsForTimeRange(tr models.TimeRange) []models.DailyRollup {
	snap := s.Snapshot()
	days := tr.Days()
	if days <= 0 {
		return snap.Daily
	}
	from := s.now().AddDate(0, 0, -days)
	var out []models.DailyRollup
	for _, d := range snap.Daily {
		if !d.Date.Before(from) {
			out = append(out, d)
		}
	}
	return out
}

// Trend analyzes a named metric over the given time range. Supported
// metrics: "minutes", "sessions", "goals" (daily series) and
// "consistency" (weekly series). Returns false when there is not
// enough data for the default window.
func (s *Service) Trend(metric string, tr models.TimeRange) (models.TrendResult, bool) {
	snap := s.Snapshot()

	var series []float64
	switch metric {
	case "consistency":
		for _, w := range snap.Weekly {
			series = append(series, float64(w.Patterns.ConsistencyScore))
		}
	default:
		daily := s.RollupsForTimeRange(tr)
		for _, d := range daily {
			switch metric {
			case "sessions":
				series = append(series, float64(d.SessionCount))
			case "goals":
				series = append(series, float64(d.GoalCompletions))
			default:
				series = append(series, float64(d.TotalMinutes))
			}
		}
	}

	return trend.Analyze(metric, series, trend.DefaultWindow)
}

// WeeklyProgress runs the four-point progress variant over the weekly
// minutes series.
func (s *Service) WeeklyProgress() (models.TrendResult, bool) {
	snap := s.Snapshot()
	var series []float64
	for _, w := range snap.Weekly {
		series = append(series, float64(w.TotalMinutes))
	}
	return trend.AnalyzeProgress("weekly minutes", series)
}

// Compare returns a period-over-previous delta summary. Timeframe is
// "daily" (today vs yesterday) or "weekly" (latest vs previous week).
// Returns false when there are not two periods to compare.
func (s *Service) Compare(timeframe string) (*models.PeriodComparison, bool) {
	snap := s.Snapshot()

	var cur, prev struct {
		minutes     int
		sessions    int
		consistency int
	}

	switch timeframe {
	case "weekly":
		if len(snap.Weekly) < 2 {
			return nil, false
		}
		c := snap.Weekly[len(snap.Weekly)-1]
		p := snap.Weekly[len(snap.Weekly)-2]
		cur.minutes, cur.sessions, cur.consistency = c.TotalMinutes, c.SessionCount, c.Patterns.ConsistencyScore
		prev.minutes, prev.sessions, prev.consistency = p.TotalMinutes, p.SessionCount, p.Patterns.ConsistencyScore
	default:
		timeframe = "daily"
		if len(snap.Daily) < 2 {
			return nil, false
		}
		c := snap.Daily[len(snap.Daily)-1]
		p := snap.Daily[len(snap.Daily)-2]
		cur.minutes, cur.sessions = c.TotalMinutes, c.SessionCount
		prev.minutes, prev.sessions = p.TotalMinutes, p.SessionCount
	}

	cmp := &models.PeriodComparison{
		Timeframe:            timeframe,
		CurrentMinutes:       cur.minutes,
		PreviousMinutes:      prev.minutes,
		MinutesChangePct:     pctChange(prev.minutes, cur.minutes),
		SessionsChangePct:    pctChange(prev.sessions, cur.sessions),
		ConsistencyChangePct: pctChange(prev.consistency, cur.consistency),
	}
	cmp.Insights = comparisonInsights(cmp)
	return cmp, true
}

// comparisonInsights selects up to three framing strings by fixed
// percentage thresholds.
func comparisonInsights(c *models.PeriodComparison) []string {
	var out []string

	switch {
	case c.MinutesChangePct > 20:
		out = append(out, fmt.Sprintf("Excellent! Your offline time is up %.0f%%", c.MinutesChangePct))
	case c.MinutesChangePct > 10:
		out = append(out, fmt.Sprintf("Great progress: %.0f%% more offline time", c.MinutesChangePct))
	case c.MinutesChangePct < -20:
		out = append(out, fmt.Sprintf("Offline time declined %.0f%% from the previous period", math.Abs(c.MinutesChangePct)))
	}

	switch {
	case c.SessionsChangePct > 20:
		out = append(out, "You are unplugging noticeably more often")
	case c.SessionsChangePct < -20:
		out = append(out, "You are unplugging less often than before")
	}

	if c.Timeframe == "weekly" {
		switch {
		case c.ConsistencyChangePct > 10:
			out = append(out, "Your consistency is improving week over week")
		case c.ConsistencyChangePct < -10:
			out = append(out, "Your consistency slipped this week")
		}
	}

	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func pctChange(prev, cur int) float64 {
	if prev == 0 {
		return 0
	}
	return (float64(cur) - float64(prev)) / float64(prev) * 100
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close cancels any pending debounced recompute.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelDebounce != nil {
		s.cancelDebounce()
		s.cancelDebounce = nil
	}
	return nil
}
