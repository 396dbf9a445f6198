// Package services provides service orchestration for the TUI.
package services

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/tmctyres/unplug-analytics/internal/config"
	"github.com/tmctyres/unplug-analytics/internal/db"
	"github.com/tmctyres/unplug-analytics/internal/models"
	"github.com/tmctyres/unplug-analytics/internal/services/analytics"
	"github.com/tmctyres/unplug-analytics/internal/services/tracker"
)

type (
	// SnapshotUpdatedEvent is emitted after a completed analytics cycle.
	SnapshotUpdatedEvent struct {
		Snapshot *models.AnalyticsSnapshot
	}

	// PersonalBestEvent is emitted when a record is beaten.
	PersonalBestEvent struct {
		Best *models.PersonalBestEvent
	}

	// SessionRecordedEvent is emitted when a new session is ingested.
	SessionRecordedEvent struct {
		Note *models.SessionNote
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SnapshotUpdatedEvent) isServiceEvent() {}
func (PersonalBestEvent) isServiceEvent()    {}
func (SessionRecordedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	database    *db.DB
	tracker     *tracker.Service
	analytics   *analytics.Service
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.analytics, err = analytics.New(m.database, analytics.Options{
		DebounceWindow:    cfg.DebounceWindow,
		InsightLimit:      cfg.InsightLimit,
		WeeklyGoalMinutes: cfg.WeeklyGoalMinutes,
	})
	if err != nil {
		_ = m.database.Close()
		return nil, fmt.Errorf("failed to initialize analytics: %w", err)
	}

	m.tracker, err = tracker.New(m.database, cfg.SessionLogPath)
	if err != nil {
		_ = m.analytics.Close()
		_ = m.database.Close()
		return nil, fmt.Errorf("failed to initialize tracker: %w", err)
	}

	go m.routeEvents()

	// First snapshot without waiting for a trigger
	go m.analytics.Recompute()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.tracker.Events():
			m.handleTrackerEvent(event)

		case event := <-m.analytics.Events():
			m.handleAnalyticsEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleTrackerEvent feeds ingestion triggers into the orchestrator.
func (m *Manager) handleTrackerEvent(event tracker.Event) {
	switch event.Type {
	case tracker.EventSessionRecorded:
		m.analytics.NotifySessionCompleted()
		m.broadcast(SessionRecordedEvent{Note: event.Note})

	case tracker.EventDataChanged:
		m.analytics.NotifyDataChanged()

	case tracker.EventError:
		m.broadcast(ErrorEvent{
			Service: "tracker",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleAnalyticsEvent(event analytics.Event) {
	switch event.Type {
	case analytics.EventSnapshotUpdated:
		m.broadcast(SnapshotUpdatedEvent{Snapshot: event.Snapshot})

	case analytics.EventPersonalBest:
		m.broadcast(PersonalBestEvent{Best: event.Best})
		if event.Best != nil {
			m.notifyBest(event.Best)
		}

	case analytics.EventError:
		m.broadcast(ErrorEvent{
			Service: "analytics",
			Error:   event.Error,
		})
	}
}

// notifyBest raises a desktop notification for noteworthy records.
// Minor improvements stay in the TUI only.
func (m *Manager) notifyBest(best *models.PersonalBestEvent) {
	if best.Significance == models.SignificanceMinor {
		return
	}

	title := "New Personal Best!"
	if best.Significance == models.SignificanceMilestone {
		title = "Milestone Reached!"
	}
	body := fmt.Sprintf("%s: %.0f (up %.0f%%)",
		CategoryTitle(best.Category), best.NewValue, best.Improvement)
	_ = beeep.Notify(title, body, "")
}

// CategoryTitle returns the human-readable name for a best category.
func CategoryTitle(category models.BestCategory) string {
	switch category {
	case models.BestLongestSession:
		return "Longest session"
	case models.BestMostDailyMinutes:
		return "Most minutes in a day"
	case models.BestMostDailySessions:
		return "Most sessions in a day"
	case models.BestMostWeeklyMinutes:
		return "Most minutes in a week"
	case models.BestLongestStreak:
		return "Longest streak"
	case models.BestConsistency:
		return "Best weekly consistency"
	default:
		return string(category)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Snapshot returns the latest analytics snapshot copy.
func (m *Manager) Snapshot() *models.AnalyticsSnapshot {
	return m.analytics.Snapshot()
}

// Analytics returns the analytics orchestrator.
func (m *Manager) Analytics() *analytics.Service {
	return m.analytics
}

// Tracker returns the session tracker service.
func (m *Manager) Tracker() *tracker.Service {
	return m.tracker
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.tracker.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.analytics.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
