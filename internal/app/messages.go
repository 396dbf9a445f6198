package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmctyres/unplug-analytics/internal/models"
	"github.com/tmctyres/unplug-analytics/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// SnapshotLoadedMsg carries an analytics snapshot into the UI.
type SnapshotLoadedMsg struct {
	Snapshot *models.AnalyticsSnapshot
}

// RecomputeDoneMsg signals that a manual recompute finished.
type RecomputeDoneMsg struct {
	Snapshot *models.AnalyticsSnapshot
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg requests clearing all notifications.
type ClearNotificationsMsg struct{}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// QuitMsg requests the application to quit.
type QuitMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}
