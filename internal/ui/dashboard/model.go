// Package dashboard provides the main analytics view for the Unplug TUI.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmctyres/unplug-analytics/internal/models"
	"github.com/tmctyres/unplug-analytics/internal/services/analytics"
	"github.com/tmctyres/unplug-analytics/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard view.
type keyMap struct {
	CycleRange key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Top        key.Binding
	Bottom     key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard.
func defaultKeyMap() keyMap {
	return keyMap{
		CycleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "time range"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// Model represents the dashboard view state.
type Model struct {
	analytics *analytics.Service
	snapshot  *models.AnalyticsSnapshot
	timeRange models.TimeRange
	spinner   components.LoadingSpinner
	keys      keyMap
	viewport  viewport.Model
	width     int
	height    int
}

// New creates a new dashboard model.
func New(svc *analytics.Service) *Model {
	return &Model{
		analytics: svc,
		spinner:   components.NewSpinner("Crunching your offline time..."),
		timeRange: models.TimeRange7Days,
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.CycleRange):
		m.timeRange = m.timeRange.Next()
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSnapshot installs the latest analytics snapshot.
func (m *Model) SetSnapshot(s *models.AnalyticsSnapshot) {
	m.snapshot = s
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// TimeRange returns the currently selected rollup window.
func (m *Model) TimeRange() models.TimeRange {
	return m.timeRange
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.CycleRange,
		m.keys.ScrollUp,
		m.keys.ScrollDown,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.CycleRange},
		{m.keys.ScrollUp, m.keys.ScrollDown},
		{m.keys.Top, m.keys.Bottom},
	}
}
