package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmctyres/unplug-analytics/internal/ui/styles"
)

// defaultSpinnerLabel is shown while the first analytics cycle runs.
const defaultSpinnerLabel = "Crunching the numbers..."

// LoadingSpinner pairs a bubbles spinner with a status label, shown
// while the dashboard waits on an analytics snapshot.
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
	style   lipgloss.Style
}

// NewSpinner builds a loading spinner. An empty label falls back to
// the default.
func NewSpinner(label string) LoadingSpinner {
	if label == "" {
		label = defaultSpinnerLabel
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{
		spinner: s,
		label:   label,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Init starts the tick loop.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the spinner glyph alone.
func (l LoadingSpinner) View() string {
	return l.spinner.View()
}

// ViewWithLabel renders the spinner glyph followed by the label.
func (l LoadingSpinner) ViewWithLabel() string {
	return l.spinner.View() + " " + l.style.Render(l.label)
}

// SetLabel swaps the status label in place.
func (l *LoadingSpinner) SetLabel(label string) {
	l.label = label
}

// Label returns the current status label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// Spinner exposes the underlying bubbles model.
func (l LoadingSpinner) Spinner() spinner.Model {
	return l.spinner
}

// Tick returns the spinner's tick command.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.spinner.Tick
}

// RenderSpinnerCentered centers the labelled spinner in the given box.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.ViewWithLabel(), width, height)
}
