package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmctyres/unplug-analytics/internal/models"
	"github.com/tmctyres/unplug-analytics/internal/services/analytics"
)

type stubStore struct {
	days   []models.DailyStats
	streak int
}

func (s *stubStore) LoadDailyStats(from, to time.Time) ([]models.DailyStats, error) {
	var out []models.DailyStats
	for _, d := range s.days {
		if d.Date.Before(from) || d.Date.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *stubStore) CurrentStreak() (int, error) { return s.streak, nil }

func (s *stubStore) LoadPersonalBests() (map[models.BestCategory]models.PersonalBestRecord, error) {
	return map[models.BestCategory]models.PersonalBestRecord{}, nil
}

func (s *stubStore) SavePersonalBests(map[models.BestCategory]models.PersonalBestRecord) error {
	return nil
}

func newTestModel(t *testing.T, days []models.DailyStats) *Model {
	t.Helper()
	svc, err := analytics.New(&stubStore{days: days, streak: 3}, analytics.Options{
		DebounceWindow: time.Millisecond,
		Now:            func() time.Time { return time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("analytics.New: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return New(svc)
}

func seedDays(t *testing.T) []models.DailyStats {
	t.Helper()
	var days []models.DailyStats
	// Monday 2026-03-02 onward
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		days = append(days, models.DailyStats{
			Date:            start.AddDate(0, 0, i),
			TotalMinutes:    30 + i*10,
			SessionCount:    1 + i%2,
			GoalCompletions: i % 2,
		})
	}
	return days
}

func TestNew(t *testing.T) {
	m := newTestModel(t, nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(t, nil)
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_View_Loading(t *testing.T) {
	m := newTestModel(t, nil)
	m.SetSize(80, 24)

	view := m.View()
	if view == "" {
		t.Error("View returned empty string while loading")
	}
}

func TestModel_View_WithSnapshot(t *testing.T) {
	m := newTestModel(t, seedDays(t))
	// Tall enough that no card scrolls out of the viewport
	m.SetSize(100, 200)

	m.analytics.Recompute()
	m.SetSnapshot(m.analytics.Snapshot())

	view := m.View()
	for _, want := range []string{"Unplug Analytics", "Overview", "Personal Bests", "Insights"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
	if !strings.Contains(view, "streak") {
		t.Error("View should mention the streak")
	}
}

func TestModel_View_ChartOverlays(t *testing.T) {
	m := newTestModel(t, seedDays(t))
	m.SetSize(100, 200)

	m.analytics.Recompute()
	m.SetSnapshot(m.analytics.Snapshot())

	view := m.View()
	// Ten seeded days span two windows and two weeks, so the overlay
	// legend, the weekly sparkline, and the weekly bars all render.
	for _, want := range []string{"This period", "Previous period", "week by week", "Mar 2", "Mar 9"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestModel_CycleRange(t *testing.T) {
	m := newTestModel(t, nil)

	if m.TimeRange() != models.TimeRange7Days {
		t.Fatalf("initial range = %v, want 7 days", m.TimeRange())
	}

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}}
	m.Update(msg)
	if m.TimeRange() != models.TimeRange30Days {
		t.Errorf("range after cycle = %v, want 30 days", m.TimeRange())
	}

	m.Update(msg)
	m.Update(msg)
	m.Update(msg)
	if m.TimeRange() != models.TimeRange7Days {
		t.Errorf("range should wrap back to 7 days, got %v", m.TimeRange())
	}
}

func TestModel_SetSize(t *testing.T) {
	m := newTestModel(t, nil)
	m.SetSize(100, 50)
	if m.viewport.Width != 100 || m.viewport.Height != 50 {
		t.Error("SetSize did not resize viewport")
	}
}

func TestModel_Help(t *testing.T) {
	m := newTestModel(t, nil)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{45, "45m"},
		{60, "1h 00m"},
		{135, "2h 15m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.minutes); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
