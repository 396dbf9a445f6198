package best

import (
	"testing"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/models"
)

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestCheckStreak_MonotonicSequence(t *testing.T) {
	tracker := NewTracker(nil)

	values := []int{3, 5, 8, 12}
	for i, v := range values {
		events := tracker.CheckStreak(v, testDate.AddDate(0, 0, i))
		if len(events) != 1 {
			t.Fatalf("streak %d: expected 1 event, got %d", v, len(events))
		}
	}

	for _, r := range tracker.Records() {
		if r.Category == models.BestLongestStreak && r.Value != 12 {
			t.Errorf("stored streak best = %f, want 12", r.Value)
		}
	}
}

func TestCheck_EqualOrLowerProducesNothing(t *testing.T) {
	tracker := NewTracker(nil)

	if events := tracker.CheckStreak(10, testDate); len(events) != 1 {
		t.Fatalf("expected initial event, got %d", len(events))
	}
	if events := tracker.CheckStreak(10, testDate); len(events) != 0 {
		t.Errorf("equal value emitted %d events", len(events))
	}
	if events := tracker.CheckStreak(7, testDate); len(events) != 0 {
		t.Errorf("lower value emitted %d events", len(events))
	}
}

func TestCheckDaily_LongestSessionScenario(t *testing.T) {
	tracker := NewTracker(nil)

	submit := func(minutes float64) []models.PersonalBestEvent {
		return tracker.CheckDaily(models.DailyRollup{
			Date:           testDate,
			LongestSession: minutes,
		})
	}

	first := submit(65)
	if len(first) == 0 {
		t.Fatal("expected events for first 65-minute session")
	}

	var second *models.PersonalBestEvent
	for _, e := range submit(130) {
		if e.Category == models.BestLongestSession {
			second = &e
		}
	}
	if second == nil {
		t.Fatal("expected a longest_session event at 130")
	}
	if second.Significance != models.SignificanceMilestone {
		t.Errorf("significance = %s, want milestone (crosses 120)", second.Significance)
	}

	for _, e := range submit(130) {
		if e.Category == models.BestLongestSession {
			t.Error("repeat submission of 130 emitted an event")
		}
	}

	for _, r := range tracker.Records() {
		if r.Category == models.BestLongestSession {
			if r.Value != 130 {
				t.Errorf("stored value = %f, want 130", r.Value)
			}
			if r.PreviousBest == nil || r.PreviousBest.Value != 65 {
				t.Errorf("PreviousBest = %+v, want 65", r.PreviousBest)
			}
		}
	}
}

func TestCheckDaily_AllCategories(t *testing.T) {
	tracker := NewTracker(nil)

	events := tracker.CheckDaily(models.DailyRollup{
		Date:           testDate,
		TotalMinutes:   95,
		SessionCount:   4,
		LongestSession: 45,
	})
	if len(events) != 3 {
		t.Fatalf("expected 3 events on first daily check, got %d", len(events))
	}
	seen := map[models.BestCategory]bool{}
	for _, e := range events {
		seen[e.Category] = true
		if e.OldValue != 0 || e.Improvement != 100 {
			t.Errorf("%s: old=%f improvement=%f, want 0/100", e.Category, e.OldValue, e.Improvement)
		}
	}
	for _, c := range []models.BestCategory{models.BestLongestSession, models.BestMostDailyMinutes, models.BestMostDailySessions} {
		if !seen[c] {
			t.Errorf("missing event for %s", c)
		}
	}
}

func TestCheckWeekly(t *testing.T) {
	tracker := NewTracker(nil)

	w := models.WeeklyRollup{
		WeekStart:    testDate,
		TotalMinutes: 500,
		Patterns:     models.WeeklyPatterns{ConsistencyScore: 71},
	}
	if events := tracker.CheckWeekly(w); len(events) != 2 {
		t.Fatalf("expected 2 weekly events, got %d", len(events))
	}

	// 500 -> 620 is a 24% improvement (major) that also crosses the
	// 600-minute milestone, which wins.
	w.TotalMinutes = 620
	w.Patterns.ConsistencyScore = 70
	events := tracker.CheckWeekly(w)
	if len(events) != 1 {
		t.Fatalf("expected only the minutes event, got %d", len(events))
	}
	if events[0].Significance != models.SignificanceMilestone {
		t.Errorf("significance = %s, want milestone", events[0].Significance)
	}
}

func TestSignificanceTiers(t *testing.T) {
	tests := []struct {
		name        string
		category    models.BestCategory
		old, new    float64
		improvement float64
		want        models.Significance
	}{
		{"big jump", models.BestMostDailySessions, 2, 4, 100, models.SignificanceMilestone},
		{"major", models.BestMostDailySessions, 10, 13, 30, models.SignificanceMajor},
		{"minor", models.BestMostDailySessions, 10, 11, 10, models.SignificanceMinor},
		{"streak milestone", models.BestLongestStreak, 6, 7, 16.7, models.SignificanceMilestone},
		{"already past milestone", models.BestLongestStreak, 8, 9, 12.5, models.SignificanceMinor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := significance(tt.category, tt.old, tt.new, tt.improvement); got != tt.want {
				t.Errorf("significance = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewTracker_SeedsExistingRecords(t *testing.T) {
	tracker := NewTracker([]models.PersonalBestRecord{
		{ID: "r1", Category: models.BestMostDailyMinutes, Value: 200, Date: testDate},
	})

	events := tracker.CheckDaily(models.DailyRollup{Date: testDate, TotalMinutes: 150, SessionCount: 1, LongestSession: 150})
	for _, e := range events {
		if e.Category == models.BestMostDailyMinutes {
			t.Error("seeded best of 200 should not be beaten by 150")
		}
	}
}
