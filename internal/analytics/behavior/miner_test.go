package behavior

import (
	"math"
	"testing"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func obsAt(t *testing.T, date string, hour, duration int) models.SessionObservation {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("bad date %q: %v", date, err)
	}
	return models.SessionObservation{
		Date:            d,
		DayOfWeek:       int(d.Weekday()),
		HourOfDay:       hour,
		DurationMinutes: duration,
	}
}

func TestMine_BelowFloor(t *testing.T) {
	var obs []models.SessionObservation
	for i := 0; i < 4; i++ {
		obs = append(obs, obsAt(t, "2026-03-02", 9, 30))
	}
	if patterns := Mine(obs, testNow); len(patterns) != 0 {
		t.Errorf("expected no patterns below 5 observations, got %d", len(patterns))
	}
}

func TestMine_TimePreference(t *testing.T) {
	// Ten sessions, all on Mondays at 9am: both thresholds clear easily.
	var obs []models.SessionObservation
	for i := 0; i < 10; i++ {
		obs = append(obs, obsAt(t, "2026-03-02", 9, 30))
	}

	patterns := Mine(obs, testNow)
	var timePref *models.BehaviorPattern
	for i := range patterns {
		if patterns[i].Type == models.PatternTimePreference {
			timePref = &patterns[i]
		}
	}
	if timePref == nil {
		t.Fatal("expected a time preference pattern")
	}
	if len(timePref.PreferredDays) != 1 || timePref.PreferredDays[0] != 1 {
		t.Errorf("PreferredDays = %v, want [1] (Monday)", timePref.PreferredDays)
	}
	if len(timePref.PreferredHours) != 1 || timePref.PreferredHours[0] != 9 {
		t.Errorf("PreferredHours = %v, want [9]", timePref.PreferredHours)
	}
	if want := 0.5; math.Abs(timePref.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %f, want %f", timePref.Confidence, want)
	}
}

func TestMine_DurationPreference(t *testing.T) {
	obs := []models.SessionObservation{
		obsAt(t, "2026-03-02", 9, 20),
		obsAt(t, "2026-03-03", 9, 40),
		obsAt(t, "2026-03-04", 9, 60),
		obsAt(t, "2026-03-05", 9, 40),
		obsAt(t, "2026-03-06", 9, 40),
	}

	var dur *models.BehaviorPattern
	for _, p := range Mine(obs, testNow) {
		if p.Type == models.PatternDurationPreference {
			dur = &p
			break
		}
	}
	if dur == nil {
		t.Fatal("expected a duration preference pattern")
	}
	if dur.Duration.Min != 20 || dur.Duration.Max != 60 {
		t.Errorf("range = %d-%d, want 20-60", dur.Duration.Min, dur.Duration.Max)
	}
	if want := 40.0; math.Abs(dur.Duration.Average-want) > 1e-9 {
		t.Errorf("average = %f, want %f", dur.Duration.Average, want)
	}
}

func TestMine_GoalAndActivityPreferences(t *testing.T) {
	obs := []models.SessionObservation{
		{Date: testNow, HourOfDay: 9, DurationMinutes: 30, GoalID: "focus", Mood: "calm", Activities: []string{"reading"}},
		{Date: testNow, HourOfDay: 9, DurationMinutes: 30, GoalID: "focus", Mood: "calm", Activities: []string{"reading", "walking"}},
		{Date: testNow, HourOfDay: 9, DurationMinutes: 30, GoalID: "sleep", Mood: "tired"},
		{Date: testNow, HourOfDay: 9, DurationMinutes: 30, GoalID: "focus"},
		{Date: testNow, HourOfDay: 9, DurationMinutes: 30},
	}

	patterns := Mine(obs, testNow)
	var goal, activity *models.BehaviorPattern
	for i := range patterns {
		switch patterns[i].Type {
		case models.PatternGoalPreference:
			goal = &patterns[i]
		case models.PatternActivityPreference:
			activity = &patterns[i]
		}
	}

	if goal == nil {
		t.Fatal("expected a goal preference pattern")
	}
	if len(goal.TopGoals) != 2 || goal.TopGoals[0] != "focus" {
		t.Errorf("TopGoals = %v, want focus first", goal.TopGoals)
	}
	if want := 2.0 / 5.0; math.Abs(goal.Confidence-want) > 1e-9 {
		t.Errorf("goal confidence = %f, want %f", goal.Confidence, want)
	}

	if activity == nil {
		t.Fatal("expected an activity preference pattern")
	}
	if activity.TopActivities[0] != "reading" {
		t.Errorf("TopActivities = %v, want reading first", activity.TopActivities)
	}
	if len(activity.TopMoods) != 2 || activity.TopMoods[0] != "calm" {
		t.Errorf("TopMoods = %v, want calm first", activity.TopMoods)
	}
}

func TestMine_NoGoalsNoActivities(t *testing.T) {
	var obs []models.SessionObservation
	for i := 0; i < 6; i++ {
		obs = append(obs, obsAt(t, "2026-03-02", 9, 30))
	}
	for _, p := range Mine(obs, testNow) {
		if p.Type == models.PatternGoalPreference || p.Type == models.PatternActivityPreference {
			t.Errorf("unexpected %s pattern without goals or activities", p.Type)
		}
	}
}

func TestSynthesize(t *testing.T) {
	monday, _ := time.Parse("2006-01-02", "2026-03-02")

	days := []models.DailyStats{
		{Date: monday, TotalMinutes: 90}, // estimated: 3 sessions of 30
		{Date: monday.AddDate(0, 0, 1), TotalMinutes: 50, Notes: []models.SessionNote{
			{Timestamp: monday.Add(10 * time.Hour), DurationMinutes: 50, GoalID: "focus"},
		}},
		{Date: monday.AddDate(0, 0, 2)}, // rest day contributes nothing
	}

	obs := Synthesize(days)
	if len(obs) != 4 {
		t.Fatalf("expected 4 observations, got %d", len(obs))
	}
	for _, o := range obs[:3] {
		if o.DurationMinutes != 30 {
			t.Errorf("estimated duration = %d, want 30", o.DurationMinutes)
		}
		if o.DayOfWeek != 1 {
			t.Errorf("DayOfWeek = %d, want 1", o.DayOfWeek)
		}
	}
	if obs[3].GoalID != "focus" || obs[3].HourOfDay != 10 {
		t.Errorf("note observation = %+v, want goal focus at hour 10", obs[3])
	}
}
