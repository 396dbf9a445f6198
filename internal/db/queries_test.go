package db

import (
	"testing"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/models"
)

func TestRecordSession_FoldsIntoDailyStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	notes := []models.SessionNote{
		{
			Timestamp:       day.Add(9 * time.Hour),
			DurationMinutes: 30,
			GoalID:          "reading",
			Mood:            "calm",
			Activities:      []string{"reading"},
			GoalAchieved:    true,
		},
		{
			Timestamp:       day.Add(20 * time.Hour),
			DurationMinutes: 45,
			Mood:            "focused",
			Activities:      []string{"walking", "journaling"},
		},
	}

	for i := range notes {
		if err := db.RecordSession(&notes[i]); err != nil {
			t.Fatalf("RecordSession failed: %v", err)
		}
	}

	days, err := db.LoadDailyStats(day, day)
	if err != nil {
		t.Fatalf("LoadDailyStats failed: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("Expected 1 day, got %d", len(days))
	}

	got := days[0]
	if got.TotalMinutes != 75 {
		t.Errorf("TotalMinutes = %d, want 75", got.TotalMinutes)
	}
	if got.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2", got.SessionCount)
	}
	if got.GoalCompletions != 1 {
		t.Errorf("GoalCompletions = %d, want 1", got.GoalCompletions)
	}
	if len(got.Notes) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(got.Notes))
	}
	if got.Notes[0].GoalID != "reading" || !got.Notes[0].GoalAchieved {
		t.Errorf("First note mismatch: %+v", got.Notes[0])
	}
	if len(got.Notes[1].Activities) != 2 || got.Notes[1].Activities[0] != "walking" {
		t.Errorf("Activities not round-tripped: %+v", got.Notes[1].Activities)
	}
}

func TestUpsertDailyStats_ReplacesTotals(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	stats := &models.DailyStats{
		Date:            day,
		TotalMinutes:    60,
		SessionCount:    2,
		GoalCompletions: 1,
		StreakDay:       4,
	}
	if err := db.UpsertDailyStats(stats); err != nil {
		t.Fatalf("UpsertDailyStats failed: %v", err)
	}

	stats.TotalMinutes = 90
	stats.XPEarned = 120
	if err := db.UpsertDailyStats(stats); err != nil {
		t.Fatalf("UpsertDailyStats update failed: %v", err)
	}

	days, err := db.LoadDailyStats(day, day)
	if err != nil {
		t.Fatalf("LoadDailyStats failed: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("Expected 1 day, got %d", len(days))
	}
	if days[0].TotalMinutes != 90 {
		t.Errorf("TotalMinutes = %d, want 90", days[0].TotalMinutes)
	}
	if days[0].XPEarned != 120 {
		t.Errorf("XPEarned = %d, want 120", days[0].XPEarned)
	}
	if days[0].StreakDay != 4 {
		t.Errorf("StreakDay = %d, want 4", days[0].StreakDay)
	}
}

func TestLoadDailyStats_RangeAndOrder(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		stats := &models.DailyStats{
			Date:         base.AddDate(0, 0, i),
			TotalMinutes: (i + 1) * 10,
			SessionCount: 1,
		}
		if err := db.UpsertDailyStats(stats); err != nil {
			t.Fatalf("UpsertDailyStats failed: %v", err)
		}
	}

	days, err := db.LoadDailyStats(base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("LoadDailyStats failed: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(days))
	}
	for i := 1; i < len(days); i++ {
		if !days[i].Date.After(days[i-1].Date) {
			t.Error("Days not ordered oldest first")
		}
	}
	if days[0].TotalMinutes != 20 || days[2].TotalMinutes != 40 {
		t.Errorf("Range boundaries wrong: first=%d last=%d", days[0].TotalMinutes, days[2].TotalMinutes)
	}
}

func TestCurrentStreak_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	streak, err := db.CurrentStreak()
	if err != nil {
		t.Fatalf("CurrentStreak failed: %v", err)
	}
	if streak != 0 {
		t.Errorf("Unset streak = %d, want 0", streak)
	}

	if err := db.SetCurrentStreak(12); err != nil {
		t.Fatalf("SetCurrentStreak failed: %v", err)
	}
	if err := db.SetCurrentStreak(13); err != nil {
		t.Fatalf("SetCurrentStreak update failed: %v", err)
	}

	streak, err = db.CurrentStreak()
	if err != nil {
		t.Fatalf("CurrentStreak failed: %v", err)
	}
	if streak != 13 {
		t.Errorf("Streak = %d, want 13", streak)
	}
}

func TestPersonalBests_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	achieved := time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)
	records := map[models.BestCategory]models.PersonalBestRecord{
		models.BestLongestSession: {
			ID:       "pb-1",
			Category: models.BestLongestSession,
			Value:    130,
			Unit:     "minutes",
			Date:     achieved,
			PreviousBest: &models.PreviousBest{
				Value: 65,
				Date:  achieved.AddDate(0, 0, -7),
			},
			Improvement: 100,
		},
		models.BestLongestStreak: {
			ID:       "pb-2",
			Category: models.BestLongestStreak,
			Value:    14,
			Unit:     "days",
			Date:     achieved,
		},
	}

	if err := db.SavePersonalBests(records); err != nil {
		t.Fatalf("SavePersonalBests failed: %v", err)
	}

	loaded, err := db.LoadPersonalBests()
	if err != nil {
		t.Fatalf("LoadPersonalBests failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(loaded))
	}

	session := loaded[models.BestLongestSession]
	if session.Value != 130 || session.Unit != "minutes" {
		t.Errorf("Session record mismatch: %+v", session)
	}
	if session.PreviousBest == nil || session.PreviousBest.Value != 65 {
		t.Errorf("PreviousBest not preserved: %+v", session.PreviousBest)
	}

	streak := loaded[models.BestLongestStreak]
	if streak.PreviousBest != nil {
		t.Errorf("Expected nil PreviousBest for first record, got %+v", streak.PreviousBest)
	}

	// Upsert replaces in place
	session.Value = 150
	if err := db.SavePersonalBests(map[models.BestCategory]models.PersonalBestRecord{
		models.BestLongestSession: session,
	}); err != nil {
		t.Fatalf("SavePersonalBests update failed: %v", err)
	}

	loaded, err = db.LoadPersonalBests()
	if err != nil {
		t.Fatalf("LoadPersonalBests failed: %v", err)
	}
	if loaded[models.BestLongestSession].Value != 150 {
		t.Errorf("Update not applied: %+v", loaded[models.BestLongestSession])
	}
	if len(loaded) != 2 {
		t.Errorf("Expected other categories untouched, got %d records", len(loaded))
	}
}
