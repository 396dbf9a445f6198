package models

import (
	"testing"
	"time"
)

func sampleSnapshot() *AnalyticsSnapshot {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	expires := day.AddDate(0, 0, 1)
	daily := DailyRollup{
		Date:          day,
		TotalMinutes:  60,
		SessionCount:  2,
		TopActivities: []string{"reading", "walking"},
	}
	weekly := WeeklyRollup{
		WeekStart:      day,
		TotalMinutes:   60,
		DailyBreakdown: []DailyRollup{daily},
	}
	return &AnalyticsSnapshot{
		Daily:  []DailyRollup{daily},
		Weekly: []WeeklyRollup{weekly},
		Monthly: []MonthlyRollup{{
			Month:           "2026-03",
			WeeklyBreakdown: []WeeklyRollup{weekly},
			Milestones:      []string{"300 offline minutes"},
		}},
		Patterns: []BehaviorPattern{{
			Type:           PatternTimePreference,
			PreferredDays:  []int{1, 3},
			PreferredHours: []int{9, 20},
			TopGoals:       []string{"morning-reading"},
			TopActivities:  []string{"reading"},
			TopMoods:       []string{"calm"},
		}},
		Insights: []Insight{{
			ID:   "a",
			Type: InsightOptimalTiming,
			Data: OptimalTimingData{
				PreferredDays:  []int{1},
				PreferredHours: []int{9},
			},
			ExpiresAt: &expires,
		}},
		PersonalBests: []PersonalBestRecord{{
			Category:     BestLongestSession,
			Value:        90,
			Date:         day,
			PreviousBest: &PreviousBest{Value: 60, Date: day.AddDate(0, 0, -7)},
		}},
		CurrentStreak:  3,
		LastCalculated: day,
	}
}

func TestClone_Nil(t *testing.T) {
	var s *AnalyticsSnapshot
	if s.Clone() != nil {
		t.Error("Expected nil clone of nil snapshot")
	}
}

func TestClone_NestedSlicesAreIndependent(t *testing.T) {
	orig := sampleSnapshot()
	clone := orig.Clone()

	clone.Daily[0].TopActivities[0] = "mutated"
	clone.Weekly[0].DailyBreakdown[0].TopActivities[0] = "mutated"
	clone.Monthly[0].WeeklyBreakdown[0].DailyBreakdown[0].TopActivities[0] = "mutated"
	clone.Monthly[0].Milestones[0] = "mutated"
	clone.Patterns[0].PreferredDays[0] = 99
	clone.Patterns[0].PreferredHours[0] = 99
	clone.Patterns[0].TopGoals[0] = "mutated"
	clone.Patterns[0].TopActivities[0] = "mutated"
	clone.Patterns[0].TopMoods[0] = "mutated"

	if orig.Daily[0].TopActivities[0] != "reading" {
		t.Error("Daily TopActivities shares backing array")
	}
	if orig.Weekly[0].DailyBreakdown[0].TopActivities[0] != "reading" {
		t.Error("Weekly breakdown TopActivities shares backing array")
	}
	if orig.Monthly[0].WeeklyBreakdown[0].DailyBreakdown[0].TopActivities[0] != "reading" {
		t.Error("Monthly nested breakdown shares backing array")
	}
	if orig.Monthly[0].Milestones[0] != "300 offline minutes" {
		t.Error("Milestones share backing array")
	}
	if orig.Patterns[0].PreferredDays[0] != 1 || orig.Patterns[0].PreferredHours[0] != 9 {
		t.Error("Pattern day/hour preferences share backing arrays")
	}
	if orig.Patterns[0].TopGoals[0] != "morning-reading" ||
		orig.Patterns[0].TopActivities[0] != "reading" ||
		orig.Patterns[0].TopMoods[0] != "calm" {
		t.Error("Pattern top lists share backing arrays")
	}
}

func TestClone_InsightPayloadAndPointers(t *testing.T) {
	orig := sampleSnapshot()
	clone := orig.Clone()

	data := clone.Insights[0].Data.(OptimalTimingData)
	data.PreferredDays[0] = 99
	data.PreferredHours[0] = 99
	*clone.Insights[0].ExpiresAt = time.Time{}
	clone.PersonalBests[0].PreviousBest.Value = 9999

	origData := orig.Insights[0].Data.(OptimalTimingData)
	if origData.PreferredDays[0] != 1 || origData.PreferredHours[0] != 9 {
		t.Error("Insight payload slices share backing arrays")
	}
	if orig.Insights[0].ExpiresAt.IsZero() {
		t.Error("Insight expiry pointer is shared")
	}
	if orig.PersonalBests[0].PreviousBest.Value != 60 {
		t.Error("PreviousBest pointer is shared")
	}
}
