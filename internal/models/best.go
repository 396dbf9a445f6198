// Package models defines data structures and domain types.
package models

import "time"

// BestCategory identifies one tracked personal-best metric.
type BestCategory string

const (
	BestLongestSession    BestCategory = "longest_session"
	BestMostDailyMinutes  BestCategory = "most_daily_minutes"
	BestMostDailySessions BestCategory = "most_daily_sessions"
	BestMostWeeklyMinutes BestCategory = "most_weekly_minutes"
	BestLongestStreak     BestCategory = "longest_streak"
	BestConsistency       BestCategory = "best_consistency"
)

// Significance tiers a new personal best.
type Significance string

const (
	SignificanceMinor     Significance = "minor"
	SignificanceMajor     Significance = "major"
	SignificanceMilestone Significance = "milestone"
)

// PreviousBest is the superseded value kept on the new record.
type PreviousBest struct {
	Value float64
	Date  time.Time
}

// PersonalBestRecord is the live best-known value for one category.
// One record per category; superseded in place, never deleted.
type PersonalBestRecord struct {
	ID           string
	Category     BestCategory
	Value        float64
	Unit         string
	Date         time.Time
	PreviousBest *PreviousBest
	Improvement  float64 // percent over the previous best
}

// PersonalBestEvent announces a freshly beaten record. Ephemeral:
// emitted once, consumed by collaborators, never stored.
type PersonalBestEvent struct {
	Category     BestCategory
	OldValue     float64
	NewValue     float64
	Improvement  float64 // percent
	Date         time.Time
	Significance Significance
}
