// Package models defines data structures and domain types.
package models

import "time"

// SessionNote is a single recorded offline session within a day.
// Produced by the session tracker; never mutated by analytics.
type SessionNote struct {
	Timestamp       time.Time
	DurationMinutes int
	GoalID          string
	Mood            string
	Activities      []string
	GoalAchieved    bool
}

// DailyStats is the raw per-day activity record supplied by the store.
type DailyStats struct {
	Date                 time.Time
	TotalMinutes         int
	SessionCount         int
	GoalCompletions      int
	XPEarned             int
	AchievementsUnlocked int
	StreakDay            int
	Notes                []SessionNote
}

// SessionObservation is one session flattened for behavior mining.
// When a day has no explicit notes, observations are synthesized from
// the daily totals using the session estimation policy.
type SessionObservation struct {
	Date            time.Time
	DayOfWeek       int // 0 = Sunday
	HourOfDay       int // 0-23
	DurationMinutes int
	GoalID          string
	Mood            string
	Activities      []string
}
