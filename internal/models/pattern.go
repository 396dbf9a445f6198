// Package models defines data structures and domain types.
package models

import "time"

// PatternType classifies a mined behavior pattern.
type PatternType string

const (
	PatternTimePreference     PatternType = "time_preference"
	PatternDurationPreference PatternType = "duration_preference"
	PatternGoalPreference     PatternType = "goal_preference"
	PatternActivityPreference PatternType = "activity_preference"
)

// DurationRange describes observed session lengths in minutes.
type DurationRange struct {
	Min     int
	Max     int
	Average float64
}

// BehaviorPattern is one mined preference cluster. Only the fields
// relevant to Type are populated; the rest stay zero. Patterns are
// recomputed wholesale every analytics cycle and never patched.
type BehaviorPattern struct {
	Type           PatternType
	PreferredDays  []int // 0 = Sunday
	PreferredHours []int // 0-23
	Duration       DurationRange
	TopGoals       []string
	TopActivities  []string
	TopMoods       []string
	Confidence     float64 // 0-1
	LastUpdated    time.Time
}
