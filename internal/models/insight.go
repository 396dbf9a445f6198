// Package models defines data structures and domain types.
package models

import "time"

// InsightType identifies the rule family that produced an insight.
type InsightType string

const (
	InsightOptimalTiming   InsightType = "optimal_timing"
	InsightConsistency     InsightType = "consistency_improvement"
	InsightStreakProtect   InsightType = "streak_protection"
	InsightGoalAchievement InsightType = "goal_achievement"
	InsightSessionLength   InsightType = "session_length"
	InsightTrend           InsightType = "trend"
	InsightPersonalBest    InsightType = "personal_best"
)

// InsightData is the closed union of per-type insight payloads.
type InsightData interface {
	isInsightData()
}

// OptimalTimingData carries the mined time preference backing the insight.
type OptimalTimingData struct {
	PreferredDays  []int
	PreferredHours []int
}

// ConsistencyData reports the current weekly consistency shortfall.
type ConsistencyData struct {
	CurrentScore int
	TargetScore  int
	ActiveDays   int
}

// StreakProtectionData identifies the streak at risk today.
type StreakProtectionData struct {
	CurrentStreak int
}

// GoalAchievementData projects the current week against its goal.
type GoalAchievementData struct {
	ProjectedMinutes float64
	GoalMinutes      float64
	Probability      float64 // 0-100
	SessionsNeeded   int
}

// SessionLengthData compares the mined optimal length to recent reality.
type SessionLengthData struct {
	OptimalMinutes float64
	RecentAverage  float64
}

// TrendData wraps the trend classification behind a trend insight.
type TrendData struct {
	Trend TrendResult
}

// PersonalBestData wraps the record event behind a recognition insight.
type PersonalBestData struct {
	Event PersonalBestEvent
}

func (OptimalTimingData) isInsightData()    {}
func (ConsistencyData) isInsightData()      {}
func (StreakProtectionData) isInsightData() {}
func (GoalAchievementData) isInsightData()  {}
func (SessionLengthData) isInsightData()    {}
func (TrendData) isInsightData()            {}
func (PersonalBestData) isInsightData()     {}

// Insight is one generated, prioritized observation or recommendation.
// Generated fresh every cycle and superseded wholesale by the next.
type Insight struct {
	ID             string
	Type           InsightType
	Title          string
	Description    string
	Confidence     float64 // 0-1
	Actionable     bool
	Recommendation string
	Data           InsightData
	CreatedAt      time.Time
	ExpiresAt      *time.Time
}

// Expired reports whether the insight has an expiry in the past.
func (i *Insight) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
