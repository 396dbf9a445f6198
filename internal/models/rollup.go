// Package models defines data structures and domain types.
package models

import "time"

// HourlySlot accumulates offline minutes and session counts for one
// hour-of-day bucket.
type HourlySlot struct {
	Minutes  int `json:"minutes"`
	Sessions int `json:"sessions"`
}

// DailyRollup summarizes one calendar day of offline activity.
type DailyRollup struct {
	Date                 time.Time      `json:"date"`
	TotalMinutes         int            `json:"totalMinutes"`
	SessionCount         int            `json:"sessionCount"`
	AverageSessionLength float64        `json:"averageSessionLength"`
	LongestSession       float64        `json:"longestSession"`
	ShortestSession      float64        `json:"shortestSession"`
	GoalCompletions      int            `json:"goalCompletions"`
	XPEarned             int            `json:"xpEarned"`
	AchievementsUnlocked int            `json:"achievementsUnlocked"`
	StreakDay            int            `json:"streakDay"`
	Mood                 string         `json:"mood,omitempty"`
	TopActivities        []string       `json:"topActivities,omitempty"`
	HourlyDistribution   [24]HourlySlot `json:"hourlyDistribution"`
}

// BestDay marks the strongest day of a week and why it won.
type BestDay struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
	Reason  string    `json:"reason"`
}

// WeeklyPatterns holds derived weekly habit signals.
type WeeklyPatterns struct {
	MostProductiveDay  int     `json:"mostProductiveDay"`  // 0 = Sunday
	MostProductiveHour int     `json:"mostProductiveHour"` // 0-23
	AverageDailyGoal   float64 `json:"averageDailyGoal"`
	ConsistencyScore   int     `json:"consistencyScore"` // 0-100
}

// WeeklyRollup summarizes one Monday-keyed week.
type WeeklyRollup struct {
	WeekStart            time.Time      `json:"weekStart"`
	TotalMinutes         int            `json:"totalMinutes"`
	SessionCount         int            `json:"sessionCount"`
	AverageSessionLength float64        `json:"averageSessionLength"`
	GoalCompletions      int            `json:"goalCompletions"`
	XPEarned             int            `json:"xpEarned"`
	AchievementsUnlocked int            `json:"achievementsUnlocked"`
	StreakDays           int            `json:"streakDays"`
	DailyBreakdown       []DailyRollup  `json:"dailyBreakdown"`
	BestDay              BestDay        `json:"bestDay"`
	Patterns             WeeklyPatterns `json:"patterns"`
}

// MonthlyTrends holds percentage deltas against the previous month.
type MonthlyTrends struct {
	MinutesChangePct     float64 `json:"minutesChangePct"`
	SessionsChangePct    float64 `json:"sessionsChangePct"`
	ConsistencyChangePct float64 `json:"consistencyChangePct"`
}

// MonthlyRollup summarizes one calendar month, keyed YYYY-MM.
type MonthlyRollup struct {
	Month                string         `json:"month"`
	TotalMinutes         int            `json:"totalMinutes"`
	SessionCount         int            `json:"sessionCount"`
	AverageSessionLength float64        `json:"averageSessionLength"`
	GoalCompletions      int            `json:"goalCompletions"`
	XPEarned             int            `json:"xpEarned"`
	AchievementsUnlocked int            `json:"achievementsUnlocked"`
	MaxStreak            int            `json:"maxStreak"`
	WeeklyBreakdown      []WeeklyRollup `json:"weeklyBreakdown"`
	Trends               MonthlyTrends  `json:"trends"`
	Milestones           []string       `json:"milestones,omitempty"`
}
