package insight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmctyres/unplug-analytics/internal/analytics/trend"
	"github.com/tmctyres/unplug-analytics/internal/models"
)

// Rule priorities, highest first. Personal bests beat everything; raw
// trend commentary comes last.
const (
	priorityPersonalBest  = 10
	priorityStreakProtect = 9
	priorityGoal          = 8
	priorityOptimalTiming = 7
	priorityConsistency   = 6
	prioritySessionLength = 5
	priorityTrend         = 4
)

const (
	consistencyTarget      = 70
	sessionLengthMinDays   = 10
	sessionLengthTolerance = 10.0 // minutes
	recentBestWindow       = 3 * 24 * time.Hour
	minWeeksForTrend       = 3
)

// DefaultRules assembles the builtin rule families.
func DefaultRules() []Rule {
	return []Rule{
		personalBestRule(),
		streakProtectionRule(),
		goalAchievementRule(),
		optimalTimingRule(),
		consistencyRule(),
		sessionLengthRule(),
		trendRule(),
	}
}

func newInsight(t models.InsightType, now time.Time) models.Insight {
	return models.Insight{
		ID:        uuid.NewString(),
		Type:      t,
		CreatedAt: now,
	}
}

func optimalTimingRule() Rule {
	return Rule{
		ID:       "optimal-timing",
		Category: "timing",
		Priority: priorityOptimalTiming,
		Condition: func(ctx *Context) bool {
			return ctx.TimePattern() != nil
		},
		Generate: func(ctx *Context) *models.Insight {
			p := ctx.TimePattern()
			i := newInsight(models.InsightOptimalTiming, ctx.Now)
			i.Title = "Your best unplugging windows"
			i.Description = describeTiming(p)
			i.Confidence = p.Confidence
			i.Actionable = true
			i.Recommendation = "Schedule your next offline session in one of these windows."
			i.Data = models.OptimalTimingData{
				PreferredDays:  p.PreferredDays,
				PreferredHours: p.PreferredHours,
			}
			return &i
		},
	}
}

func describeTiming(p *models.BehaviorPattern) string {
	var parts []string
	if len(p.PreferredDays) > 0 {
		names := make([]string, len(p.PreferredDays))
		for i, d := range p.PreferredDays {
			names[i] = time.Weekday(d).String()
		}
		parts = append(parts, "You unplug most on "+strings.Join(names, ", "))
	}
	if len(p.PreferredHours) > 0 {
		hours := make([]string, len(p.PreferredHours))
		for i, h := range p.PreferredHours {
			hours[i] = fmt.Sprintf("%02d:00", h)
		}
		parts = append(parts, "your strongest hours are "+strings.Join(hours, ", "))
	}
	return strings.Join(parts, "; ")
}

func consistencyRule() Rule {
	return Rule{
		ID:       "consistency-improvement",
		Category: "habits",
		Priority: priorityConsistency,
		Condition: func(ctx *Context) bool {
			w := ctx.Snapshot.LatestWeekly()
			return w != nil && w.Patterns.ConsistencyScore < consistencyTarget
		},
		Generate: func(ctx *Context) *models.Insight {
			w := ctx.Snapshot.LatestWeekly()
			activeDays := 0
			for _, d := range w.DailyBreakdown {
				if d.TotalMinutes > 0 {
					activeDays++
				}
			}
			i := newInsight(models.InsightConsistency, ctx.Now)
			i.Title = "Room to build a steadier habit"
			i.Description = fmt.Sprintf("You unplugged on %d of the last %d days (%d%% consistency).",
				activeDays, len(w.DailyBreakdown), w.Patterns.ConsistencyScore)
			i.Confidence = 0.8
			i.Actionable = true
			i.Recommendation = "Even a short daily session keeps the habit alive."
			i.Data = models.ConsistencyData{
				CurrentScore: w.Patterns.ConsistencyScore,
				TargetScore:  consistencyTarget,
				ActiveDays:   activeDays,
			}
			return &i
		},
	}
}

func streakProtectionRule() Rule {
	return Rule{
		ID:       "streak-protection",
		Category: "streaks",
		Priority: priorityStreakProtect,
		Condition: func(ctx *Context) bool {
			if ctx.CurrentStreak < 3 {
				return false
			}
			today := ctx.Snapshot.DailyOn(ctx.Now)
			return today == nil || today.TotalMinutes == 0
		},
		Generate: func(ctx *Context) *models.Insight {
			i := newInsight(models.InsightStreakProtect, ctx.Now)
			expires := ctx.Now.Add(24 * time.Hour)
			i.Title = fmt.Sprintf("Your %d-day streak is at risk", ctx.CurrentStreak)
			i.Description = "No offline time logged today yet."
			i.Confidence = 1
			i.Actionable = true
			i.Recommendation = "Take a short session before midnight to keep the streak."
			i.ExpiresAt = &expires
			i.Data = models.StreakProtectionData{CurrentStreak: ctx.CurrentStreak}
			return &i
		},
	}
}

func goalAchievementRule() Rule {
	return Rule{
		ID:       "goal-achievement-prediction",
		Category: "goals",
		Priority: priorityGoal,
		Condition: func(ctx *Context) bool {
			return ctx.Snapshot.LatestWeekly() != nil && weeklyGoal(ctx) > 0
		},
		Generate: func(ctx *Context) *models.Insight {
			w := ctx.Snapshot.LatestWeekly()
			goal := weeklyGoal(ctx)

			daysElapsed := int(ctx.Now.Sub(w.WeekStart).Hours()/24) + 1
			if daysElapsed < 1 {
				daysElapsed = 1
			}
			if daysElapsed > 7 {
				daysElapsed = 7
			}

			dailyAverage := float64(w.TotalMinutes) / float64(daysElapsed)
			projected := dailyAverage * 7
			probability := math.Min(projected/goal*100, 100)

			sessionsNeeded := 0
			if remaining := goal - float64(w.TotalMinutes); remaining > 0 && dailyAverage > 0 {
				sessionsNeeded = int(math.Ceil(remaining / dailyAverage))
			}

			i := newInsight(models.InsightGoalAchievement, ctx.Now)
			i.Confidence = capRatio(daysElapsed, 5)
			i.Data = models.GoalAchievementData{
				ProjectedMinutes: projected,
				GoalMinutes:      goal,
				Probability:      probability,
				SessionsNeeded:   sessionsNeeded,
			}
			if projected >= goal {
				i.Title = "On track for your weekly goal"
				i.Description = fmt.Sprintf("Projected %.0f of %.0f minutes this week.", projected, goal)
			} else {
				i.Title = "Your weekly goal needs a push"
				i.Description = fmt.Sprintf("Projected %.0f of %.0f minutes this week (%.0f%% chance).",
					projected, goal, probability)
				i.Actionable = true
				i.Recommendation = fmt.Sprintf("About %d more sessions at your usual pace would close the gap.", sessionsNeeded)
			}
			return &i
		},
	}
}

// weeklyGoal prefers the configured goal and falls back to the average
// of completed weeks.
func weeklyGoal(ctx *Context) float64 {
	if ctx.WeeklyGoalMinutes > 0 {
		return ctx.WeeklyGoalMinutes
	}
	weeks := ctx.Snapshot.Weekly
	if len(weeks) < 2 {
		return 0
	}
	sum := 0
	for _, w := range weeks[:len(weeks)-1] {
		sum += w.TotalMinutes
	}
	return float64(sum) / float64(len(weeks)-1)
}

func sessionLengthRule() Rule {
	return Rule{
		ID:       "session-length-optimization",
		Category: "sessions",
		Priority: prioritySessionLength,
		Condition: func(ctx *Context) bool {
			return ctx.DurationPattern() != nil && len(ctx.Snapshot.Daily) >= sessionLengthMinDays
		},
		Generate: func(ctx *Context) *models.Insight {
			p := ctx.DurationPattern()
			recent := recentAverageSession(ctx.Snapshot.Daily, 7)
			diff := p.Duration.Average - recent
			if math.Abs(diff) <= sessionLengthTolerance {
				// Already close to the preferred length: nothing to say.
				return nil
			}

			i := newInsight(models.InsightSessionLength, ctx.Now)
			i.Confidence = p.Confidence
			i.Actionable = true
			i.Data = models.SessionLengthData{
				OptimalMinutes: p.Duration.Average,
				RecentAverage:  recent,
			}
			if diff > 0 {
				i.Title = "Your sessions have been running short"
				i.Description = fmt.Sprintf("Recent sessions average %.0f minutes; you usually settle around %.0f.", recent, p.Duration.Average)
				i.Recommendation = fmt.Sprintf("Try stretching sessions back toward %.0f minutes.", p.Duration.Average)
			} else {
				i.Title = "Your sessions have been running long"
				i.Description = fmt.Sprintf("Recent sessions average %.0f minutes against your usual %.0f.", recent, p.Duration.Average)
				i.Recommendation = "Shorter, more frequent sessions may be easier to sustain."
			}
			return &i
		},
	}
}

func recentAverageSession(daily []models.DailyRollup, days int) float64 {
	if len(daily) > days {
		daily = daily[len(daily)-days:]
	}
	minutes, sessions := 0, 0
	for _, d := range daily {
		minutes += d.TotalMinutes
		sessions += d.SessionCount
	}
	if sessions == 0 {
		return 0
	}
	return float64(minutes) / float64(sessions)
}

func trendRule() Rule {
	return Rule{
		ID:       "trend-analysis",
		Category: "trends",
		Priority: priorityTrend,
		Condition: func(ctx *Context) bool {
			return len(ctx.Snapshot.Weekly) >= minWeeksForTrend
		},
		Generate: func(ctx *Context) *models.Insight {
			weeks := ctx.Snapshot.Weekly
			series := make([]float64, len(weeks))
			for i, w := range weeks {
				series[i] = float64(w.TotalMinutes)
			}
			window := trend.DefaultWindow
			if len(series) < window {
				window = len(series)
			}
			result, ok := trend.Analyze("weekly minutes", series, window)
			if !ok || result.Significance == models.SignificanceLow {
				return nil
			}

			i := newInsight(models.InsightTrend, ctx.Now)
			i.Title = trendTitle(result)
			i.Description = result.Description
			i.Confidence = result.Confidence
			i.Data = models.TrendData{Trend: result}
			return &i
		},
	}
}

func trendTitle(r models.TrendResult) string {
	if r.Direction == models.TrendIncreasing {
		return "Your offline time is trending up"
	}
	return "Your offline time is trending down"
}

func personalBestRule() Rule {
	return Rule{
		ID:       "personal-best-recognition",
		Category: "records",
		Priority: priorityPersonalBest,
		Condition: func(ctx *Context) bool {
			return latestRecentBest(ctx) != nil
		},
		Generate: func(ctx *Context) *models.Insight {
			e := latestRecentBest(ctx)
			i := newInsight(models.InsightPersonalBest, ctx.Now)
			i.Title = "New personal record!"
			i.Description = fmt.Sprintf("%s improved from %.0f to %.0f (+%.0f%%).",
				categoryLabel(e.Category), e.OldValue, e.NewValue, e.Improvement)
			i.Confidence = 1
			i.Data = models.PersonalBestData{Event: *e}
			return &i
		},
	}
}

// latestRecentBest returns the most significant event within the
// recognition window, preferring milestones.
func latestRecentBest(ctx *Context) *models.PersonalBestEvent {
	rank := map[models.Significance]int{
		models.SignificanceMilestone: 2,
		models.SignificanceMajor:     1,
		models.SignificanceMinor:     0,
	}
	var best *models.PersonalBestEvent
	for i := range ctx.RecentBests {
		e := &ctx.RecentBests[i]
		if ctx.Now.Sub(e.Date) > recentBestWindow {
			continue
		}
		if best == nil || rank[e.Significance] > rank[best.Significance] {
			best = e
		}
	}
	return best
}

func categoryLabel(c models.BestCategory) string {
	switch c {
	case models.BestLongestSession:
		return "Longest session"
	case models.BestMostDailyMinutes:
		return "Most minutes in a day"
	case models.BestMostDailySessions:
		return "Most sessions in a day"
	case models.BestMostWeeklyMinutes:
		return "Most minutes in a week"
	case models.BestLongestStreak:
		return "Longest streak"
	case models.BestConsistency:
		return "Best weekly consistency"
	default:
		return string(c)
	}
}

func capRatio(n, limit int) float64 {
	c := float64(n) / float64(limit)
	if c > 1 {
		return 1
	}
	return c
}
