// Package rollup folds raw per-day activity records into daily, weekly
// and monthly statistical summaries. All functions are pure; empty
// input yields empty output at every level.
package rollup

import (
	"fmt"
	"sort"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/models"
)

// assumedSessionMinutes backs the session estimation policy: when a day
// carries neither notes nor an explicit session count, sessions are
// estimated as floor(totalMinutes/30), never below one.
const assumedSessionMinutes = 30

// Build produces all three rollup levels from raw daily records.
func Build(days []models.DailyStats) ([]models.DailyRollup, []models.WeeklyRollup, []models.MonthlyRollup) {
	daily := BuildDaily(days)
	weekly := BuildWeekly(daily)
	monthly := BuildMonthly(weekly)
	return daily, weekly, monthly
}

// BuildDaily maps each raw record to a daily rollup, in chronological order.
func BuildDaily(days []models.DailyStats) []models.DailyRollup {
	sorted := make([]models.DailyStats, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	rollups := make([]models.DailyRollup, 0, len(sorted))
	for _, d := range sorted {
		rollups = append(rollups, buildDay(d))
	}
	return rollups
}

// EstimatedSessions applies the session estimation policy for a day:
// explicit notes win, then the recorded session count, then the
// estimate from total minutes. Always at least one when any time was
// logged.
func EstimatedSessions(d models.DailyStats) int {
	if n := len(d.Notes); n > 0 {
		return n
	}
	if d.SessionCount > 0 {
		return d.SessionCount
	}
	n := d.TotalMinutes / assumedSessionMinutes
	if n < 1 {
		n = 1
	}
	return n
}

func buildDay(d models.DailyStats) models.DailyRollup {
	total := d.TotalMinutes
	if total < 0 {
		total = 0
	}

	count := EstimatedSessions(d)
	avg := 0.0
	if count > 0 {
		avg = float64(total) / float64(count)
	}

	r := models.DailyRollup{
		Date:                 d.Date,
		TotalMinutes:         total,
		SessionCount:         count,
		AverageSessionLength: avg,
		LongestSession:       avg,
		ShortestSession:      avg,
		GoalCompletions:      maxInt(d.GoalCompletions, 0),
		XPEarned:             maxInt(d.XPEarned, 0),
		AchievementsUnlocked: maxInt(d.AchievementsUnlocked, 0),
		StreakDay:            maxInt(d.StreakDay, 0),
	}

	if len(d.Notes) > 0 {
		applyNotes(&r, d.Notes)
	}
	return r
}

// applyNotes refines a daily rollup with per-session detail.
func applyNotes(r *models.DailyRollup, notes []models.SessionNote) {
	longest, shortest := 0.0, 0.0
	activityCounts := map[string]int{}
	var activityOrder []string
	moodCounts := map[string]int{}
	var moodOrder []string

	for i, n := range notes {
		dur := n.DurationMinutes
		if dur < 0 {
			dur = 0
		}
		if i == 0 || float64(dur) > longest {
			longest = float64(dur)
		}
		if i == 0 || float64(dur) < shortest {
			shortest = float64(dur)
		}

		if !n.Timestamp.IsZero() {
			hour := n.Timestamp.Hour()
			r.HourlyDistribution[hour].Minutes += dur
			r.HourlyDistribution[hour].Sessions++
		}

		for _, a := range n.Activities {
			if _, seen := activityCounts[a]; !seen {
				activityOrder = append(activityOrder, a)
			}
			activityCounts[a]++
		}
		if n.Mood != "" {
			if _, seen := moodCounts[n.Mood]; !seen {
				moodOrder = append(moodOrder, n.Mood)
			}
			moodCounts[n.Mood]++
		}
	}

	// Keep the ordering invariant when note durations disagree with the
	// recorded daily total.
	if longest < r.AverageSessionLength {
		longest = r.AverageSessionLength
	}
	if shortest > r.AverageSessionLength {
		shortest = r.AverageSessionLength
	}
	r.LongestSession = longest
	r.ShortestSession = shortest

	r.TopActivities = topByCount(activityCounts, activityOrder, 3)
	if moods := topByCount(moodCounts, moodOrder, 1); len(moods) > 0 {
		r.Mood = moods[0]
	}
}

// topByCount returns up to n keys ranked by count, ties broken by first
// appearance.
func topByCount(counts map[string]int, order []string, n int) []string {
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// WeekStart returns the Monday of the week containing t, at midnight in
// t's location. Sunday is treated as the trailing day of its week.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
}

// BuildWeekly groups daily rollups into Monday-keyed weeks.
func BuildWeekly(daily []models.DailyRollup) []models.WeeklyRollup {
	groups := map[string][]models.DailyRollup{}
	var keys []string
	starts := map[string]time.Time{}

	for _, d := range daily {
		ws := WeekStart(d.Date)
		key := ws.Format("2006-01-02")
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
			starts[key] = ws
		}
		groups[key] = append(groups[key], d)
	}
	sort.Strings(keys)

	weekly := make([]models.WeeklyRollup, 0, len(keys))
	for _, key := range keys {
		weekly = append(weekly, buildWeek(starts[key], groups[key]))
	}
	return weekly
}

func buildWeek(start time.Time, days []models.DailyRollup) models.WeeklyRollup {
	w := models.WeeklyRollup{
		WeekStart:      start,
		DailyBreakdown: days,
	}

	activeDays := 0
	bestIdx := 0
	for i, d := range days {
		w.TotalMinutes += d.TotalMinutes
		w.SessionCount += d.SessionCount
		w.GoalCompletions += d.GoalCompletions
		w.XPEarned += d.XPEarned
		w.AchievementsUnlocked += d.AchievementsUnlocked
		if d.StreakDay > 0 {
			w.StreakDays++
		}
		if d.TotalMinutes > 0 {
			activeDays++
		}
		if d.TotalMinutes > days[bestIdx].TotalMinutes {
			bestIdx = i
		}
	}
	if w.SessionCount > 0 {
		w.AverageSessionLength = float64(w.TotalMinutes) / float64(w.SessionCount)
	}

	if len(days) > 0 {
		best := days[bestIdx]
		w.BestDay = models.BestDay{
			Date:    best.Date,
			Minutes: best.TotalMinutes,
			Reason:  bestDayReason(best),
		}
	}

	w.Patterns = weekPatterns(days, activeDays)
	return w
}

// bestDayReason picks the most flattering explanation available.
func bestDayReason(d models.DailyRollup) string {
	switch {
	case d.GoalCompletions > 0:
		return "Most goals completed"
	case d.LongestSession > 60:
		return "Longest session"
	case d.SessionCount > 3:
		return "Most sessions"
	default:
		return "Highest total time"
	}
}

func weekPatterns(days []models.DailyRollup, activeDays int) models.WeeklyPatterns {
	var p models.WeeklyPatterns
	if len(days) == 0 {
		return p
	}

	var byWeekday [7]int
	var byHour [24]int
	goals := 0
	for _, d := range days {
		byWeekday[int(d.Date.Weekday())] += d.TotalMinutes
		for h, slot := range d.HourlyDistribution {
			byHour[h] += slot.Minutes
		}
		goals += d.GoalCompletions
	}
	for i := 1; i < len(byWeekday); i++ {
		if byWeekday[i] > byWeekday[p.MostProductiveDay] {
			p.MostProductiveDay = i
		}
	}
	for i := 1; i < len(byHour); i++ {
		if byHour[i] > byHour[p.MostProductiveHour] {
			p.MostProductiveHour = i
		}
	}
	p.AverageDailyGoal = float64(goals) / float64(len(days))
	p.ConsistencyScore = int(float64(100*activeDays)/float64(len(days)) + 0.5)
	return p
}

// Monthly milestone thresholds.
var (
	monthMinuteMilestones  = []int{600, 1500, 3000, 6000}
	monthSessionMilestones = []int{50, 100, 200}
	monthStreakMilestones  = []int{7, 14, 30}
)

// BuildMonthly groups weekly rollups by the calendar month of their
// week start.
func BuildMonthly(weekly []models.WeeklyRollup) []models.MonthlyRollup {
	groups := map[string][]models.WeeklyRollup{}
	var keys []string
	for _, w := range weekly {
		key := w.WeekStart.Format("2006-01")
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], w)
	}
	sort.Strings(keys)

	monthly := make([]models.MonthlyRollup, 0, len(keys))
	for i, key := range keys {
		m := buildMonth(key, groups[key])
		if i > 0 {
			m.Trends = monthTrends(monthly[i-1], m)
		}
		monthly = append(monthly, m)
	}
	return monthly
}

func buildMonth(key string, weeks []models.WeeklyRollup) models.MonthlyRollup {
	m := models.MonthlyRollup{
		Month:           key,
		WeeklyBreakdown: weeks,
	}
	for _, w := range weeks {
		m.TotalMinutes += w.TotalMinutes
		m.SessionCount += w.SessionCount
		m.GoalCompletions += w.GoalCompletions
		m.XPEarned += w.XPEarned
		m.AchievementsUnlocked += w.AchievementsUnlocked
		if w.StreakDays > m.MaxStreak {
			m.MaxStreak = w.StreakDays
		}
	}
	if m.SessionCount > 0 {
		m.AverageSessionLength = float64(m.TotalMinutes) / float64(m.SessionCount)
	}
	m.Milestones = monthMilestones(m)
	return m
}

func monthMilestones(m models.MonthlyRollup) []string {
	var milestones []string
	for _, threshold := range monthMinuteMilestones {
		if m.TotalMinutes >= threshold {
			milestones = append(milestones, fmt.Sprintf("Logged %d+ offline minutes this month", threshold))
		}
	}
	for _, threshold := range monthSessionMilestones {
		if m.SessionCount >= threshold {
			milestones = append(milestones, fmt.Sprintf("Completed %d+ sessions this month", threshold))
		}
	}
	for _, threshold := range monthStreakMilestones {
		if m.MaxStreak >= threshold {
			milestones = append(milestones, fmt.Sprintf("Held a %d-day weekly streak", threshold))
		}
	}
	return milestones
}

func monthTrends(prev, cur models.MonthlyRollup) models.MonthlyTrends {
	return models.MonthlyTrends{
		MinutesChangePct:     pctChange(float64(prev.TotalMinutes), float64(cur.TotalMinutes)),
		SessionsChangePct:    pctChange(float64(prev.SessionCount), float64(cur.SessionCount)),
		ConsistencyChangePct: pctChange(avgConsistency(prev), avgConsistency(cur)),
	}
}

func avgConsistency(m models.MonthlyRollup) float64 {
	if len(m.WeeklyBreakdown) == 0 {
		return 0
	}
	sum := 0
	for _, w := range m.WeeklyBreakdown {
		sum += w.Patterns.ConsistencyScore
	}
	return float64(sum) / float64(len(m.WeeklyBreakdown))
}

func pctChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
