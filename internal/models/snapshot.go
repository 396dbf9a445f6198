// Package models defines data structures and domain types.
package models

import "time"

// AnalyticsSnapshot is the full output of one analytics cycle. Exposed
// to collaborators only as a copy, never as a live reference.
type AnalyticsSnapshot struct {
	Daily          []DailyRollup
	Weekly         []WeeklyRollup
	Monthly        []MonthlyRollup
	Patterns       []BehaviorPattern
	Insights       []Insight // at most 8, priority-ordered
	PersonalBests  []PersonalBestRecord
	CurrentStreak  int
	LastCalculated time.Time
}

// Clone returns a deep copy safe to hand to callers. Every nested
// slice and pointer is duplicated so writes through the clone never
// reach the owner's snapshot.
func (s *AnalyticsSnapshot) Clone() *AnalyticsSnapshot {
	if s == nil {
		return nil
	}
	out := &AnalyticsSnapshot{
		Daily:          make([]DailyRollup, len(s.Daily)),
		Weekly:         make([]WeeklyRollup, len(s.Weekly)),
		Monthly:        make([]MonthlyRollup, len(s.Monthly)),
		Patterns:       make([]BehaviorPattern, len(s.Patterns)),
		Insights:       make([]Insight, len(s.Insights)),
		PersonalBests:  make([]PersonalBestRecord, len(s.PersonalBests)),
		CurrentStreak:  s.CurrentStreak,
		LastCalculated: s.LastCalculated,
	}
	for i := range s.Daily {
		out.Daily[i] = cloneDaily(s.Daily[i])
	}
	for i := range s.Weekly {
		out.Weekly[i] = cloneWeekly(s.Weekly[i])
	}
	for i, m := range s.Monthly {
		out.Monthly[i] = m
		out.Monthly[i].WeeklyBreakdown = make([]WeeklyRollup, len(m.WeeklyBreakdown))
		for j := range m.WeeklyBreakdown {
			out.Monthly[i].WeeklyBreakdown[j] = cloneWeekly(m.WeeklyBreakdown[j])
		}
		out.Monthly[i].Milestones = append([]string(nil), m.Milestones...)
	}
	for i, p := range s.Patterns {
		out.Patterns[i] = p
		out.Patterns[i].PreferredDays = append([]int(nil), p.PreferredDays...)
		out.Patterns[i].PreferredHours = append([]int(nil), p.PreferredHours...)
		out.Patterns[i].TopGoals = append([]string(nil), p.TopGoals...)
		out.Patterns[i].TopActivities = append([]string(nil), p.TopActivities...)
		out.Patterns[i].TopMoods = append([]string(nil), p.TopMoods...)
	}
	for i, in := range s.Insights {
		out.Insights[i] = in
		out.Insights[i].Data = cloneInsightData(in.Data)
		if in.ExpiresAt != nil {
			exp := *in.ExpiresAt
			out.Insights[i].ExpiresAt = &exp
		}
	}
	for i, r := range s.PersonalBests {
		out.PersonalBests[i] = r
		if r.PreviousBest != nil {
			prev := *r.PreviousBest
			out.PersonalBests[i].PreviousBest = &prev
		}
	}
	return out
}

func cloneDaily(d DailyRollup) DailyRollup {
	d.TopActivities = append([]string(nil), d.TopActivities...)
	return d
}

func cloneWeekly(w WeeklyRollup) WeeklyRollup {
	breakdown := make([]DailyRollup, len(w.DailyBreakdown))
	for i := range w.DailyBreakdown {
		breakdown[i] = cloneDaily(w.DailyBreakdown[i])
	}
	w.DailyBreakdown = breakdown
	return w
}

func cloneInsightData(d InsightData) InsightData {
	switch v := d.(type) {
	case OptimalTimingData:
		v.PreferredDays = append([]int(nil), v.PreferredDays...)
		v.PreferredHours = append([]int(nil), v.PreferredHours...)
		return v
	default:
		// Remaining payloads are value types without slices or pointers.
		return d
	}
}

// LatestWeekly returns the most recent weekly rollup, or nil.
func (s *AnalyticsSnapshot) LatestWeekly() *WeeklyRollup {
	if len(s.Weekly) == 0 {
		return nil
	}
	return &s.Weekly[len(s.Weekly)-1]
}

// DailyOn returns the rollup for the given calendar day, or nil.
func (s *AnalyticsSnapshot) DailyOn(day time.Time) *DailyRollup {
	y, m, d := day.Date()
	for i := range s.Daily {
		dy, dm, dd := s.Daily[i].Date.Date()
		if dy == y && dm == m && dd == d {
			return &s.Daily[i]
		}
	}
	return nil
}

// PeriodComparison is a day- or week-over-previous delta summary with
// up to three threshold-selected insight strings.
type PeriodComparison struct {
	Timeframe            string // "daily" or "weekly"
	CurrentMinutes       int
	PreviousMinutes      int
	MinutesChangePct     float64
	SessionsChangePct    float64
	ConsistencyChangePct float64
	Insights             []string
}
