// Package behavior mines preference patterns from chronological session
// observations. Every sub-analysis is independent and may individually
// decline; the miner's output is whatever subset produced a result.
package behavior

import (
	"sort"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/analytics/rollup"
	"github.com/tmctyres/unplug-analytics/internal/models"
)

const (
	// minObservations is the confidence floor below which no patterns
	// are mined at all. Not an error.
	minObservations = 5

	// minDurationObservations gates the duration sub-analysis.
	minDurationObservations = 3

	// Day-of-week and hour-of-day qualification thresholds. The hour
	// threshold is deliberately stricter: hour-of-day signal is noisier.
	dayFrequencyFactor  = 1.2
	hourFrequencyFactor = 1.5
)

// Synthesize flattens raw daily records into session observations.
// Days with explicit notes contribute one observation per note; days
// without notes contribute estimated sessions spaced evenly across the
// day, reusing the rollup session estimation policy.
func Synthesize(days []models.DailyStats) []models.SessionObservation {
	sorted := make([]models.DailyStats, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var obs []models.SessionObservation
	for _, d := range sorted {
		if len(d.Notes) > 0 {
			for _, n := range d.Notes {
				dur := n.DurationMinutes
				if dur < 0 {
					dur = 0
				}
				obs = append(obs, models.SessionObservation{
					Date:            d.Date,
					DayOfWeek:       int(d.Date.Weekday()),
					HourOfDay:       n.Timestamp.Hour(),
					DurationMinutes: dur,
					GoalID:          n.GoalID,
					Mood:            n.Mood,
					Activities:      n.Activities,
				})
			}
			continue
		}

		if d.TotalMinutes <= 0 {
			continue
		}
		count := rollup.EstimatedSessions(d)
		avg := d.TotalMinutes / count
		for i := 0; i < count; i++ {
			obs = append(obs, models.SessionObservation{
				Date:            d.Date,
				DayOfWeek:       int(d.Date.Weekday()),
				HourOfDay:       i * 24 / count,
				DurationMinutes: avg,
			})
		}
	}
	return obs
}

// Mine runs every sub-analysis over the observation history and returns
// the patterns that qualified. Fewer than minObservations observations
// yields no patterns.
func Mine(obs []models.SessionObservation, now time.Time) []models.BehaviorPattern {
	if len(obs) < minObservations {
		return nil
	}

	var patterns []models.BehaviorPattern
	if p := analyzeTimePreference(obs, now); p != nil {
		patterns = append(patterns, *p)
	}
	if p := analyzeDurationPreference(obs, now); p != nil {
		patterns = append(patterns, *p)
	}
	if p := analyzeGoalPreference(obs, now); p != nil {
		patterns = append(patterns, *p)
	}
	if p := analyzeActivityPreference(obs, now); p != nil {
		patterns = append(patterns, *p)
	}
	return patterns
}

func analyzeTimePreference(obs []models.SessionObservation, now time.Time) *models.BehaviorPattern {
	var dayFreq [7]int
	var hourFreq [24]int
	for _, o := range obs {
		if o.DayOfWeek >= 0 && o.DayOfWeek < 7 {
			dayFreq[o.DayOfWeek]++
		}
		if o.HourOfDay >= 0 && o.HourOfDay < 24 {
			hourFreq[o.HourOfDay]++
		}
	}

	dayMean := float64(len(obs)) / 7
	hourMean := float64(len(obs)) / 24

	var days, hours []int
	for d, f := range dayFreq {
		if float64(f) > dayFrequencyFactor*dayMean {
			days = append(days, d)
		}
	}
	for h, f := range hourFreq {
		if float64(f) > hourFrequencyFactor*hourMean {
			hours = append(hours, h)
		}
	}
	if len(days) == 0 && len(hours) == 0 {
		return nil
	}

	return &models.BehaviorPattern{
		Type:           models.PatternTimePreference,
		PreferredDays:  days,
		PreferredHours: hours,
		Confidence:     capRatio(len(obs), 20),
		LastUpdated:    now,
	}
}

func analyzeDurationPreference(obs []models.SessionObservation, now time.Time) *models.BehaviorPattern {
	if len(obs) < minDurationObservations {
		return nil
	}

	minDur, maxDur, sum := obs[0].DurationMinutes, obs[0].DurationMinutes, 0
	for _, o := range obs {
		if o.DurationMinutes < minDur {
			minDur = o.DurationMinutes
		}
		if o.DurationMinutes > maxDur {
			maxDur = o.DurationMinutes
		}
		sum += o.DurationMinutes
	}

	return &models.BehaviorPattern{
		Type: models.PatternDurationPreference,
		Duration: models.DurationRange{
			Min:     minDur,
			Max:     maxDur,
			Average: float64(sum) / float64(len(obs)),
		},
		Confidence:  capRatio(len(obs), 15),
		LastUpdated: now,
	}
}

func analyzeGoalPreference(obs []models.SessionObservation, now time.Time) *models.BehaviorPattern {
	counts := map[string]int{}
	var order []string
	for _, o := range obs {
		if o.GoalID == "" {
			continue
		}
		if _, seen := counts[o.GoalID]; !seen {
			order = append(order, o.GoalID)
		}
		counts[o.GoalID]++
	}
	if len(counts) == 0 {
		return nil
	}

	return &models.BehaviorPattern{
		Type:        models.PatternGoalPreference,
		TopGoals:    topByCount(counts, order, 3),
		Confidence:  capRatio(len(counts), 5),
		LastUpdated: now,
	}
}

func analyzeActivityPreference(obs []models.SessionObservation, now time.Time) *models.BehaviorPattern {
	activityCounts := map[string]int{}
	var activityOrder []string
	moodCounts := map[string]int{}
	var moodOrder []string

	for _, o := range obs {
		for _, a := range o.Activities {
			if _, seen := activityCounts[a]; !seen {
				activityOrder = append(activityOrder, a)
			}
			activityCounts[a]++
		}
		if o.Mood != "" {
			if _, seen := moodCounts[o.Mood]; !seen {
				moodOrder = append(moodOrder, o.Mood)
			}
			moodCounts[o.Mood]++
		}
	}
	if len(activityCounts) == 0 && len(moodCounts) == 0 {
		return nil
	}

	return &models.BehaviorPattern{
		Type:          models.PatternActivityPreference,
		TopActivities: topByCount(activityCounts, activityOrder, 5),
		TopMoods:      topByCount(moodCounts, moodOrder, 2),
		Confidence:    capRatio(len(activityCounts)+len(moodCounts), 7),
		LastUpdated:   now,
	}
}

// capRatio returns n/limit capped at 1.
func capRatio(n, limit int) float64 {
	c := float64(n) / float64(limit)
	if c > 1 {
		return 1
	}
	return c
}

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
