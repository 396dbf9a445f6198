// Package best maintains the table of personal records and detects new
// ones. The tracker is not safe for concurrent use; it is owned by the
// analytics service, which serializes access.
package best

import (
	"time"

	"github.com/google/uuid"

	"github.com/tmctyres/unplug-analytics/internal/models"
)

// milestoneValues are category-specific values that promote a new
// record straight to milestone significance.
var milestoneValues = map[models.BestCategory][]float64{
	models.BestLongestSession:    {60, 120, 180, 240},
	models.BestMostDailyMinutes:  {120, 240, 360, 480},
	models.BestMostWeeklyMinutes: {600, 1200, 1800, 2400},
	models.BestLongestStreak:     {7, 14, 30, 60, 100},
}

var categoryUnits = map[models.BestCategory]string{
	models.BestLongestSession:    "minutes",
	models.BestMostDailyMinutes:  "minutes",
	models.BestMostDailySessions: "sessions",
	models.BestMostWeeklyMinutes: "minutes",
	models.BestLongestStreak:     "days",
	models.BestConsistency:       "percent",
}

// Tracker holds one live record per category. Records are created
// lazily on the first qualifying observation and superseded in place.
type Tracker struct {
	records map[models.BestCategory]models.PersonalBestRecord
}

// NewTracker builds a tracker seeded with previously stored records.
func NewTracker(existing []models.PersonalBestRecord) *Tracker {
	t := &Tracker{records: make(map[models.BestCategory]models.PersonalBestRecord)}
	for _, r := range existing {
		t.records[r.Category] = r
	}
	return t
}

// CheckDaily compares a daily rollup against the stored bests for every
// daily-shaped category and returns the resulting events.
func (t *Tracker) CheckDaily(d models.DailyRollup) []models.PersonalBestEvent {
	var events []models.PersonalBestEvent
	if e := t.check(models.BestLongestSession, d.LongestSession, d.Date); e != nil {
		events = append(events, *e)
	}
	if e := t.check(models.BestMostDailyMinutes, float64(d.TotalMinutes), d.Date); e != nil {
		events = append(events, *e)
	}
	if e := t.check(models.BestMostDailySessions, float64(d.SessionCount), d.Date); e != nil {
		events = append(events, *e)
	}
	return events
}

// CheckWeekly compares a weekly rollup against the weekly-shaped
// categories.
func (t *Tracker) CheckWeekly(w models.WeeklyRollup) []models.PersonalBestEvent {
	var events []models.PersonalBestEvent
	if e := t.check(models.BestMostWeeklyMinutes, float64(w.TotalMinutes), w.WeekStart); e != nil {
		events = append(events, *e)
	}
	if e := t.check(models.BestConsistency, float64(w.Patterns.ConsistencyScore), w.WeekStart); e != nil {
		events = append(events, *e)
	}
	return events
}

// CheckStreak compares the live streak counter, which is supplied
// alongside rollups rather than derived from them. Emission is
// at-least-once: resubmitting an unchanged streak across cycles is
// harmless because only strictly greater values emit.
func (t *Tracker) CheckStreak(streak int, date time.Time) []models.PersonalBestEvent {
	if e := t.check(models.BestLongestStreak, float64(streak), date); e != nil {
		return []models.PersonalBestEvent{*e}
	}
	return nil
}

// Records returns a copy of the live table.
func (t *Tracker) Records() []models.PersonalBestRecord {
	out := make([]models.PersonalBestRecord, 0, len(t.records))
	for _, r := range t.records {
		if r.PreviousBest != nil {
			prev := *r.PreviousBest
			r.PreviousBest = &prev
		}
		out = append(out, r)
	}
	return out
}

// check compares value against the stored best for category (zero if
// none yet) and overwrites the table entry when strictly greater.
func (t *Tracker) check(category models.BestCategory, value float64, date time.Time) *models.PersonalBestEvent {
	if value < 0 {
		value = 0
	}

	old, exists := t.records[category]
	oldValue := 0.0
	if exists {
		oldValue = old.Value
	}
	if value <= oldValue {
		return nil
	}

	improvement := 100.0
	if oldValue > 0 {
		improvement = (value - oldValue) / oldValue * 100
	}

	record := models.PersonalBestRecord{
		ID:          uuid.NewString(),
		Category:    category,
		Value:       value,
		Unit:        categoryUnits[category],
		Date:        date,
		Improvement: improvement,
	}
	if exists {
		record.PreviousBest = &models.PreviousBest{Value: old.Value, Date: old.Date}
	}
	t.records[category] = record

	return &models.PersonalBestEvent{
		Category:     category,
		OldValue:     oldValue,
		NewValue:     value,
		Improvement:  improvement,
		Date:         date,
		Significance: significance(category, oldValue, value, improvement),
	}
}

// significance tiers a new record: milestone when improvement exceeds
// 50% or a category milestone value is reached, major above 20%,
// otherwise minor.
func significance(category models.BestCategory, oldValue, newValue, improvement float64) models.Significance {
	if improvement > 50 {
		return models.SignificanceMilestone
	}
	for _, m := range milestoneValues[category] {
		if newValue >= m && oldValue < m {
			return models.SignificanceMilestone
		}
	}
	if improvement > 20 {
		return models.SignificanceMajor
	}
	return models.SignificanceMinor
}
