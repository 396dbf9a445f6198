// Package insight evaluates a declarative rule registry against the
// analytics snapshot and returns the top insights by priority.
package insight

import (
	"sort"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/logger"
	"github.com/tmctyres/unplug-analytics/internal/models"
)

// DefaultLimit caps how many insights one cycle may surface.
const DefaultLimit = 8

// Context is everything a rule may inspect. Rules treat it as
// read-only.
type Context struct {
	Snapshot          *models.AnalyticsSnapshot
	RecentBests       []models.PersonalBestEvent
	CurrentStreak     int
	WeeklyGoalMinutes float64
	Now               time.Time
}

// TimePattern returns the mined time preference, if any.
func (c *Context) TimePattern() *models.BehaviorPattern {
	return c.pattern(models.PatternTimePreference)
}

// DurationPattern returns the mined duration preference, if any.
func (c *Context) DurationPattern() *models.BehaviorPattern {
	return c.pattern(models.PatternDurationPreference)
}

func (c *Context) pattern(pt models.PatternType) *models.BehaviorPattern {
	for i := range c.Snapshot.Patterns {
		if c.Snapshot.Patterns[i].Type == pt {
			return &c.Snapshot.Patterns[i]
		}
	}
	return nil
}

// Rule is one declarative insight rule. Condition gates Generate;
// Generate may still return nil to decline without error (for example
// when the current behavior is already optimal).
type Rule struct {
	ID        string
	Category  string
	Priority  int
	Condition func(*Context) bool
	Generate  func(*Context) *models.Insight
}

// Engine holds an immutable rule registry. Changing the rule set means
// building a new engine, not mutating a live one.
type Engine struct {
	rules []Rule
	limit int
}

// NewEngine copies rules into an immutable registry. A non-positive
// limit falls back to DefaultLimit.
func NewEngine(rules []Rule, limit int) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &Engine{rules: owned, limit: limit}
}

// Evaluate runs every rule and returns the surviving insights ordered
// by (priority desc, confidence desc), truncated to the engine limit.
// A rule panicking is logged and skipped; it never aborts the cycle.
func (e *Engine) Evaluate(ctx *Context) []models.Insight {
	type ranked struct {
		insight  models.Insight
		priority int
	}

	var results []ranked
	for _, rule := range e.rules {
		if insight := e.evalRule(rule, ctx); insight != nil {
			results = append(results, ranked{insight: *insight, priority: rule.Priority})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].priority != results[j].priority {
			return results[i].priority > results[j].priority
		}
		return results[i].insight.Confidence > results[j].insight.Confidence
	})

	if len(results) > e.limit {
		results = results[:e.limit]
	}
	insights := make([]models.Insight, len(results))
	for i, r := range results {
		insights[i] = r.insight
	}
	return insights
}

func (e *Engine) evalRule(rule Rule, ctx *Context) (insight *models.Insight) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("insight rule failed", "rule", rule.ID, "panic", r)
			insight = nil
		}
	}()

	if !rule.Condition(ctx) {
		return nil
	}
	return rule.Generate(ctx)
}
