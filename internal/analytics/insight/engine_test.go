package insight

import (
	"fmt"
	"testing"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/models"
)

var testNow = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC) // Wednesday

func emptyContext() *Context {
	return &Context{
		Snapshot: &models.AnalyticsSnapshot{},
		Now:      testNow,
	}
}

func alwaysRule(id string, priority int, confidence float64) Rule {
	return Rule{
		ID:        id,
		Priority:  priority,
		Condition: func(*Context) bool { return true },
		Generate: func(ctx *Context) *models.Insight {
			i := newInsight(models.InsightTrend, ctx.Now)
			i.Title = id
			i.Confidence = confidence
			return &i
		},
	}
}

func TestEvaluate_OrderingAndTruncation(t *testing.T) {
	var rules []Rule
	for n := 0; n < 12; n++ {
		rules = append(rules, alwaysRule(fmt.Sprintf("rule-%d", n), n%5, float64(n)/12))
	}

	engine := NewEngine(rules, DefaultLimit)
	insights := engine.Evaluate(emptyContext())

	if len(insights) != DefaultLimit {
		t.Fatalf("got %d insights, want %d", len(insights), DefaultLimit)
	}

	priorities := map[string]int{}
	for _, r := range rules {
		priorities[r.ID] = r.Priority
	}
	for i := 1; i < len(insights); i++ {
		prev, cur := insights[i-1], insights[i]
		if priorities[prev.Title] < priorities[cur.Title] {
			t.Errorf("priority order violated at %d: %s before %s", i, prev.Title, cur.Title)
		}
		if priorities[prev.Title] == priorities[cur.Title] && prev.Confidence < cur.Confidence {
			t.Errorf("confidence tiebreak violated at %d", i)
		}
	}
}

func TestEvaluate_PanickingRuleIsSkipped(t *testing.T) {
	bad := Rule{
		ID:        "bad-rule",
		Priority:  100,
		Condition: func(*Context) bool { return true },
		Generate:  func(*Context) *models.Insight { panic("boom") },
	}
	good := alwaysRule("good-rule", 1, 0.5)

	insights := NewEngine([]Rule{bad, good}, DefaultLimit).Evaluate(emptyContext())
	if len(insights) != 1 || insights[0].Title != "good-rule" {
		t.Errorf("expected only good-rule to survive, got %+v", insights)
	}
}

func TestEvaluate_PanickingConditionIsSkipped(t *testing.T) {
	bad := Rule{
		ID:        "bad-condition",
		Priority:  100,
		Condition: func(*Context) bool { panic("boom") },
		Generate:  func(*Context) *models.Insight { return nil },
	}
	insights := NewEngine([]Rule{bad, alwaysRule("ok", 1, 0.5)}, DefaultLimit).Evaluate(emptyContext())
	if len(insights) != 1 {
		t.Errorf("expected 1 insight, got %d", len(insights))
	}
}

func TestEvaluate_NilGenerateIsNotAnError(t *testing.T) {
	declines := Rule{
		ID:        "declines",
		Priority:  100,
		Condition: func(*Context) bool { return true },
		Generate:  func(*Context) *models.Insight { return nil },
	}
	insights := NewEngine([]Rule{declines}, DefaultLimit).Evaluate(emptyContext())
	if len(insights) != 0 {
		t.Errorf("expected no insights, got %d", len(insights))
	}
}
