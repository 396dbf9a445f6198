package trend

import (
	"math"
	"testing"

	"github.com/tmctyres/unplug-analytics/internal/models"
)

func TestAnalyze_InsufficientData(t *testing.T) {
	if _, ok := Analyze("minutes", []float64{10, 20, 30}, 4); ok {
		t.Error("expected no trend for a series shorter than the window")
	}
	if _, ok := Analyze("minutes", nil, 0); ok {
		t.Error("expected no trend for an empty series")
	}
}

func TestAnalyze_StableWithinTolerance(t *testing.T) {
	// Endpoint delta under 5% is always stable, regardless of scale.
	series := [][]float64{
		{100, 140, 60, 103},
		{1000, 1500, 500, 1030},
		{3, 3, 3, 3},
	}
	for _, s := range series {
		r, ok := Analyze("minutes", s, 4)
		if !ok {
			t.Fatal("expected a result")
		}
		if r.Direction != models.TrendStable || r.Strength != models.TrendWeak || r.Significance != models.SignificanceLow {
			t.Errorf("series %v: got %s/%s/%s, want stable/weak/low", s, r.Direction, r.Strength, r.Significance)
		}
	}
}

func TestAnalyze_Classification(t *testing.T) {
	tests := []struct {
		name         string
		series       []float64
		direction    models.TrendDirection
		strength     models.TrendStrength
		significance models.TrendSignificance
	}{
		{"strong increase", []float64{100, 110, 120, 130}, models.TrendIncreasing, models.TrendStrong, models.SignificanceHigh},
		{"moderate increase", []float64{100, 105, 110, 115}, models.TrendIncreasing, models.TrendModerate, models.SignificanceMedium},
		{"weak increase", []float64{100, 102, 104, 107}, models.TrendIncreasing, models.TrendWeak, models.SignificanceLow},
		{"strong decrease", []float64{130, 120, 110, 90}, models.TrendDecreasing, models.TrendStrong, models.SignificanceHigh},
		{"moderate decrease", []float64{100, 95, 90, 85}, models.TrendDecreasing, models.TrendModerate, models.SignificanceMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Analyze("minutes", tt.series, 4)
			if !ok {
				t.Fatal("expected a result")
			}
			if r.Direction != tt.direction || r.Strength != tt.strength || r.Significance != tt.significance {
				t.Errorf("got %s/%s/%s, want %s/%s/%s",
					r.Direction, r.Strength, r.Significance, tt.direction, tt.strength, tt.significance)
			}
		})
	}
}

func TestAnalyze_WindowSelectsTail(t *testing.T) {
	// Early values must not affect a 4-point window.
	series := []float64{1000, 1, 100, 110, 120, 130}
	r, ok := Analyze("minutes", series, 4)
	if !ok {
		t.Fatal("expected a result")
	}
	if want := 30.0; math.Abs(r.ChangePct-want) > 1e-9 {
		t.Errorf("ChangePct = %f, want %f", r.ChangePct, want)
	}
}

func TestAnalyze_RegressionTelemetry(t *testing.T) {
	r, ok := Analyze("minutes", []float64{10, 20, 30, 40}, 4)
	if !ok {
		t.Fatal("expected a result")
	}
	if math.Abs(r.Slope-10) > 1e-9 {
		t.Errorf("Slope = %f, want 10", r.Slope)
	}
	if math.Abs(r.Intercept-10) > 1e-9 {
		t.Errorf("Intercept = %f, want 10", r.Intercept)
	}
}

func TestAnalyzeProgress_Scenario(t *testing.T) {
	// First half averages 110, second half 135: +22.7%.
	r, ok := AnalyzeProgress("weekly minutes", []float64{100, 120, 90, 180})
	if !ok {
		t.Fatal("expected a result")
	}
	if r.Direction != models.TrendIncreasing {
		t.Errorf("Direction = %s, want increasing", r.Direction)
	}
	if r.Strength != models.TrendStrong {
		t.Errorf("Strength = %s, want strong (>20%%)", r.Strength)
	}
	if r.Significance != models.SignificanceHigh {
		t.Errorf("Significance = %s, want high (>15%%)", r.Significance)
	}
	if math.Abs(r.ChangePct-250.0/11.0) > 0.1 {
		t.Errorf("ChangePct = %f, want ≈22.7", r.ChangePct)
	}
}

func TestAnalyzeProgress_InsufficientData(t *testing.T) {
	if _, ok := AnalyzeProgress("weekly minutes", []float64{100, 120, 90}); ok {
		t.Error("expected no trend with fewer than 4 points")
	}
}

func TestConfidence(t *testing.T) {
	r, _ := Analyze("minutes", []float64{1, 2, 3, 4}, 4)
	if want := 4.0 / 6.0; math.Abs(r.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %f, want %f", r.Confidence, want)
	}
	r, _ = Analyze("minutes", []float64{1, 2, 3, 4, 5, 6, 7, 8}, 8)
	if r.Confidence != 1 {
		t.Errorf("Confidence = %f, want capped at 1", r.Confidence)
	}
}
