// Package trend classifies the recent direction of a rollup series.
//
// Classification is driven by total percentage change across the
// window, not by the regression slope; the least-squares fit is still
// computed and carried on the result for telemetry.
package trend

import (
	"fmt"
	"math"

	"github.com/tmctyres/unplug-analytics/internal/models"
)

// DefaultWindow is the number of trailing points analyzed when the
// caller does not ask for a specific window.
const DefaultWindow = 4

// Analyze classifies the last window points of series. It returns false
// when the series is shorter than the requested window; that is an
// insufficient-data condition, not an error. A window below two points
// falls back to DefaultWindow.
func Analyze(metric string, series []float64, window int) (models.TrendResult, bool) {
	if window < 2 {
		window = DefaultWindow
	}
	if len(series) < window {
		return models.TrendResult{}, false
	}

	recent := series[len(series)-window:]
	slope, intercept := linearRegression(recent)

	first, last := recent[0], recent[len(recent)-1]
	pct := 0.0
	if first != 0 {
		pct = (last - first) / first * 100
	}

	r := models.TrendResult{
		Metric:     metric,
		Slope:      slope,
		Intercept:  intercept,
		ChangePct:  pct,
		Confidence: capRatio(window, 6),
	}
	r.Direction, r.Strength, r.Significance = classify(pct, 25, 10, 20, 10)
	r.Description = describe(metric, r)
	return r, true
}

// AnalyzeProgress is the four-point variant used for weekly progress
// framing: it compares the average of the first half of the last four
// points to the average of the second half, with looser thresholds.
func AnalyzeProgress(metric string, series []float64) (models.TrendResult, bool) {
	if len(series) < DefaultWindow {
		return models.TrendResult{}, false
	}

	recent := series[len(series)-DefaultWindow:]
	slope, intercept := linearRegression(recent)

	firstHalf := (recent[0] + recent[1]) / 2
	secondHalf := (recent[2] + recent[3]) / 2
	pct := 0.0
	if firstHalf != 0 {
		pct = (secondHalf - firstHalf) / firstHalf * 100
	}

	r := models.TrendResult{
		Metric:     metric,
		Slope:      slope,
		Intercept:  intercept,
		ChangePct:  pct,
		Confidence: capRatio(DefaultWindow, 6),
	}
	r.Direction, r.Strength, r.Significance = classify(pct, 20, 10, 15, 8)
	r.Description = describe(metric, r)
	return r, true
}

// classify maps a percentage change onto the direction, strength and
// significance tiers. Anything within ±5% is stable/weak/low.
func classify(pct, strongAt, moderateAt, highAt, mediumAt float64) (models.TrendDirection, models.TrendStrength, models.TrendSignificance) {
	abs := math.Abs(pct)
	if abs < 5 {
		return models.TrendStable, models.TrendWeak, models.SignificanceLow
	}

	direction := models.TrendIncreasing
	if pct < 0 {
		direction = models.TrendDecreasing
	}

	strength := models.TrendWeak
	if abs > strongAt {
		strength = models.TrendStrong
	} else if abs > moderateAt {
		strength = models.TrendModerate
	}

	significance := models.SignificanceLow
	if abs > highAt {
		significance = models.SignificanceHigh
	} else if abs > mediumAt {
		significance = models.SignificanceMedium
	}

	return direction, strength, significance
}

func describe(metric string, r models.TrendResult) string {
	switch r.Direction {
	case models.TrendIncreasing:
		return fmt.Sprintf("%s is up %.0f%% over the recent window", metric, r.ChangePct)
	case models.TrendDecreasing:
		return fmt.Sprintf("%s is down %.0f%% over the recent window", metric, -r.ChangePct)
	default:
		return fmt.Sprintf("%s is holding steady", metric)
	}
}

// linearRegression fits y = slope*x + intercept over indices 0..n-1.
func linearRegression(series []float64) (slope, intercept float64) {
	n := float64(len(series))
	if n == 0 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func capRatio(n, limit int) float64 {
	c := float64(n) / float64(limit)
	if c > 1 {
		return 1
	}
	return c
}
