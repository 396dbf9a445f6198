// Package models defines data structures and domain types.
package models

// TrendDirection is the classified direction of a rollup series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// TrendStrength grades how pronounced a trend is.
type TrendStrength string

const (
	TrendWeak     TrendStrength = "weak"
	TrendModerate TrendStrength = "moderate"
	TrendStrong   TrendStrength = "strong"
)

// TrendSignificance grades how noteworthy a trend is.
type TrendSignificance string

const (
	SignificanceLow    TrendSignificance = "low"
	SignificanceMedium TrendSignificance = "medium"
	SignificanceHigh   TrendSignificance = "high"
)

// TrendResult is an ephemeral classification of one metric's recent
// movement. Slope and Intercept come from a least-squares fit over the
// window and are carried for telemetry; classification is driven by
// ChangePct.
type TrendResult struct {
	Metric       string
	Direction    TrendDirection
	Strength     TrendStrength
	Slope        float64
	Intercept    float64
	ChangePct    float64
	Confidence   float64 // 0-1
	Significance TrendSignificance
	Description  string
}
