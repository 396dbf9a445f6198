package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmctyres/unplug-analytics/internal/models"
	"github.com/tmctyres/unplug-analytics/internal/services"
	"github.com/tmctyres/unplug-analytics/internal/ui/components"
	"github.com/tmctyres/unplug-analytics/internal/ui/styles"
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.snapshot == nil {
		return m.renderLoading()
	}

	rollups := m.analytics.RollupsForTimeRange(m.timeRange)

	var sections []string
	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderSummary(rollups))
	sections = append(sections, m.renderActivityChart(rollups))
	sections = append(sections, m.renderPatterns(rollups))
	sections = append(sections, m.renderTrends())
	sections = append(sections, m.renderComparison())
	sections = append(sections, m.renderBests())
	sections = append(sections, m.renderInsights())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

// renderTitle renders the dashboard title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Unplug Analytics")
	subtitle := styles.HelpStyle.Render("Your offline time at a glance")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

// renderSummary renders the headline totals for the selected range.
func (m *Model) renderSummary(rollups []models.DailyRollup) string {
	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s  %s",
		titleIcon,
		styles.CardTitleStyle.Render("Overview"),
		styles.HelpStyle.Render("("+m.timeRange.String()+")"),
	))
	rows = append(rows, "")

	totalMinutes := 0
	totalSessions := 0
	totalGoals := 0
	activeDays := 0
	for _, r := range rollups {
		totalMinutes += r.TotalMinutes
		totalSessions += r.SessionCount
		totalGoals += r.GoalCompletions
		if r.TotalMinutes > 0 {
			activeDays++
		}
	}

	rows = append(rows, fmt.Sprintf("  Offline time    %s", styles.SuccessTextStyle.Render(formatMinutes(totalMinutes))))
	rows = append(rows, fmt.Sprintf("  Sessions        %d", totalSessions))
	rows = append(rows, fmt.Sprintf("  Goals completed %d", totalGoals))
	rows = append(rows, fmt.Sprintf("  Active days     %d of %d", activeDays, len(rollups)))

	streak := fmt.Sprintf("🔥 %d day streak", m.snapshot.CurrentStreak)
	if m.snapshot.CurrentStreak == 1 {
		streak = "🔥 1 day streak"
	}
	rows = append(rows, "")
	rows = append(rows, "  "+styles.StreakStyle.Render(streak))

	if weekly := m.snapshot.LatestWeekly(); weekly != nil {
		score := weekly.Patterns.ConsistencyScore
		rows = append(rows, fmt.Sprintf("  Consistency     %s",
			styles.GetConsistencyStyle(score).Render(fmt.Sprintf("%d/100", score))))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderActivityChart renders daily minutes for the range, overlaid
// with the equal-length window before it when one exists.
func (m *Model) renderActivityChart(rollups []models.DailyRollup) string {
	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Info).Render("◢")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Daily Minutes")))
	rows = append(rows, "")

	if len(rollups) < 2 {
		rows = append(rows, styles.HelpStyle.Render("  Not enough days yet. Keep unplugging!"))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	minutes := make([]float64, len(rollups))
	for i, r := range rollups {
		minutes[i] = float64(r.TotalMinutes)
	}

	chartWidth := max(m.cardWidth()-16, 20)
	if previous := m.previousWindowMinutes(rollups); len(previous) >= 2 {
		rows = append(rows, components.RenderDualLineChart(minutes, previous, chartWidth, 8, "minutes per day"))
		rows = append(rows, "")
		rows = append(rows, "  "+components.RenderLegend([]components.LegendItem{
			{Label: "This period", Color: styles.Success},
			{Label: "Previous period", Color: styles.Info},
		}))
	} else {
		rows = append(rows, components.RenderLineChart(minutes, chartWidth, 8, "minutes per day"))
	}
	rows = append(rows, "")
	rows = append(rows, "  "+components.RenderColoredSparkline(minutes, min(len(minutes), chartWidth)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// previousWindowMinutes returns the daily minutes for the window of
// the same length immediately before the displayed rollups.
func (m *Model) previousWindowMinutes(rollups []models.DailyRollup) []float64 {
	days := m.timeRange.Days()
	if days <= 0 || len(rollups) == 0 {
		return nil
	}

	start := rollups[0].Date
	prev := m.analytics.RollupsInRange(start.AddDate(0, 0, -days), start.AddDate(0, 0, -1))
	out := make([]float64, 0, len(prev))
	for _, r := range prev {
		out = append(out, float64(r.TotalMinutes))
	}
	return out
}

// renderPatterns renders hour-of-day and day-of-week activity shapes
// plus the mined behavior patterns.
func (m *Model) renderPatterns(rollups []models.DailyRollup) string {
	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Secondary).Render("◍")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("When You Unplug")))
	rows = append(rows, "")

	hourly := make([]float64, 24)
	weekday := make([]float64, 7)
	for _, r := range rollups {
		for h, slot := range r.HourlyDistribution {
			hourly[h] += float64(slot.Minutes)
		}
		// Monday-first index
		idx := (int(r.Date.Weekday()) + 6) % 7
		weekday[idx] += float64(r.TotalMinutes)
	}

	rows = append(rows, "  "+components.RenderHourlyHeatmap(hourly))
	rows = append(rows, "")
	rows = append(rows, "  "+components.RenderWeeklyPattern(weekday, nil))

	if len(m.snapshot.Patterns) > 0 {
		rows = append(rows, "")
		for _, p := range m.snapshot.Patterns {
			if line := describePattern(p); line != "" {
				rows = append(rows, "  "+styles.ListItemStyle.Render(line))
			}
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderTrends renders metric trends and weekly progress.
func (m *Model) renderTrends() string {
	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Info).Render("↗")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Trends")))
	rows = append(rows, "")

	hasAny := false
	for _, metric := range []string{"minutes", "sessions", "consistency"} {
		result, ok := m.analytics.Trend(metric, m.timeRange)
		if !ok {
			continue
		}
		hasAny = true
		rows = append(rows, "  "+renderTrendLine(result))
	}

	if progress, ok := m.analytics.WeeklyProgress(); ok {
		hasAny = true
		rows = append(rows, "  "+renderTrendLine(progress))
	}

	if weekly := weeklyMinutes(m.snapshot.Weekly); len(weekly) >= 2 {
		rows = append(rows, "")
		rows = append(rows, "  "+styles.HelpStyle.Render("week by week  ")+
			components.RenderSparkline(weekly, len(weekly)))
	}

	if !hasAny {
		rows = append(rows, styles.HelpStyle.Render("  Trends appear after a few days of data."))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderComparison renders the week-over-week comparison.
func (m *Model) renderComparison() string {
	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("⇄")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("This Week vs Last Week")))
	rows = append(rows, "")

	comparison, ok := m.analytics.Compare("weekly")
	if !ok {
		rows = append(rows, styles.HelpStyle.Render("  Needs two weeks of history."))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	deltaStyle := styles.TrendStableStyle
	arrow := "→"
	if comparison.MinutesChangePct > 0 {
		deltaStyle = styles.TrendUpStyle
		arrow = "↑"
	} else if comparison.MinutesChangePct < 0 {
		deltaStyle = styles.TrendDownStyle
		arrow = "↓"
	}

	rows = append(rows, fmt.Sprintf("  %s vs %s  %s",
		formatMinutes(comparison.CurrentMinutes),
		formatMinutes(comparison.PreviousMinutes),
		deltaStyle.Render(fmt.Sprintf("%s %+.0f%%", arrow, comparison.MinutesChangePct)),
	))

	for _, insight := range comparison.Insights {
		rows = append(rows, "  "+styles.ListItemStyle.Render("• "+insight))
	}

	// Recent weeks as bars, oldest first
	recent := m.snapshot.Weekly
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	if len(recent) >= 2 {
		values := make([]float64, len(recent))
		labels := make([]string, len(recent))
		for i, w := range recent {
			values[i] = float64(w.TotalMinutes)
			labels[i] = w.WeekStart.Format("Jan 2")
		}
		rows = append(rows, "")
		rows = append(rows, components.RenderBarChart(values, labels, m.cardWidth()-4))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderBests renders the personal best records.
func (m *Model) renderBests() string {
	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Warning).Render("★")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Personal Bests")))
	rows = append(rows, "")

	if len(m.snapshot.PersonalBests) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No records yet. Your first session sets the bar."))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	records := append([]models.PersonalBestRecord(nil), m.snapshot.PersonalBests...)
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})

	for _, r := range records {
		rows = append(rows, "  "+renderBestLine(r))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderInsights renders the generated insight list.
func (m *Model) renderInsights() string {
	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Secondary).Render("✦")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Insights")))
	rows = append(rows, "")

	if len(m.snapshot.Insights) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Insights appear as your history grows."))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	for _, ins := range m.snapshot.Insights {
		marker := "•"
		if ins.Actionable {
			marker = styles.InsightActionableStyle.Render("▸")
		}
		rows = append(rows, fmt.Sprintf("  %s %s", marker, lipgloss.NewStyle().Bold(true).Render(ins.Title)))
		rows = append(rows, "    "+styles.HelpStyle.Render(ins.Description))
		if ins.Actionable && ins.Recommendation != "" {
			rows = append(rows, "    "+styles.InsightActionableStyle.Render("→ "+ins.Recommendation))
		}
		rows = append(rows, "")
	}

	// Trim trailing blank line
	if len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderTrendLine(t models.TrendResult) string {
	var style lipgloss.Style
	var arrow string
	switch t.Direction {
	case models.TrendIncreasing:
		style = styles.TrendUpStyle
		arrow = "↑"
	case models.TrendDecreasing:
		style = styles.TrendDownStyle
		arrow = "↓"
	default:
		style = styles.TrendStableStyle
		arrow = "→"
	}

	label := fmt.Sprintf("%-16s", metricLabel(t.Metric))
	return fmt.Sprintf("%s %s  %s",
		label,
		style.Render(fmt.Sprintf("%s %+.0f%%", arrow, t.ChangePct)),
		styles.HelpStyle.Render(t.Description),
	)
}

func renderBestLine(r models.PersonalBestRecord) string {
	style := styles.BestMinorStyle
	prefix := "·"
	if r.Improvement > 50 {
		style = styles.BestMilestoneStyle
		prefix = "◆"
	} else if r.Improvement > 20 {
		style = styles.BestMajorStyle
		prefix = "▲"
	}

	value := fmt.Sprintf("%.0f %s", r.Value, r.Unit)
	line := fmt.Sprintf("%s %-22s %s", prefix, services.CategoryTitle(r.Category), style.Render(value))
	if r.PreviousBest != nil {
		line += styles.HelpStyle.Render(fmt.Sprintf("  (+%.0f%% over %.0f)", r.Improvement, r.PreviousBest.Value))
	}
	return line
}

func describePattern(p models.BehaviorPattern) string {
	switch p.Type {
	case models.PatternTimePreference:
		if len(p.PreferredHours) == 0 {
			return ""
		}
		return fmt.Sprintf("You unplug most around %s", formatHours(p.PreferredHours))
	case models.PatternDurationPreference:
		if p.Duration.Average <= 0 {
			return ""
		}
		return fmt.Sprintf("Your sessions average %.0f minutes", p.Duration.Average)
	case models.PatternActivityPreference:
		if len(p.TopActivities) == 0 {
			return ""
		}
		return "Favorite activities: " + strings.Join(p.TopActivities, ", ")
	case models.PatternGoalPreference:
		if len(p.TopGoals) == 0 {
			return ""
		}
		return "Goals you come back to: " + strings.Join(p.TopGoals, ", ")
	default:
		return ""
	}
}

func weeklyMinutes(weekly []models.WeeklyRollup) []float64 {
	out := make([]float64, 0, len(weekly))
	for _, w := range weekly {
		out = append(out, float64(w.TotalMinutes))
	}
	return out
}

func metricLabel(metric string) string {
	switch metric {
	case "minutes":
		return "Offline minutes"
	case "sessions":
		return "Sessions"
	case "consistency":
		return "Consistency"
	case "weekly minutes":
		return "Weekly progress"
	default:
		return metric
	}
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}

func formatHours(hours []int) string {
	var parts []string
	for _, h := range hours {
		t := time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC)
		parts = append(parts, t.Format("3pm"))
	}
	return strings.Join(parts, ", ")
}
