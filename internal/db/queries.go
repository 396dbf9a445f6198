package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tmctyres/unplug-analytics/internal/logger"
	"github.com/tmctyres/unplug-analytics/internal/models"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "2006-01-02 15:04:05"
)

// RecordSession appends a session note and folds it into the daily totals
// for the note's calendar day. Runs in a single transaction.
func (db *DB) RecordSession(note *models.SessionNote) error {
	timestamp := note.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	day := timestamp.Format(dateFormat)

	activities, err := marshalActivities(note.Activities)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(context.Background(), `
		INSERT INTO session_notes (date, timestamp, duration_minutes, goal_id, mood, activities, goal_achieved)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		day,
		timestamp.Format(timeFormat),
		note.DurationMinutes,
		nullString(note.GoalID),
		nullString(note.Mood),
		activities,
		boolToInt(note.GoalAchieved),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session note: %w", err)
	}

	goalCompleted := 0
	if note.GoalAchieved {
		goalCompleted = 1
	}

	_, err = tx.ExecContext(context.Background(), `
		INSERT INTO daily_stats (date, total_minutes, session_count, goal_completions)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_minutes = total_minutes + excluded.total_minutes,
			session_count = session_count + 1,
			goal_completions = goal_completions + excluded.goal_completions
	`, day, note.DurationMinutes, goalCompleted)
	if err != nil {
		return fmt.Errorf("failed to update daily stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// UpsertDailyStats writes a full daily record, replacing any existing
// totals for the same date. Notes are not touched.
func (db *DB) UpsertDailyStats(stats *models.DailyStats) error {
	query := `
		INSERT INTO daily_stats (
			date, total_minutes, session_count, goal_completions,
			xp_earned, achievements_unlocked, streak_day
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_minutes = excluded.total_minutes,
			session_count = excluded.session_count,
			goal_completions = excluded.goal_completions,
			xp_earned = excluded.xp_earned,
			achievements_unlocked = excluded.achievements_unlocked,
			streak_day = excluded.streak_day
	`

	_, err := db.ExecContext(context.Background(), query,
		stats.Date.Format(dateFormat),
		stats.TotalMinutes,
		stats.SessionCount,
		stats.GoalCompletions,
		stats.XPEarned,
		stats.AchievementsUnlocked,
		stats.StreakDay,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}
	return nil
}

// LoadDailyStats returns daily records between from and to inclusive,
// oldest first, with session notes attached.
func (db *DB) LoadDailyStats(from, to time.Time) ([]models.DailyStats, error) {
	query := `
		SELECT date, total_minutes, session_count, goal_completions,
			   xp_earned, achievements_unlocked, streak_day
		FROM daily_stats
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := db.QueryContext(context.Background(), query,
		from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var days []models.DailyStats
	for rows.Next() {
		var d models.DailyStats
		var dateStr string

		err := rows.Scan(
			&dateStr,
			&d.TotalMinutes,
			&d.SessionCount,
			&d.GoalCompletions,
			&d.XPEarned,
			&d.AchievementsUnlocked,
			&d.StreakDay,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}

		d.Date, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", dateStr, err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		notes, err := db.loadSessionNotes(days[i].Date)
		if err != nil {
			return nil, err
		}
		days[i].Notes = notes
	}

	return days, nil
}

// loadSessionNotes returns the notes recorded on one calendar day,
// oldest first.
func (db *DB) loadSessionNotes(day time.Time) ([]models.SessionNote, error) {
	query := `
		SELECT timestamp, duration_minutes, goal_id, mood, activities, goal_achieved
		FROM session_notes
		WHERE date = ?
		ORDER BY timestamp ASC
	`

	rows, err := db.QueryContext(context.Background(), query, day.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query session notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notes []models.SessionNote
	for rows.Next() {
		var n models.SessionNote
		var tsStr string
		var goalID, mood, activities sql.NullString
		var achieved int

		if err := rows.Scan(&tsStr, &n.DurationMinutes, &goalID, &mood, &activities, &achieved); err != nil {
			return nil, fmt.Errorf("failed to scan session note: %w", err)
		}

		n.Timestamp, _ = time.Parse(timeFormat, tsStr)
		n.GoalID = goalID.String
		n.Mood = mood.String
		n.GoalAchieved = achieved != 0
		if activities.Valid && activities.String != "" {
			if err := json.Unmarshal([]byte(activities.String), &n.Activities); err != nil {
				logger.Warn("skipping malformed activities column", "error", err)
			}
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// CurrentStreak returns the persisted streak counter, 0 when unset.
func (db *DB) CurrentStreak() (int, error) {
	var value string
	err := db.QueryRowContext(context.Background(),
		"SELECT value FROM meta WHERE key = 'current_streak'").Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read current streak: %w", err)
	}

	streak, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse current streak %q: %w", value, err)
	}
	return streak, nil
}

// SetCurrentStreak persists the streak counter.
func (db *DB) SetCurrentStreak(streak int) error {
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO meta (key, value) VALUES ('current_streak', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, strconv.Itoa(streak))
	if err != nil {
		return fmt.Errorf("failed to set current streak: %w", err)
	}
	return nil
}

// SessionLogOffset returns the byte offset of the last ingested
// session-log entry, 0 when unset.
func (db *DB) SessionLogOffset() (int64, error) {
	var value string
	err := db.QueryRowContext(context.Background(),
		"SELECT value FROM meta WHERE key = 'session_log_offset'").Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read session log offset: %w", err)
	}

	offset, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse session log offset %q: %w", value, err)
	}
	return offset, nil
}

// SetSessionLogOffset persists the ingestion offset.
func (db *DB) SetSessionLogOffset(offset int64) error {
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO meta (key, value) VALUES ('session_log_offset', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, strconv.FormatInt(offset, 10))
	if err != nil {
		return fmt.Errorf("failed to set session log offset: %w", err)
	}
	return nil
}

// LoadPersonalBests returns all persisted best records keyed by category.
func (db *DB) LoadPersonalBests() (map[models.BestCategory]models.PersonalBestRecord, error) {
	query := `
		SELECT category, id, value, unit, achieved_at,
			   previous_value, previous_date, improvement
		FROM personal_bests
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query personal bests: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	records := make(map[models.BestCategory]models.PersonalBestRecord)
	for rows.Next() {
		var r models.PersonalBestRecord
		var category, achievedAt string
		var unit sql.NullString
		var prevValue sql.NullFloat64
		var prevDate sql.NullString

		err := rows.Scan(&category, &r.ID, &r.Value, &unit, &achievedAt,
			&prevValue, &prevDate, &r.Improvement)
		if err != nil {
			return nil, fmt.Errorf("failed to scan personal best: %w", err)
		}

		r.Category = models.BestCategory(category)
		r.Unit = unit.String
		r.Date, _ = time.Parse(timeFormat, achievedAt)
		if prevValue.Valid {
			prev := models.PreviousBest{Value: prevValue.Float64}
			if prevDate.Valid {
				prev.Date, _ = time.Parse(timeFormat, prevDate.String)
			}
			r.PreviousBest = &prev
		}
		records[r.Category] = r
	}

	return records, rows.Err()
}

// SavePersonalBests upserts the given best records by category.
func (db *DB) SavePersonalBests(records map[models.BestCategory]models.PersonalBestRecord) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range records {
		var prevValue sql.NullFloat64
		var prevDate sql.NullString
		if r.PreviousBest != nil {
			prevValue = sql.NullFloat64{Float64: r.PreviousBest.Value, Valid: true}
			prevDate = sql.NullString{String: r.PreviousBest.Date.Format(timeFormat), Valid: true}
		}

		_, err := tx.ExecContext(context.Background(), `
			INSERT INTO personal_bests (
				category, id, value, unit, achieved_at,
				previous_value, previous_date, improvement
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(category) DO UPDATE SET
				id = excluded.id,
				value = excluded.value,
				unit = excluded.unit,
				achieved_at = excluded.achieved_at,
				previous_value = excluded.previous_value,
				previous_date = excluded.previous_date,
				improvement = excluded.improvement
		`,
			string(r.Category),
			r.ID,
			r.Value,
			nullString(r.Unit),
			r.Date.Format(timeFormat),
			prevValue,
			prevDate,
			r.Improvement,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert personal best %s: %w", r.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit personal bests: %w", err)
	}
	return nil
}

func marshalActivities(activities []string) (sql.NullString, error) {
	if len(activities) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(activities)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal activities: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
