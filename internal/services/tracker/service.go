// Package tracker ingests the session log file into the store and
// raises the analytics trigger signals.
package tracker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tmctyres/unplug-analytics/internal/db"
	"github.com/tmctyres/unplug-analytics/internal/logger"
	"github.com/tmctyres/unplug-analytics/internal/models"
)

// EventType defines the type of tracker event.
type EventType int

const (
	EventSessionRecorded EventType = iota
	EventDataChanged
	EventError
)

// Event represents a tracker service event.
type Event struct {
	Type  EventType
	Note  *models.SessionNote
	Error error
}

// logEntry is one JSON line appended to the session log by the
// recording client.
type logEntry struct {
	Timestamp       time.Time `json:"timestamp"`
	DurationMinutes int       `json:"durationMinutes"`
	GoalID          string    `json:"goalId,omitempty"`
	Mood            string    `json:"mood,omitempty"`
	Activities      []string  `json:"activities,omitempty"`
	GoalAchieved    bool      `json:"goalAchieved,omitempty"`
}

// Service tails a JSON-lines session log, folds new entries into the
// store, and keeps the streak counter current.
type Service struct {
	mu            sync.Mutex
	db            *db.DB
	filePath      string
	offset        int64
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates the tracker, ingests any backlog, and starts watching
// the log file.
func New(database *db.DB, filePath string) (*Service, error) {
	s := &Service{
		db:        database,
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create the log file if the recording client has not yet
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to create session log: %w", err)
		}
		_ = f.Close()
	}

	offset, err := database.SessionLogOffset()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingest offset: %w", err)
	}
	s.offset = offset

	// Ingest whatever accumulated while we were not running
	if _, err := s.ingestNew(); err != nil {
		return nil, fmt.Errorf("failed to ingest session backlog: %w", err)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	return s, nil
}

// Events returns the event channel for subscribing to session ingestion.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Path returns the watched session log path.
func (s *Service) Path() string {
	return s.filePath
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation/rotation)
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our log file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid appends
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange ingests newly appended entries and raises triggers.
func (s *Service) handleFileChange() {
	notes, err := s.ingestNew()
	if err != nil {
		logger.Error("failed to ingest session log", "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	if len(notes) == 0 {
		return
	}

	for i := range notes {
		s.sendEvent(Event{Type: EventSessionRecorded, Note: &notes[i]})
	}
	s.sendEvent(Event{Type: EventDataChanged})
}

// ingestNew reads entries past the last ingested offset, records them,
// and updates the streak counter. A shrunken file is treated as a
// rotation and re-read from the start.
func (s *Service) ingestNew() ([]models.SessionNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat session log: %w", err)
	}
	if info.Size() < s.offset {
		logger.Warn("session log shrank, re-reading from start",
			"size", info.Size(), "offset", s.offset)
		s.offset = 0
	}
	if info.Size() == s.offset {
		return nil, nil
	}

	if _, err := f.Seek(s.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek session log: %w", err)
	}

	var notes []models.SessionNote
	consumed := s.offset
	reader := bufio.NewReader(f)
	for {
		// ReadBytes returns the delimiter when present, so consumed
		// tracks exactly what was read even when the final line has no
		// trailing newline.
		line, readErr := reader.ReadBytes('\n')
		consumed += int64(len(line))

		trimmed := bytes.TrimRight(line, "\r\n")
		if len(trimmed) > 0 {
			var entry logEntry
			if err := json.Unmarshal(trimmed, &entry); err != nil {
				logger.Warn("skipping malformed session log line", "error", err)
			} else {
				note := models.SessionNote{
					Timestamp:       entry.Timestamp,
					DurationMinutes: entry.DurationMinutes,
					GoalID:          entry.GoalID,
					Mood:            entry.Mood,
					Activities:      entry.Activities,
					GoalAchieved:    entry.GoalAchieved,
				}
				if err := s.db.RecordSession(&note); err != nil {
					return nil, err
				}
				notes = append(notes, note)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read session log: %w", readErr)
		}
	}

	s.offset = consumed
	if err := s.db.SetSessionLogOffset(consumed); err != nil {
		return nil, err
	}

	if len(notes) > 0 {
		if err := s.updateStreak(notes[len(notes)-1].Timestamp); err != nil {
			logger.Error("failed to update streak", "error", err)
		}
	}

	return notes, nil
}

// updateStreak recounts consecutive active days ending at the given
// day and persists the result.
func (s *Service) updateStreak(latest time.Time) error {
	if latest.IsZero() {
		latest = time.Now()
	}
	from := latest.AddDate(0, 0, -120)

	days, err := s.db.LoadDailyStats(from, latest)
	if err != nil {
		return err
	}

	active := make(map[string]bool, len(days))
	for _, d := range days {
		if d.TotalMinutes > 0 {
			active[d.Date.Format("2006-01-02")] = true
		}
	}

	streak := 0
	for day := latest; active[day.Format("2006-01-02")]; day = day.AddDate(0, 0, -1) {
		streak++
	}

	return s.db.SetCurrentStreak(streak)
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
