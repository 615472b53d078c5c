package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMood is returned when a mood score falls outside [0, 10].
var ErrInvalidMood = errors.New("mood score must be between 0 and 10")

// AppendMood appends a mood entry for the given day. The log is append-only:
// a second entry for the same day is a new row, not an update.
func (s *Store) AppendMood(date time.Time, score int) (*MoodEntry, error) {
	if score < 0 || score > 10 {
		return nil, ErrInvalidMood
	}
	res, err := s.db.Exec(
		`INSERT INTO mood_entries (entry_date, mood_score) VALUES (?, ?)`,
		date.Format(dateFormat), score,
	)
	if err != nil {
		return nil, fmt.Errorf("insert mood: %w", err)
	}
	id, _ := res.LastInsertId()
	return &MoodEntry{ID: id, Date: date, Score: score}, nil
}

// MoodHistory returns all mood entries in append order.
func (s *Store) MoodHistory() ([]MoodEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, entry_date, mood_score FROM mood_entries ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	defer rows.Close()

	var entries []MoodEntry
	for rows.Next() {
		var e MoodEntry
		var date string
		if err := rows.Scan(&e.ID, &date, &e.Score); err != nil {
			return nil, err
		}
		e.Date, _ = time.Parse(dateFormat, date)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestMood returns the most recently appended entry, or nil when the log
// is empty.
func (s *Store) LatestMood() (*MoodEntry, error) {
	e := &MoodEntry{}
	var date string
	err := s.db.QueryRow(
		`SELECT id, entry_date, mood_score FROM mood_entries ORDER BY id DESC LIMIT 1`,
	).Scan(&e.ID, &date, &e.Score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest mood: %w", err)
	}
	e.Date, _ = time.Parse(dateFormat, date)
	return e, nil
}
