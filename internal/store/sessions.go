package store

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRating is returned when a productivity rating falls outside [1, 5].
var ErrInvalidRating = errors.New("productivity rating must be between 1 and 5")

func (s *Store) LogSession(subject string, startedAt time.Time, durationMinutes, rating int) (*StudySession, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	res, err := s.db.Exec(
		`INSERT INTO study_sessions (subject, started_at, duration_minutes, productivity_rating) VALUES (?, ?, ?, ?)`,
		subject, startedAt.UTC().Format(time.RFC3339), durationMinutes, rating,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, _ := res.LastInsertId()
	return &StudySession{
		ID:                 id,
		Subject:            subject,
		StartedAt:          startedAt.UTC(),
		DurationMinutes:    durationMinutes,
		ProductivityRating: rating,
	}, nil
}

// WeekSummary aggregates sessions started on or after weekStart and before
// weekStart+7d. AvgProductivity is 0 when the week has no sessions.
func (s *Store) WeekSummary(weekStart time.Time) (WeekSummary, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)

	var sum WeekSummary
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(duration_minutes), 0), COUNT(*),
		       COALESCE(AVG(productivity_rating), 0)
		FROM study_sessions
		WHERE started_at >= ? AND started_at < ?`,
		weekStart.UTC().Format(time.RFC3339), weekEnd.UTC().Format(time.RFC3339),
	).Scan(&sum.TotalMinutes, &sum.SessionCount, &sum.AvgProductivity)
	if err != nil {
		return WeekSummary{}, fmt.Errorf("week summary: %w", err)
	}
	return sum, nil
}

// WeekStart returns the most recent week boundary at or before the given
// day, honoring the week_start setting (monday by default, sunday
// otherwise). The result is midnight UTC of that day.
func (s *Store) WeekStart(now time.Time) time.Time {
	start := s.WeekBeginsOn()

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) - int(start) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
