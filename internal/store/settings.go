package store

import (
	"fmt"
	"time"
)

// Setting keys understood by the settings page.
const (
	SettingWeekStart = "week_start"

	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// GetSettingOr returns the stored value, or fallback when the key is unset.
func (s *Store) GetSettingOr(key, fallback string) string {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	return v
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// WeekBeginsOn reports which weekday opens the study week, per the
// week_start setting. Monday unless the user switched to Sunday.
func (s *Store) WeekBeginsOn() time.Weekday {
	if s.GetSettingOr(SettingWeekStart, WeekStartMonday) == WeekStartSunday {
		return time.Sunday
	}
	return time.Monday
}
