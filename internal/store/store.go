package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// dateFormat is the TEXT format for date-precision columns.
const dateFormat = "2006-01-02"

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		title              TEXT NOT NULL,
		subject            TEXT NOT NULL,
		due_date           TEXT NOT NULL,
		status             TEXT NOT NULL DEFAULT 'not_started',
		estimated_duration INTEGER NOT NULL DEFAULT 0,
		priority           TEXT NOT NULL DEFAULT 'medium',
		created_at         TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at         TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date);

	CREATE TABLE IF NOT EXISTS exams (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		subject   TEXT NOT NULL,
		exam_name TEXT NOT NULL,
		exam_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exams_date ON exams(exam_date);

	CREATE TABLE IF NOT EXISTS mood_entries (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_date TEXT NOT NULL,
		mood_score INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS flashcards (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		front         TEXT NOT NULL,
		back          TEXT NOT NULL,
		subject       TEXT NOT NULL,
		deck_name     TEXT NOT NULL,
		difficulty    TEXT NOT NULL DEFAULT 'medium',
		review_count  INTEGER NOT NULL DEFAULT 0,
		success_count INTEGER NOT NULL DEFAULT 0,
		CHECK (success_count <= review_count)
	);

	CREATE INDEX IF NOT EXISTS idx_flashcards_deck ON flashcards(deck_name);

	CREATE TABLE IF NOT EXISTS study_sessions (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		subject             TEXT NOT NULL,
		started_at          TEXT NOT NULL,
		duration_minutes    INTEGER NOT NULL DEFAULT 0,
		productivity_rating INTEGER NOT NULL DEFAULT 3
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON study_sessions(started_at);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('week_start', 'monday');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Seed inserts the sample dataset used on first run. It is a no-op when the
// tasks table already has rows, so opening an existing database never
// duplicates data. Dates are placed relative to now so the dashboard has
// something due today and exams to count down to.
func (s *Store) Seed(now time.Time) error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if n > 0 {
		return nil
	}

	today := now.Format(dateFormat)
	tomorrow := now.AddDate(0, 0, 1).Format(dateFormat)

	tasks := []struct {
		title, subject, due, status, priority string
		duration                              int
	}{
		{"Finish Math HW", "Mathematics", today, StatusInProgress, PriorityUrgent, 45},
		{"Biology Revision", "Biology", today, StatusCompleted, PriorityHigh, 60},
		{"Read English Novel", "English", tomorrow, StatusInProgress, PriorityMedium, 30},
	}
	for _, t := range tasks {
		if _, err := s.db.Exec(
			`INSERT INTO tasks (title, subject, due_date, status, estimated_duration, priority) VALUES (?, ?, ?, ?, ?, ?)`,
			t.title, t.subject, t.due, t.status, t.duration, t.priority,
		); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	exams := []struct {
		subject, name string
		days          int
	}{
		{"Mathematics", "Final Exam", 8},
		{"Physics", "Quiz 2", 16},
	}
	for _, e := range exams {
		if _, err := s.db.Exec(
			`INSERT INTO exams (subject, exam_name, exam_date) VALUES (?, ?, ?)`,
			e.subject, e.name, now.AddDate(0, 0, e.days).Format(dateFormat),
		); err != nil {
			return fmt.Errorf("seed exams: %w", err)
		}
	}

	if _, err := s.db.Exec(
		`INSERT INTO mood_entries (entry_date, mood_score) VALUES (?, ?)`, today, 7,
	); err != nil {
		return fmt.Errorf("seed mood: %w", err)
	}

	cards := []struct {
		front, back, subject, deck, difficulty string
		reviews, successes                     int
	}{
		{"What is Newton's 1st Law?", "An object in motion stays in motion unless acted on by an external force.", "Physics", "Physics Basics", DifficultyMedium, 3, 2},
		{"Define photosynthesis.", "Process by which green plants convert light energy into chemical energy.", "Biology", "Bio", DifficultyEasy, 3, 3},
	}
	for _, c := range cards {
		if _, err := s.db.Exec(
			`INSERT INTO flashcards (front, back, subject, deck_name, difficulty, review_count, success_count) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.front, c.back, c.subject, c.deck, c.difficulty, c.reviews, c.successes,
		); err != nil {
			return fmt.Errorf("seed flashcards: %w", err)
		}
	}

	if _, err := s.db.Exec(
		`INSERT INTO study_sessions (subject, started_at, duration_minutes, productivity_rating) VALUES (?, ?, ?, ?)`,
		"Mathematics", now.Add(-2*time.Hour).UTC().Format(time.RFC3339), 90, 4,
	); err != nil {
		return fmt.Errorf("seed sessions: %w", err)
	}

	return nil
}

// DefaultDBPath returns ~/.config/studyhall/studyhall.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studyhall", "studyhall.db"), nil
}
