package store

import "time"

// Task status values.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Flashcard difficulty values.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Task struct {
	ID                int64
	Title             string
	Subject           string
	DueDate           time.Time // date precision
	Status            string
	EstimatedDuration int // minutes
	Priority          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Exam struct {
	ID       int64
	Subject  string
	ExamName string
	ExamDate time.Time // date precision
}

type MoodEntry struct {
	ID    int64
	Date  time.Time // date precision
	Score int       // 0..10
}

type Flashcard struct {
	ID           int64
	Front        string
	Back         string
	Subject      string
	DeckName     string
	Difficulty   string
	ReviewCount  int
	SuccessCount int
}

type StudySession struct {
	ID                 int64
	Subject            string
	StartedAt          time.Time
	DurationMinutes    int
	ProductivityRating int // 1..5
}

type Setting struct {
	Key   string
	Value string
}

// WeekSummary aggregates study sessions for one week.
type WeekSummary struct {
	TotalMinutes    int
	SessionCount    int
	AvgProductivity float64
}

// TaskCounts are the dashboard's task tallies.
type TaskCounts struct {
	DueToday   int // due today, excluding completed
	Completed  int
	InProgress int
}
