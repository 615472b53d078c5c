package tui

import (
	"fmt"
	"time"

	"studyhall/internal/store"
)

// viewState represents the currently active page.
type viewState int

const (
	viewDashboard viewState = iota
	viewChat
	viewPlanner
	viewFlashcards
	viewExams
	viewMood
	viewGroups
	viewSettings
)

var viewNames = []string{"Dashboard", "AI Chat", "Planner", "Flashcards", "Exams", "Mood", "Groups", "Settings"}

// selectView normalizes a page identifier: anything outside the known range
// falls back to the dashboard.
func selectView(v viewState) viewState {
	if v < viewDashboard || v > viewSettings {
		return viewDashboard
	}
	return v
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type moodSavedMsg struct {
	entry *store.MoodEntry
}

type sessionLoggedMsg struct {
	session *store.StudySession
}

type taskCreatedMsg struct {
	task *store.Task
}

type examCreatedMsg struct {
	exam *store.Exam
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMinutes(mins int) string {
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

// daysUntil counts whole days from today's date to the target date.
func daysUntil(today, target time.Time) int {
	t0 := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	t1 := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(t1.Sub(t0).Hours() / 24)
}

func statusLabel(status string) string {
	switch status {
	case store.StatusNotStarted:
		return "not started"
	case store.StatusInProgress:
		return "in progress"
	case store.StatusCompleted:
		return "completed"
	}
	return status
}

func statusDot(status string) string {
	switch status {
	case store.StatusCompleted:
		return successStyle.Render("✓")
	case store.StatusInProgress:
		return warningStyle.Render("●")
	}
	return mutedStyle.Render("○")
}

func priorityLabel(priority string) string {
	switch priority {
	case store.PriorityUrgent:
		return errorStyle.Render("URGENT")
	case store.PriorityHigh:
		return warningStyle.Render("high")
	case store.PriorityMedium:
		return highlightStyle.Render("medium")
	}
	return mutedStyle.Render("low")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
