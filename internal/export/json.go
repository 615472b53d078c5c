package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"studyhall/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Tasks      []jsonTask `json:"tasks"`
	Mood       []jsonMood `json:"mood"`
}

type jsonTask struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Subject          string `json:"subject"`
	DueDate          string `json:"due_date"`
	Status           string `json:"status"`
	Priority         string `json:"priority"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

type jsonMood struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// ToJSON writes a snapshot of tasks and the mood log to path.
func ToJSON(tasks []store.Task, moods []store.MoodEntry, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, t := range tasks {
		out.Tasks = append(out.Tasks, jsonTask{
			ID:               t.ID,
			Title:            t.Title,
			Subject:          t.Subject,
			DueDate:          t.DueDate.Format("2006-01-02"),
			Status:           t.Status,
			Priority:         t.Priority,
			EstimatedMinutes: t.EstimatedDuration,
		})
	}
	for _, m := range moods {
		out.Mood = append(out.Mood, jsonMood{
			Date:  m.Date.Format("2006-01-02"),
			Score: m.Score,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
