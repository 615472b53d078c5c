package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"studyhall/internal/store"
)

// TasksToCSV writes the task list to path as CSV.
func TasksToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Title", "Subject", "Due", "Status", "Priority", "Estimated (min)"}); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Title,
			t.Subject,
			t.DueDate.Format("2006-01-02"),
			t.Status,
			t.Priority,
			fmt.Sprintf("%d", t.EstimatedDuration),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
