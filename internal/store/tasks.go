package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateTask(title, subject string, due time.Time, priority string, estimatedMinutes int) (*Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, subject, due_date, status, estimated_duration, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title, subject, due.Format(dateFormat), StatusNotStarted, estimatedMinutes, priority, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t := &Task{}
	var due, createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, title, subject, due_date, status, estimated_duration, priority, created_at, updated_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Subject, &due, &t.Status, &t.EstimatedDuration, &t.Priority, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t.DueDate, _ = time.Parse(dateFormat, due)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

// ListTasks returns every task ordered by due date, then insertion order.
func (s *Store) ListTasks() ([]Task, error) {
	return s.queryTasks(`SELECT id, title, subject, due_date, status, estimated_duration, priority, created_at, updated_at
		FROM tasks ORDER BY due_date, id`)
}

// TasksDueOn returns tasks whose due date falls on the given day.
func (s *Store) TasksDueOn(date time.Time) ([]Task, error) {
	return s.queryTasks(`SELECT id, title, subject, due_date, status, estimated_duration, priority, created_at, updated_at
		FROM tasks WHERE due_date = ? ORDER BY id`, date.Format(dateFormat))
}

// TasksInRange returns tasks due between start and end, both inclusive.
func (s *Store) TasksInRange(start, end time.Time) ([]Task, error) {
	return s.queryTasks(`SELECT id, title, subject, due_date, status, estimated_duration, priority, created_at, updated_at
		FROM tasks WHERE due_date >= ? AND due_date <= ? ORDER BY due_date, id`,
		start.Format(dateFormat), end.Format(dateFormat))
}

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var due, createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.Title, &t.Subject, &due, &t.Status, &t.EstimatedDuration, &t.Priority, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		t.DueDate, _ = time.Parse(dateFormat, due)
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// AdvanceTaskStatus cycles a task not_started -> in_progress -> completed ->
// not_started and returns the updated task.
func (s *Store) AdvanceTaskStatus(id int64) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	var next string
	switch t.Status {
	case StatusNotStarted:
		next = StatusInProgress
	case StatusInProgress:
		next = StatusCompleted
	default:
		next = StatusNotStarted
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, next, now, id,
	); err != nil {
		return nil, fmt.Errorf("advance task %d: %w", id, err)
	}
	return s.GetTask(id)
}

// TaskCounts tallies dashboard task metrics. DueToday excludes completed
// tasks; Completed and InProgress count the whole collection.
func (s *Store) TaskCounts(today time.Time) (TaskCounts, error) {
	var c TaskCounts
	err := s.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN due_date = ? AND status != ? THEN 1 END),
			COUNT(CASE WHEN status = ? THEN 1 END),
			COUNT(CASE WHEN status = ? THEN 1 END)
		FROM tasks`,
		today.Format(dateFormat), StatusCompleted, StatusCompleted, StatusInProgress,
	).Scan(&c.DueToday, &c.Completed, &c.InProgress)
	if err != nil {
		return TaskCounts{}, fmt.Errorf("task counts: %w", err)
	}
	return c, nil
}
