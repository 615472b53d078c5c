package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) CreateExam(subject, examName string, examDate time.Time) (*Exam, error) {
	res, err := s.db.Exec(
		`INSERT INTO exams (subject, exam_name, exam_date) VALUES (?, ?, ?)`,
		subject, examName, examDate.Format(dateFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("insert exam: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetExam(id)
}

func (s *Store) GetExam(id int64) (*Exam, error) {
	e := &Exam{}
	var date string
	err := s.db.QueryRow(
		`SELECT id, subject, exam_name, exam_date FROM exams WHERE id = ?`, id,
	).Scan(&e.ID, &e.Subject, &e.ExamName, &date)
	if err != nil {
		return nil, fmt.Errorf("get exam %d: %w", id, err)
	}
	e.ExamDate, _ = time.Parse(dateFormat, date)
	return e, nil
}

// UpcomingExams returns every exam ordered by exam date ascending, ties in
// insertion order.
func (s *Store) UpcomingExams() ([]Exam, error) {
	rows, err := s.db.Query(
		`SELECT id, subject, exam_name, exam_date FROM exams ORDER BY exam_date, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	var exams []Exam
	for rows.Next() {
		var e Exam
		var date string
		if err := rows.Scan(&e.ID, &e.Subject, &e.ExamName, &date); err != nil {
			return nil, err
		}
		e.ExamDate, _ = time.Parse(dateFormat, date)
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// NextExam returns the exam with the smallest exam date on or after today,
// breaking date ties by insertion order. Returns nil when no such exam
// exists.
func (s *Store) NextExam(today time.Time) (*Exam, error) {
	e := &Exam{}
	var date string
	err := s.db.QueryRow(
		`SELECT id, subject, exam_name, exam_date FROM exams
		 WHERE exam_date >= ? ORDER BY exam_date, id LIMIT 1`,
		today.Format(dateFormat),
	).Scan(&e.ID, &e.Subject, &e.ExamName, &date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next exam: %w", err)
	}
	e.ExamDate, _ = time.Parse(dateFormat, date)
	return e, nil
}
