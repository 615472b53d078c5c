package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"studyhall/internal/store"
)

type countdownModel struct {
	store  *store.Store
	width  int
	height int

	exams []store.Exam

	formActive bool
	form       *huh.Form

	formSubject *string
	formName    *string
	formDate    *string
}

func newCountdownModel(s *store.Store) countdownModel {
	subject, name, date := "", "", ""
	return countdownModel{
		store:       s,
		formSubject: &subject,
		formName:    &name,
		formDate:    &date,
	}
}

func (c *countdownModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type examsDataMsg struct {
	exams []store.Exam
}

func (c countdownModel) refresh() tea.Cmd {
	return func() tea.Msg {
		exams, _ := c.store.UpcomingExams()
		return examsDataMsg{exams: exams}
	}
}

func (c countdownModel) update(msg tea.Msg) (countdownModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case examsDataMsg:
		c.exams = msg.exams
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.New):
			return c.showNewExamForm()
		}
	}
	return c, nil
}

func (c countdownModel) showNewExamForm() (countdownModel, tea.Cmd) {
	*c.formSubject = ""
	*c.formName = ""
	*c.formDate = time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subject").Value(c.formSubject),
			huh.NewInput().Title("Exam name").Value(c.formName),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(c.formDate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c countdownModel) updateForm(msg tea.Msg) (countdownModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		return c, tea.Batch(c.createExam(), c.refresh())
	}

	return c, cmd
}

// createExam validates the form fields and performs the insert before
// returning, so the refresh batched after it reads the new row.
func (c countdownModel) createExam() tea.Cmd {
	subject := strings.TrimSpace(*c.formSubject)
	name := strings.TrimSpace(*c.formName)
	date, err := time.Parse("2006-01-02", strings.TrimSpace(*c.formDate))
	if subject == "" || name == "" || err != nil {
		return func() tea.Msg {
			return statusMsg{text: "Exam needs a subject, a name, and a valid date", isError: true}
		}
	}

	exam, err := c.store.CreateExam(subject, name, date)
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return func() tea.Msg { return examCreatedMsg{exam: exam} }
}

func (c countdownModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Exam")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()),
		)
	}

	title := titleStyle.Render("Exam Countdown")
	subtitle := subtitleStyle.Render("Days remaining for each upcoming exam")

	if len(c.exams) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, subtitle, "", mutedStyle.Render("No exams scheduled. Press n to add one."),
		))
	}

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", subtitle))
	rows = append(rows, "")

	now := time.Now()
	for _, e := range c.exams {
		days := daysUntil(now, e.ExamDate)
		var left string
		switch {
		case days < 0:
			left = mutedStyle.Render("passed")
		case days <= 3:
			left = errorStyle.Render(fmt.Sprintf("%d days left", days))
		case days <= 7:
			left = warningStyle.Render(fmt.Sprintf("%d days left", days))
		default:
			left = successStyle.Render(fmt.Sprintf("%d days left", days))
		}
		rows = append(rows, fmt.Sprintf("  %s %s — %s  %s",
			highlightStyle.Render(e.Subject), e.ExamName,
			e.ExamDate.Format("Jan 02, 2006"), left,
		))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new exam"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
