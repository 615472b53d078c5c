package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"studyhall/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	week       store.WeekSummary
	nextExam   *store.Exam
	latestMood *store.MoodEntry
	counts     store.TaskCounts
	todayTasks []store.Task
	exams      []store.Exam
	cardCount  int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formSubject *string
	formMinutes *string
	formRating  *string
}

func newDashboardModel(s *store.Store) dashboardModel {
	subject, minutes, rating := "", "", ""
	return dashboardModel{
		store:       s,
		formSubject: &subject,
		formMinutes: &minutes,
		formRating:  &rating,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	week       store.WeekSummary
	nextExam   *store.Exam
	latestMood *store.MoodEntry
	counts     store.TaskCounts
	todayTasks []store.Task
	exams      []store.Exam
	cardCount  int
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		now := time.Now()

		week, _ := d.store.WeekSummary(d.store.WeekStart(now))
		next, _ := d.store.NextExam(now)
		mood, _ := d.store.LatestMood()
		counts, _ := d.store.TaskCounts(now)
		exams, _ := d.store.UpcomingExams()
		cards, _ := d.store.CountFlashcards()

		due, _ := d.store.TasksDueOn(now)
		var open []store.Task
		for _, t := range due {
			if t.Status != store.StatusCompleted {
				open = append(open, t)
			}
		}

		return dashboardDataMsg{
			week:       week,
			nextExam:   next,
			latestMood: mood,
			counts:     counts,
			todayTasks: open,
			exams:      exams,
			cardCount:  cards,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.week = msg.week
		d.nextExam = msg.nextExam
		d.latestMood = msg.latestMood
		d.counts = msg.counts
		d.todayTasks = msg.todayTasks
		d.exams = msg.exams
		d.cardCount = msg.cardCount
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.New):
			return d.showSessionForm()
		}
	}
	return d, nil
}

func (d dashboardModel) showSessionForm() (dashboardModel, tea.Cmd) {
	*d.formSubject = ""
	*d.formMinutes = "60"
	*d.formRating = "3"

	ratingOptions := make([]huh.Option[string], 5)
	for i := 1; i <= 5; i++ {
		ratingOptions[i-1] = huh.NewOption(fmt.Sprintf("%d/5", i), strconv.Itoa(i))
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subject").Value(d.formSubject),
			huh.NewInput().Title("Duration (min)").Value(d.formMinutes),
			huh.NewSelect[string]().Title("Productivity").Options(ratingOptions...).Value(d.formRating),
		).Title("Log Study Session"),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		return d, d.saveSession()
	}

	return d, cmd
}

func (d dashboardModel) saveSession() tea.Cmd {
	subject := strings.TrimSpace(*d.formSubject)
	minutes, err := strconv.Atoi(strings.TrimSpace(*d.formMinutes))
	if subject == "" || err != nil || minutes <= 0 {
		return func() tea.Msg {
			return statusMsg{text: "Session needs a subject and a positive duration", isError: true}
		}
	}
	rating, _ := strconv.Atoi(*d.formRating)

	session, err := d.store.LogSession(subject, time.Now(), minutes, rating)
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return func() tea.Msg { return sessionLoggedMsg{session: session} }
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Log Study Session")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	metrics := d.renderMetrics(w)
	today := d.renderTodayPanel(w)
	exams := d.renderExamsPanel(w)
	progress := d.renderProgressPanel(w)

	return lipgloss.JoinVertical(lipgloss.Left, metrics, today, exams, progress)
}

func (d dashboardModel) renderMetrics(w int) string {
	cardWidth := w/4 - 2
	if cardWidth < 14 {
		cardWidth = 14
	}

	examValue := "—"
	examLabel := "No exams scheduled"
	if d.nextExam != nil {
		days := daysUntil(time.Now(), d.nextExam.ExamDate)
		examValue = fmt.Sprintf("%d days", days)
		examLabel = d.nextExam.Subject
	}

	moodValue := "—"
	if d.latestMood != nil {
		moodValue = fmt.Sprintf("%d/10", d.latestMood.Score)
	}

	cards := []string{
		d.renderMetricCard(cardWidth, "Hours this week",
			formatMinutes(d.week.TotalMinutes),
			fmt.Sprintf("%d sessions", d.week.SessionCount)),
		d.renderMetricCard(cardWidth, "Productivity",
			fmt.Sprintf("%.1f/5", d.week.AvgProductivity), "Average"),
		d.renderMetricCard(cardWidth, "Next Exam", examValue, examLabel),
		d.renderMetricCard(cardWidth, "Mood", moodValue, "Latest"),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (d dashboardModel) renderMetricCard(w int, label, value, sub string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		metricLabelStyle.Render(label),
		metricValueStyle.Render(value),
		mutedStyle.Render(sub),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today's Tasks")

	if len(d.todayTasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			successStyle.Render("No tasks due today!"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, t := range d.todayTasks {
		row := fmt.Sprintf("  %s %s (%s) — %dm  %s",
			statusDot(t.Status), titleStyle.Render(t.Title), t.Subject,
			t.EstimatedDuration, priorityLabel(t.Priority),
		)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderExamsPanel(w int) string {
	title := titleStyle.Render("Upcoming Exams")

	if len(d.exams) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No exams scheduled"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	now := time.Now()
	for _, e := range d.exams {
		days := daysUntil(now, e.ExamDate)
		rows = append(rows, fmt.Sprintf("  %s — %s (%s)  %s",
			highlightStyle.Render(e.Subject), e.ExamName,
			e.ExamDate.Format("Jan 02"),
			warningStyle.Render(fmt.Sprintf("%dd left", days)),
		))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderProgressPanel(w int) string {
	title := titleStyle.Render("Study Progress")
	line := fmt.Sprintf("  Flashcards: %d   Due today: %d   Completed: %d   In progress: %d",
		d.cardCount, d.counts.DueToday, d.counts.Completed, d.counts.InProgress,
	)
	hint := mutedStyle.Render("  n: log a study session")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, line, "", hint),
	)
}
