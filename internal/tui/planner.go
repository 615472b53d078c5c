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

type plannerMode int

const (
	plannerToday plannerMode = iota
	plannerWeek
	plannerAll
)

var plannerModeNames = []string{"Today", "This Week", "All Tasks"}

type plannerModel struct {
	store  *store.Store
	width  int
	height int

	mode   plannerMode
	tasks  []store.Task
	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formSubject  *string
	formDue      *string
	formPriority *string
	formMinutes  *string
}

func newPlannerModel(s *store.Store) plannerModel {
	title, subject, due, priority, minutes := "", "", "", store.PriorityMedium, ""
	return plannerModel{
		store:        s,
		formTitle:    &title,
		formSubject:  &subject,
		formDue:      &due,
		formPriority: &priority,
		formMinutes:  &minutes,
	}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type plannerDataMsg struct {
	tasks []store.Task
}

func (p plannerModel) refresh() tea.Cmd {
	mode := p.mode
	return func() tea.Msg {
		now := time.Now()
		var tasks []store.Task
		switch mode {
		case plannerToday:
			tasks, _ = p.store.TasksDueOn(now)
		case plannerWeek:
			start := p.store.WeekStart(now)
			tasks, _ = p.store.TasksInRange(start, start.AddDate(0, 0, 6))
		default:
			tasks, _ = p.store.ListTasks()
		}
		return plannerDataMsg{tasks: tasks}
	}
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case plannerDataMsg:
		p.tasks = msg.tasks
		if p.cursor >= len(p.tasks) {
			p.cursor = max(0, len(p.tasks)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			p.mode = (p.mode + 2) % 3
			p.cursor = 0
			return p, p.refresh()
		case key.Matches(msg, keys.Right):
			p.mode = (p.mode + 1) % 3
			p.cursor = 0
			return p, p.refresh()
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.tasks)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Flip):
			if len(p.tasks) > 0 {
				if _, err := p.store.AdvanceTaskStatus(p.tasks[p.cursor].ID); err != nil {
					return p, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
				}
				return p, tea.Batch(
					func() tea.Msg { return statusMsg{text: "Task updated"} },
					p.refresh(),
				)
			}
		case key.Matches(msg, keys.New):
			return p.showNewTaskForm()
		}
	}
	return p, nil
}

func (p plannerModel) showNewTaskForm() (plannerModel, tea.Cmd) {
	*p.formTitle = ""
	*p.formSubject = ""
	*p.formDue = time.Now().Format("2006-01-02")
	*p.formPriority = store.PriorityMedium
	*p.formMinutes = "30"

	priorities := []string{store.PriorityLow, store.PriorityMedium, store.PriorityHigh, store.PriorityUrgent}
	priorityOptions := make([]huh.Option[string], len(priorities))
	for i, pr := range priorities {
		priorityOptions[i] = huh.NewOption(pr, pr)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(p.formTitle),
			huh.NewInput().Title("Subject").Value(p.formSubject),
			huh.NewInput().Title("Due (YYYY-MM-DD)").Value(p.formDue),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions...).Value(p.formPriority),
			huh.NewInput().Title("Estimated (min)").Value(p.formMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plannerModel) updateForm(msg tea.Msg) (plannerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, tea.Batch(p.createTask(), p.refresh())
	}

	return p, cmd
}

// createTask validates the form fields and performs the insert before
// returning, so the refresh batched after it reads the new row.
func (p plannerModel) createTask() tea.Cmd {
	title := strings.TrimSpace(*p.formTitle)
	due, dueErr := time.Parse("2006-01-02", strings.TrimSpace(*p.formDue))
	minutes, minErr := strconv.Atoi(strings.TrimSpace(*p.formMinutes))
	if title == "" || dueErr != nil || minErr != nil || minutes < 0 {
		return func() tea.Msg {
			return statusMsg{text: "Task needs a title, a valid date, and a non-negative duration", isError: true}
		}
	}

	task, err := p.store.CreateTask(title, strings.TrimSpace(*p.formSubject), due, *p.formPriority, minutes)
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return func() tea.Msg { return taskCreatedMsg{task: task} }
}

func (p plannerModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Task")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()),
		)
	}

	var tabs []string
	for i, name := range plannerModeNames {
		if plannerMode(i) == p.mode {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Study Planner"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	if len(p.tasks) == 0 {
		empty := map[plannerMode]string{
			plannerToday: "No tasks for today!",
			plannerWeek:  "No tasks this week!",
			plannerAll:   "No tasks yet. Press n to add one.",
		}[p.mode]
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render(empty)),
		)
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-26s %-14s %-12s %-13s %s", "", "Title", "Subject", "Due", "Status", "Priority")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 76))))

	for i, t := range p.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-26s %-14s %-12s %-13s",
			cursor, statusDot(t.Status), t.Title, t.Subject,
			t.DueDate.Format("2006-01-02"), statusLabel(t.Status),
		)) + priorityLabel(t.Priority)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: view  enter: advance status  n: new task"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
