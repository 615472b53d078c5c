package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studyhall/internal/config"
	"studyhall/internal/export"
	"studyhall/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard  dashboardModel
	chat       chatModel
	planner    plannerModel
	flashcards flashcardsModel
	countdown  countdownModel
	mood       moodModel
	groups     groupsModel
	settings   settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *store.Store, cfg *config.Config, cfgDir string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s),
		chat:       newChatModel(cfg),
		planner:    newPlannerModel(s),
		flashcards: newFlashcardsModel(s),
		countdown:  newCountdownModel(s),
		mood:       newMoodModel(s),
		groups:     newGroupsModel(),
		settings:   newSettingsModel(s, cfg, cfgDir),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.chat.Init(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.chat.setSize(a.width, contentHeight)
		a.planner.setSize(a.width, contentHeight)
		a.flashcards.setSize(a.width, contentHeight)
		a.countdown.setSize(a.width, contentHeight)
		a.mood.setSize(a.width, contentHeight)
		a.groups.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (form or chat box), delegate.
		if a.isInputActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.navigate(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.navigate(viewChat)
		case key.Matches(msg, keys.Tab3):
			return a.navigate(viewPlanner)
		case key.Matches(msg, keys.Tab4):
			return a.navigate(viewFlashcards)
		case key.Matches(msg, keys.Tab5):
			return a.navigate(viewExams)
		case key.Matches(msg, keys.Tab6):
			return a.navigate(viewMood)
		case key.Matches(msg, keys.Tab7):
			return a.navigate(viewGroups)
		case key.Matches(msg, keys.Tab8):
			return a.navigate(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.navigate(a.activeView + 1)
		}

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case moodSavedMsg:
		a.setStatus("Mood saved")
		return a, a.dashboard.loadData()

	case sessionLoggedMsg:
		a.setStatus("Study session logged")
		return a, a.dashboard.loadData()

	case taskCreatedMsg:
		a.setStatus("Task created: " + msg.task.Title)
		return a, a.dashboard.loadData()

	case examCreatedMsg:
		a.setStatus("Exam added: " + msg.exam.ExamName)
		return a, a.dashboard.loadData()

	case exportDoneMsg:
		a.setStatus("Exported to " + msg.path)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// navigate records the new selection (out-of-range falls back to the
// dashboard) and refreshes the page's data.
func (a App) navigate(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = selectView(v)
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewChat:
		a.chat, cmd = a.chat.update(msg)
	case viewPlanner:
		a.planner, cmd = a.planner.update(msg)
	case viewFlashcards:
		a.flashcards, cmd = a.flashcards.update(msg)
	case viewExams:
		a.countdown, cmd = a.countdown.update(msg)
	case viewMood:
		a.mood, cmd = a.mood.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

// setStatus records a non-error status line.
func (a *App) setStatus(text string) {
	a.status = text
	a.statusErr = false
}

func (a App) isInputActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewChat:
		return a.chat.inputActive()
	case viewPlanner:
		return a.planner.formActive
	case viewExams:
		return a.countdown.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewPlanner:
		return a.planner.refresh()
	case viewFlashcards:
		return a.flashcards.refresh()
	case viewExams:
		return a.countdown.refresh()
	case viewMood:
		return a.mood.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewChat:
		content = a.chat.view()
	case viewPlanner:
		content = a.planner.view()
	case viewFlashcards:
		content = a.flashcards.view()
	case viewExams:
		content = a.countdown.view()
	case viewMood:
		content = a.mood.view()
	case viewGroups:
		content = a.groups.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studyhall")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"Tasks (CSV)", "Tasks + Mood (JSON)"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		tasks, err := a.store.ListTasks()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("studyhall-tasks-%s.csv", dateStr))
			if err := export.TasksToCSV(tasks, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			moods, err := a.store.MoodHistory()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			path = filepath.Join(home, fmt.Sprintf("studyhall-export-%s.json", dateStr))
			if err := export.ToJSON(tasks, moods, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
