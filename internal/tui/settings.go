package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"studyhall/internal/config"
	"studyhall/internal/store"
)

// settingsModel edits the study-week boundary and the chat defaults. The
// week boundary lives in the database; model and base URL go to config.yaml.
// The API key is deliberately absent here, it never reaches disk.
type settingsModel struct {
	store  *store.Store
	cfg    *config.Config
	cfgDir string
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	weekStart *string
	chatModel *string
	baseURL   *string
}

func newSettingsModel(s *store.Store, cfg *config.Config, cfgDir string) settingsModel {
	ws, cm, bu := "", "", ""
	return settingsModel{
		store:     s,
		cfg:       cfg,
		cfgDir:    cfgDir,
		weekStart: &ws,
		chatModel: &cm,
		baseURL:   &bu,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.weekStart = s.store.GetSettingOr(store.SettingWeekStart, store.WeekStartMonday)
	*s.chatModel = s.cfg.Model
	*s.baseURL = s.cfg.BaseURL

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", store.WeekStartMonday),
					huh.NewOption("Sunday", store.WeekStartSunday),
				).Value(s.weekStart),
		).Title("Planner"),
		huh.NewGroup(
			huh.NewInput().Title("Chat model").Value(s.chatModel),
			huh.NewInput().Title("API base URL").Value(s.baseURL),
		).Title("AI Chat"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		return s, tea.Batch(
			func() tea.Msg { return statusMsg{text: "Settings saved"} },
			s.refresh(),
		)
	}

	return s, cmd
}

// saveSettings persists the form. config.Write strips the API key, so a
// credential typed into the chat page stays out of config.yaml.
func (s settingsModel) saveSettings() error {
	if err := s.store.SetSetting(store.SettingWeekStart, *s.weekStart); err != nil {
		return err
	}
	if m := strings.TrimSpace(*s.chatModel); m != "" {
		s.cfg.Model = m
	}
	if u := strings.TrimSpace(*s.baseURL); u != "" {
		s.cfg.BaseURL = u
	}
	return config.Write(s.cfgDir, s.cfg)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	subtitle := subtitleStyle.Render("Week boundary and chat defaults")

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", subtitle))
	rows = append(rows, "")

	label := func(k string) string { return lipgloss.NewStyle().Width(18).Render(k) }
	for _, setting := range s.settings {
		rows = append(rows, fmt.Sprintf("  %s %s", label(setting.Key), highlightStyle.Render(setting.Value)))
	}
	rows = append(rows, fmt.Sprintf("  %s %s", label("chat model"), highlightStyle.Render(s.cfg.Model)))
	rows = append(rows, fmt.Sprintf("  %s %s", label("base url"), highlightStyle.Render(s.cfg.BaseURL)))

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
