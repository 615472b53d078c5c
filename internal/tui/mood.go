package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studyhall/internal/store"
)

type moodModel struct {
	store  *store.Store
	width  int
	height int

	score   int // current slider position, 0..10
	history []store.MoodEntry

	chart timeserieslinechart.Model
}

func newMoodModel(s *store.Store) moodModel {
	return moodModel{
		store: s,
		score: 7,
		chart: timeserieslinechart.New(60, 10),
	}
}

func (m *moodModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

type moodDataMsg struct {
	history []store.MoodEntry
}

func (m moodModel) refresh() tea.Cmd {
	return func() tea.Msg {
		history, _ := m.store.MoodHistory()
		return moodDataMsg{history: history}
	}
}

func (m moodModel) update(msg tea.Msg) (moodModel, tea.Cmd) {
	switch msg := msg.(type) {
	case moodDataMsg:
		m.history = msg.history
		if last := len(m.history) - 1; last >= 0 {
			m.score = m.history[last].Score
		}
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if m.score > 0 {
				m.score--
			}
		case key.Matches(msg, keys.Right):
			if m.score < 10 {
				m.score++
			}
		case key.Matches(msg, keys.Enter):
			return m.save()
		}
	}
	return m, nil
}

// save writes the entry before returning, so the refresh that follows
// always reads the committed row.
func (m moodModel) save() (moodModel, tea.Cmd) {
	entry, err := m.store.AppendMood(time.Now(), m.score)
	if err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return m, tea.Batch(
		func() tea.Msg { return moodSavedMsg{entry: entry} },
		m.refresh(),
	)
}

func (m *moodModel) buildChart() {
	chartWidth := m.width - 10
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = timeserieslinechart.New(chartWidth, chartHeight,
		timeserieslinechart.WithYRange(0, 10),
	)
	for _, e := range m.history {
		m.chart.Push(timeserieslinechart.TimePoint{Time: e.Date, Value: float64(e.Score)})
	}
	m.chart.DrawBraille()
}

func (m moodModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("Mood Tracker")
	subtitle := subtitleStyle.Render("Track your daily study mood")

	slider := m.renderSlider()

	var chartBlock string
	if len(m.history) == 0 {
		chartBlock = mutedStyle.Render("  No mood entries yet. Save one to start the chart.")
	} else {
		chartBlock = m.chart.View()
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", subtitle),
		"",
		slider,
		"",
		chartBlock,
		"",
		mutedStyle.Render("  ←/→: adjust  enter: save today's mood"),
	))
}

func (m moodModel) renderSlider() string {
	var cells []string
	for i := 0; i <= 10; i++ {
		label := fmt.Sprintf("%d", i)
		if i == m.score {
			cells = append(cells, selectedItemStyle.Render("["+label+"]"))
		} else {
			cells = append(cells, mutedStyle.Render(" "+label+" "))
		}
	}
	question := titleStyle.Render("How do you feel today?")
	return "  " + question + "  " + strings.Join(cells, "")
}
