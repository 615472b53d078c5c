package tui

import "github.com/charmbracelet/lipgloss"

// groupsModel is the Study Groups placeholder page.
type groupsModel struct {
	width  int
	height int
}

func newGroupsModel() groupsModel {
	return groupsModel{}
}

func (g *groupsModel) setSize(w, h int) {
	g.width = w
	g.height = h
}

func (g groupsModel) view() string {
	w := g.width - 4
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Study Groups"),
		subtitleStyle.Render("Find and join a group study session"),
		"",
		mutedStyle.Render("Study group features coming soon!"),
	))
}
