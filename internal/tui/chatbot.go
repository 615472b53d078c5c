package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studyhall/internal/chat"
	"studyhall/internal/config"
)

type chatReplyMsg struct {
	content string
}

type chatErrMsg struct {
	err error
}

// chatModel is the AI assistant page. It owns the one live conversation
// session and the completion client. Until a credential exists the page is
// locked behind a key prompt; the key never leaves memory.
type chatModel struct {
	session   *chat.Session
	completer chat.Completer

	cfg *config.Config

	keyInput textinput.Model
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	focused bool
	width   int
	height  int
}

func newChatModel(cfg *config.Config) chatModel {
	ki := textinput.New()
	ki.Placeholder = "OpenAI API key"
	ki.EchoMode = textinput.EchoPassword
	ki.Focus()

	ta := textarea.New()
	ta.Placeholder = "Ask me anything about your studies..."
	ta.CharLimit = 5000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline = key.NewBinding(
		key.WithKeys("shift+enter", "ctrl+j"),
		key.WithHelp("shift+enter", "new line"),
	)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	vp := viewport.New(60, 12)

	m := chatModel{
		session:  chat.NewSession(chat.Greeting),
		cfg:      cfg,
		keyInput: ki,
		textarea: ta,
		viewport: vp,
		spinner:  sp,
		focused:  true,
	}

	if cfg.APIKey != "" {
		m.completer = chat.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model)
	}

	m.viewport.SetContent(m.renderTranscript())
	return m
}

func (c chatModel) Init() tea.Cmd {
	return textarea.Blink
}

func (c *chatModel) setSize(w, h int) {
	c.width = w
	c.height = h

	vpHeight := h - 12
	if vpHeight < 4 {
		vpHeight = 4
	}
	vpWidth := w - 8
	if vpWidth < 20 {
		vpWidth = 20
	}

	c.viewport.Width = vpWidth
	c.viewport.Height = vpHeight
	c.textarea.SetWidth(vpWidth)
	c.keyInput.Width = min(vpWidth, 60)
	c.viewport.SetContent(c.renderTranscript())
}

// locked reports whether the chat is waiting for a credential.
func (c chatModel) locked() bool { return c.completer == nil }

// inputActive reports whether the page is capturing keystrokes, so the root
// model knows not to treat them as navigation.
func (c chatModel) inputActive() bool {
	if c.locked() {
		return true
	}
	return c.focused
}

func (c chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if c.locked() {
			return c.updateLocked(msg)
		}
		return c.updateUnlocked(msg)

	case chatReplyMsg:
		c.session.Resolve(msg.content)
		c.viewport.SetContent(c.renderTranscript())
		c.viewport.GotoBottom()
		return c, nil

	case chatErrMsg:
		c.session.Fail(msg.err)
		return c, nil

	case spinner.TickMsg:
		if c.session.State() == chat.StatePending {
			c.spinner, cmd = c.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

func (c chatModel) updateLocked(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		apiKey := strings.TrimSpace(c.keyInput.Value())
		if apiKey == "" {
			return c, nil
		}
		c.completer = chat.NewClient(c.cfg.BaseURL, apiKey, c.cfg.Model)
		c.keyInput.Reset()
		c.focused = true
		c.viewport.SetContent(c.renderTranscript())
		return c, textarea.Blink
	case "esc":
		c.focused = false
		return c, nil
	}

	var cmd tea.Cmd
	c.keyInput, cmd = c.keyInput.Update(msg)
	return c, cmd
}

func (c chatModel) updateUnlocked(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	if !c.focused {
		switch msg.String() {
		case "enter", "i":
			c.focused = true
			return c, textarea.Blink
		}
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return c, cmd
	}

	switch msg.String() {
	case "enter":
		return c.submit()
	case "esc":
		c.focused = false
		return c, nil
	}

	if c.session.State() == chat.StatePending {
		return c, nil
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return c, cmd
}

func (c chatModel) submit() (chatModel, tea.Cmd) {
	history, ok := c.session.Submit(c.textarea.Value())
	if !ok {
		return c, nil
	}

	c.textarea.Reset()
	c.viewport.SetContent(c.renderTranscript())
	c.viewport.GotoBottom()

	completer := c.completer
	return c, tea.Batch(
		c.spinner.Tick,
		func() tea.Msg {
			reply, err := completer.Complete(context.Background(), history)
			if err != nil {
				return chatErrMsg{err: err}
			}
			return chatReplyMsg{content: reply}
		},
	)
}

func (c chatModel) view() string {
	w := c.width - 4

	title := titleStyle.Render("AI Study Assistant")
	subtitle := subtitleStyle.Render("Get instant help with your studies")

	if c.locked() {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			subtitle,
			"",
			mutedStyle.Render("Enter your OpenAI API key to use the assistant."),
			mutedStyle.Render("It is kept in memory for this session only."),
			"",
			c.keyInput.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", subtitle))
	rows = append(rows, "")
	rows = append(rows, c.viewport.View())
	rows = append(rows, "")

	switch c.session.State() {
	case chat.StatePending:
		rows = append(rows, fmt.Sprintf("%s Thinking...", c.spinner.View()))
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render(c.textarea.View()))
	case chat.StateError:
		rows = append(rows, errorStyle.Render(fmt.Sprintf("Error: %v (your message is kept, try again)", c.session.Err())))
		rows = append(rows, "")
		rows = append(rows, c.textarea.View())
	default:
		rows = append(rows, c.textarea.View())
	}

	rows = append(rows, "")
	if c.focused {
		rows = append(rows, mutedStyle.Render("enter: send  shift+enter: new line  esc: unfocus"))
	} else {
		rows = append(rows, mutedStyle.Render("i: write  ↑/↓: scroll  1-7: switch page"))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (c chatModel) renderTranscript() string {
	messages := c.session.Messages()
	var b strings.Builder

	for i, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(chatUserStyle.Render("You: "))
		case chat.RoleAssistant:
			b.WriteString(chatAssistantStyle.Render("Assistant: "))
		default:
			b.WriteString(mutedStyle.Render(string(msg.Role) + ": "))
		}
		b.WriteString(msg.Content)
		if i < len(messages)-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}
