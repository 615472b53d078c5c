package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studyhall/internal/store"
)

type flashcardsModel struct {
	store  *store.Store
	width  int
	height int

	decks      []string
	deckCursor int

	viewingDeck bool
	cards       []store.Flashcard
	cardIndex   int
	showBack    bool
}

func newFlashcardsModel(s *store.Store) flashcardsModel {
	return flashcardsModel{store: s}
}

func (f *flashcardsModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

type decksDataMsg struct {
	decks []string
}

type cardsDataMsg struct {
	cards []store.Flashcard
}

func (f flashcardsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		decks, _ := f.store.FlashcardDecks()
		return decksDataMsg{decks: decks}
	}
}

func (f flashcardsModel) loadDeck() tea.Cmd {
	if f.deckCursor >= len(f.decks) {
		return nil
	}
	deck := f.decks[f.deckCursor]
	return func() tea.Msg {
		cards, _ := f.store.FlashcardsInDeck(deck)
		return cardsDataMsg{cards: cards}
	}
}

func (f flashcardsModel) update(msg tea.Msg) (flashcardsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case decksDataMsg:
		f.decks = msg.decks
		if f.deckCursor >= len(f.decks) {
			f.deckCursor = max(0, len(f.decks)-1)
		}
		return f, nil

	case cardsDataMsg:
		f.cards = msg.cards
		if f.cardIndex >= len(f.cards) {
			f.cardIndex = max(0, len(f.cards)-1)
		}
		return f, nil

	case tea.KeyMsg:
		if f.viewingDeck {
			return f.updateCardView(msg)
		}
		return f.updateDeckList(msg)
	}
	return f, nil
}

func (f flashcardsModel) updateDeckList(msg tea.KeyMsg) (flashcardsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if f.deckCursor > 0 {
			f.deckCursor--
		}
	case key.Matches(msg, keys.Down):
		if f.deckCursor < len(f.decks)-1 {
			f.deckCursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(f.decks) > 0 {
			f.viewingDeck = true
			f.cardIndex = 0
			f.showBack = false
			return f, f.loadDeck()
		}
	}
	return f, nil
}

func (f flashcardsModel) updateCardView(msg tea.KeyMsg) (flashcardsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		f.viewingDeck = false
		return f, nil
	case key.Matches(msg, keys.Left):
		if f.cardIndex > 0 {
			f.cardIndex--
			f.showBack = false
		}
	case key.Matches(msg, keys.Right):
		if f.cardIndex < len(f.cards)-1 {
			f.cardIndex++
			f.showBack = false
		}
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Flip):
		f.showBack = !f.showBack
	case key.Matches(msg, keys.Good):
		return f.recordReview(true)
	case key.Matches(msg, keys.Again):
		return f.recordReview(false)
	}
	return f, nil
}

func (f flashcardsModel) recordReview(success bool) (flashcardsModel, tea.Cmd) {
	if len(f.cards) == 0 {
		return f, nil
	}
	// Write first so the reload that follows sees the new counters.
	if _, err := f.store.RecordReview(f.cards[f.cardIndex].ID, success); err != nil {
		return f, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	text := "Recorded, keep practicing"
	if success {
		text = "Nice, recorded as correct"
	}
	return f, tea.Batch(
		func() tea.Msg { return statusMsg{text: text} },
		f.loadDeck(),
	)
}

func (f flashcardsModel) view() string {
	if f.viewingDeck {
		return f.renderCardView()
	}
	return f.renderDeckList()
}

func (f flashcardsModel) renderDeckList() string {
	w := f.width - 4
	title := titleStyle.Render("Flashcards")
	subtitle := subtitleStyle.Render("Review and test yourself")

	if len(f.decks) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, subtitle, "", mutedStyle.Render("No decks yet."),
		))
	}

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", subtitle))
	rows = append(rows, "")
	for i, deck := range f.decks {
		cursor := "  "
		style := normalItemStyle
		if i == f.deckCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+deck))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: open deck"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (f flashcardsModel) renderCardView() string {
	w := f.width - 4
	deck := f.decks[f.deckCursor]
	title := titleStyle.Render(fmt.Sprintf("%s — card %d/%d", deck, f.cardIndex+1, len(f.cards)))

	if len(f.cards) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("This deck is empty."),
		))
	}

	card := f.cards[f.cardIndex]

	face := highlightStyle.Render(card.Front)
	faceLabel := mutedStyle.Render("FRONT")
	if f.showBack {
		face = successStyle.Render(card.Back)
		faceLabel = mutedStyle.Render("BACK")
	}

	cardPanel := activePanelStyle.Width(w - 4).Render(
		lipgloss.JoinVertical(lipgloss.Center, faceLabel, "", face),
	)

	stats := mutedStyle.Render(fmt.Sprintf("  %s · %s · reviewed %d times, %d correct",
		card.Subject, card.Difficulty, card.ReviewCount, card.SuccessCount,
	))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		cardPanel,
		stats,
		"",
		mutedStyle.Render("  space: flip  ←/→: browse  y/x: record review  esc: decks"),
	))
}
