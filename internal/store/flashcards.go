package store

import "fmt"

// FlashcardDecks returns distinct deck names in first-seen order.
func (s *Store) FlashcardDecks() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT deck_name FROM flashcards GROUP BY deck_name ORDER BY MIN(id)`,
	)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		decks = append(decks, name)
	}
	return decks, rows.Err()
}

// FlashcardsInDeck returns the deck's cards in insertion order.
func (s *Store) FlashcardsInDeck(deckName string) ([]Flashcard, error) {
	rows, err := s.db.Query(
		`SELECT id, front, back, subject, deck_name, difficulty, review_count, success_count
		 FROM flashcards WHERE deck_name = ? ORDER BY id`, deckName,
	)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	defer rows.Close()

	var cards []Flashcard
	for rows.Next() {
		var c Flashcard
		if err := rows.Scan(&c.ID, &c.Front, &c.Back, &c.Subject, &c.DeckName, &c.Difficulty, &c.ReviewCount, &c.SuccessCount); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// CountFlashcards returns the total number of cards across all decks.
func (s *Store) CountFlashcards() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM flashcards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count flashcards: %w", err)
	}
	return n, nil
}

// RecordReview increments a card's review count, and its success count when
// the review succeeded. The success_count <= review_count invariant holds
// because the review count always grows at least as much.
func (s *Store) RecordReview(id int64, success bool) (*Flashcard, error) {
	successInc := 0
	if success {
		successInc = 1
	}
	_, err := s.db.Exec(
		`UPDATE flashcards SET review_count = review_count + 1, success_count = success_count + ? WHERE id = ?`,
		successInc, id,
	)
	if err != nil {
		return nil, fmt.Errorf("record review %d: %w", id, err)
	}

	c := &Flashcard{}
	err = s.db.QueryRow(
		`SELECT id, front, back, subject, deck_name, difficulty, review_count, success_count
		 FROM flashcards WHERE id = ?`, id,
	).Scan(&c.ID, &c.Front, &c.Back, &c.Subject, &c.DeckName, &c.Difficulty, &c.ReviewCount, &c.SuccessCount)
	if err != nil {
		return nil, fmt.Errorf("get flashcard %d: %w", id, err)
	}
	return c, nil
}
