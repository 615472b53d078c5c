// Package chat holds the conversation session state machine and the
// completion-service client behind the AI assistant page.
package chat

import "strings"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation. Messages are never mutated after
// being appended to a session.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// State is the session's position in the submit/respond cycle.
type State int

const (
	// StateAwaitingInput accepts a new submission.
	StateAwaitingInput State = iota
	// StatePending has a completion request in flight; further submissions
	// are rejected until it resolves.
	StatePending
	// StateError holds the last completion failure. Submitting from here
	// behaves exactly as from StateAwaitingInput.
	StateError
)

// Greeting is the assistant message every fresh session is seeded with.
const Greeting = "Hi! I'm your AI study assistant. What would you like to study today?"

// Session owns the ordered, append-only message log for one user's
// conversation. It is exclusively owned by the rendering cycle; there is no
// concurrent writer and no locking.
type Session struct {
	messages []Message
	state    State
	lastErr  error
}

// NewSession creates a session seeded with a single assistant greeting,
// ready to accept input.
func NewSession(greeting string) *Session {
	return &Session{
		messages: []Message{{Role: RoleAssistant, Content: greeting}},
		state:    StateAwaitingInput,
	}
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Err returns the failure recorded by the last Fail, or nil.
func (s *Session) Err() error { return s.lastErr }

// Messages returns a copy of the log in append order.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the log.
func (s *Session) Len() int { return len(s.messages) }

// Submit appends a user message and transitions to StatePending. It returns
// a snapshot of the full ordered log to send as the completion context, and
// whether a request should actually be issued: whitespace-only input is a
// no-op, and a submission while one is already pending is rejected without
// touching the log.
func (s *Session) Submit(text string) ([]Message, bool) {
	if s.state == StatePending {
		return nil, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	s.messages = append(s.messages, Message{Role: RoleUser, Content: text})
	s.state = StatePending
	s.lastErr = nil
	return s.Messages(), true
}

// Resolve appends the assistant's reply and returns to StateAwaitingInput.
func (s *Session) Resolve(reply string) {
	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: reply})
	s.state = StateAwaitingInput
	s.lastErr = nil
}

// Fail records a completion failure. The user's message stays in the log:
// there is no rollback path, so a retry resubmits on top of the preserved
// turn.
func (s *Session) Fail(err error) {
	s.state = StateError
	s.lastErr = err
}
