package testutil

import (
	"context"
	"sync"

	"vocabbot/internal/dialogue"
)

// SentMessage is a message captured by RecordingMessenger
type SentMessage struct {
	UserID int64
	dialogue.Message
}

// CallbackAnswer is a callback acknowledgement captured by RecordingMessenger
type CallbackAnswer struct {
	CallbackID string
	Text       string
	Alert      bool
}

// RecordingMessenger implements dialogue.Messenger and keeps everything sent
type RecordingMessenger struct {
	mu       sync.Mutex
	messages []SentMessage
	answers  []CallbackAnswer
}

func (m *RecordingMessenger) Send(_ context.Context, userID int64, msg dialogue.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, SentMessage{UserID: userID, Message: msg})
	return nil
}

func (m *RecordingMessenger) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, CallbackAnswer{CallbackID: callbackID, Text: text, Alert: alert})
	return nil
}

// Messages returns every message sent so far
func (m *RecordingMessenger) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.messages...)
}

// Answers returns every callback acknowledgement so far
func (m *RecordingMessenger) Answers() []CallbackAnswer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CallbackAnswer(nil), m.answers...)
}

// Last returns the most recent message or an empty one
func (m *RecordingMessenger) Last() SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return SentMessage{}
	}
	return m.messages[len(m.messages)-1]
}

// Texts returns the texts of every message sent so far
func (m *RecordingMessenger) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, msg.Text)
	}
	return out
}

// Reset forgets everything recorded
func (m *RecordingMessenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.answers = nil
}
