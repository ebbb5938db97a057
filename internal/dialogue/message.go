package dialogue

import "context"

// Button is an inline button carrying a callback token
type Button struct {
	Text string
	Data string
}

// Message is an outbound message with optional markup. Keyboard is a reply
// keyboard of text buttons; Inline is attached to the message itself.
type Message struct {
	Text           string
	HTML           bool
	Keyboard       [][]string
	Inline         [][]Button
	RemoveKeyboard bool
}

// Text builds a plain message
func Text(text string) Message {
	return Message{Text: text}
}

// Messenger delivers messages to users
type Messenger interface {
	Send(ctx context.Context, userID int64, msg Message) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}
