// Package dialogue routes user events to flow handlers based on the
// user's session state.
package dialogue

import (
	"strings"

	"vocabbot/internal/domain"
)

// Kind is the type of an inbound event
type Kind int

const (
	KindText Kind = iota
	KindCommand
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindCallback:
		return "callback"
	default:
		return "text"
	}
}

// Event is one inbound user action, independent of the transport
type Event struct {
	Kind       Kind
	UserID     int64
	Username   string
	FirstName  string
	LastName   string
	Text       string
	Data       string
	CallbackID string
}

// NewTextEvent builds a text event, or a command event when text starts
// with the command marker
func NewTextEvent(userID int64, text string) Event {
	kind := KindText
	if domain.IsCommand(text) {
		kind = KindCommand
	}
	return Event{Kind: kind, UserID: userID, Text: text}
}

// NewCallbackEvent builds a button click event
func NewCallbackEvent(userID int64, callbackID, data string) Event {
	return Event{Kind: KindCallback, UserID: userID, CallbackID: callbackID, Data: data}
}

// FullName joins the sender's first and last names
func (e Event) FullName() string {
	return domain.JoinName(e.FirstName, e.LastName)
}

// parseCommand splits "/name@bot args" into name and args
func parseCommand(text string) (name, args string) {
	text = strings.TrimPrefix(strings.TrimSpace(text), domain.CommandMarker)
	name, args, _ = strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(args)
}

// parseCallback splits "action:arg"
func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(strings.TrimSpace(data), ":")
	return action, arg
}
