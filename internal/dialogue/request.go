package dialogue

import (
	"context"
	"fmt"
	"strconv"

	"vocabbot/internal/domain"
)

// Request is an event together with what the router learned about it
type Request struct {
	Event

	// State is the session state loaded before dispatch
	State domain.StateTag
	// Command and Args are set for command events
	Command string
	Args    string
	// Action and Arg are set for callback events
	Action string
	Arg    string

	messenger Messenger
	answered  bool
}

// HandlerFunc handles one routed request
type HandlerFunc func(ctx context.Context, r *Request) error

// Reply sends msg to the request's user
func (r *Request) Reply(ctx context.Context, msg Message) error {
	return r.messenger.Send(ctx, r.UserID, msg)
}

// ReplyText sends a plain text message to the request's user
func (r *Request) ReplyText(ctx context.Context, text string) error {
	return r.Reply(ctx, Text(text))
}

// Answer acknowledges the callback with an optional notification.
// The router acknowledges unanswered callbacks itself.
func (r *Request) Answer(ctx context.Context, text string, alert bool) error {
	if r.Kind != KindCallback || r.answered {
		return nil
	}
	r.answered = true
	return r.messenger.AnswerCallback(ctx, r.CallbackID, text, alert)
}

// ArgID parses the callback argument as an id
func (r *Request) ArgID() (int64, error) {
	id, err := strconv.ParseInt(r.Arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid callback argument %q: %w", r.Arg, err)
	}
	return id, nil
}
