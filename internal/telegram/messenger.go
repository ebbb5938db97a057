// Package telegram connects the dialogue router to the Telegram Bot API.
package telegram

import (
	"context"

	tele "gopkg.in/telebot.v3"

	"vocabbot/internal/dialogue"
)

// API is the part of *tele.Bot the messenger needs
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
}

// Messenger implements dialogue.Messenger over the Bot API
type Messenger struct {
	api API
}

// NewMessenger creates a messenger sending through api
func NewMessenger(api API) *Messenger {
	return &Messenger{api: api}
}

// Send delivers msg to the user's private chat
func (m *Messenger) Send(_ context.Context, userID int64, msg dialogue.Message) error {
	opts := &tele.SendOptions{ReplyMarkup: buildMarkup(msg)}
	if msg.HTML {
		opts.ParseMode = tele.ModeHTML
	}
	_, err := m.api.Send(tele.ChatID(userID), msg.Text, opts)
	return err
}

// AnswerCallback stops the button's loading indicator
func (m *Messenger) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	return m.api.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{
		Text:      text,
		ShowAlert: alert,
	})
}

// buildMarkup converts the message keyboards. Telegram takes one markup per
// message, so inline buttons win over a reply keyboard.
func buildMarkup(msg dialogue.Message) *tele.ReplyMarkup {
	switch {
	case len(msg.Inline) > 0:
		markup := &tele.ReplyMarkup{}
		rows := make([][]tele.InlineButton, 0, len(msg.Inline))
		for _, r := range msg.Inline {
			row := make([]tele.InlineButton, 0, len(r))
			for _, b := range r {
				row = append(row, tele.InlineButton{Text: b.Text, Data: b.Data})
			}
			rows = append(rows, row)
		}
		markup.InlineKeyboard = rows
		return markup

	case len(msg.Keyboard) > 0:
		markup := &tele.ReplyMarkup{ResizeKeyboard: true}
		rows := make([]tele.Row, 0, len(msg.Keyboard))
		for _, r := range msg.Keyboard {
			btns := make([]tele.Btn, 0, len(r))
			for _, text := range r {
				btns = append(btns, markup.Text(text))
			}
			rows = append(rows, markup.Row(btns...))
		}
		markup.Reply(rows...)
		return markup

	case msg.RemoveKeyboard:
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	}
	return nil
}
