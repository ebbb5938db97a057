package telegram

import (
	"context"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"vocabbot/internal/dialogue"
)

// eventTimeout bounds the handling of one update
const eventTimeout = 30 * time.Second

// Dispatcher receives transport-independent events
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dialogue.Event)
}

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// textEvent converts a text message. Commands arrive here too because no
// command is registered on the bot itself.
func textEvent(c tele.Context) dialogue.Event {
	ev := dialogue.NewTextEvent(0, c.Text())
	fillSender(&ev, c.Sender())
	return ev
}

func callbackEvent(c tele.Context) dialogue.Event {
	cb := c.Callback()
	ev := dialogue.NewCallbackEvent(0, cb.ID, cleanCallbackData(cb.Data))
	fillSender(&ev, c.Sender())
	return ev
}

func fillSender(ev *dialogue.Event, u *tele.User) {
	if u == nil {
		return
	}
	ev.UserID = u.ID
	ev.Username = u.Username
	ev.FirstName = u.FirstName
	ev.LastName = u.LastName
}

// Register routes text messages and button clicks from bot to d.
// ctx is the parent of every handled event.
func Register(ctx context.Context, bot *tele.Bot, d Dispatcher, logger *zap.Logger) {
	bot.Handle(tele.OnText, func(c tele.Context) error {
		if c.Sender() == nil {
			return nil
		}
		dispatch(ctx, d, textEvent(c))
		return nil
	})

	bot.Handle(tele.OnCallback, func(c tele.Context) error {
		if c.Callback() == nil || c.Sender() == nil {
			logger.Warn("Callback without sender")
			return nil
		}
		dispatch(ctx, d, callbackEvent(c))
		return nil
	})
}

func dispatch(parent context.Context, d Dispatcher, ev dialogue.Event) {
	ctx, cancel := context.WithTimeout(parent, eventTimeout)
	defer cancel()
	d.Dispatch(ctx, ev)
}
