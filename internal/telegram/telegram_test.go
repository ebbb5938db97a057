package telegram

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"vocabbot/internal/dialogue"
)

type sendCall struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
}

type fakeAPI struct {
	sends     []sendCall
	callbacks []*tele.Callback
	responses []*tele.CallbackResponse
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.sends = append(f.sends, sendCall{to, what, opts})
	return &tele.Message{}, nil
}

func (f *fakeAPI) Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error {
	f.callbacks = append(f.callbacks, c)
	f.responses = append(f.responses, resp...)
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []dialogue.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev dialogue.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "topic:12",
			expected: "topic:12",
		},
		{
			name:     "string with whitespace",
			input:    "  topic:12  ",
			expected: "topic:12",
		},
		{
			name:     "string with newline",
			input:    "topic\n:12",
			expected: "topic:12",
		},
		{
			name:     "string with tab",
			input:    "topic\t:12",
			expected: "topic:12",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "tense:Present\x00 Simple\x01",
			expected: "tense:Present Simple",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBuildMarkup(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		markup := buildMarkup(dialogue.Message{
			Keyboard: [][]string{{"ignored"}},
			Inline: [][]dialogue.Button{
				{{Text: "A", Data: "topic:1"}, {Text: "B", Data: "topic:2"}},
				{{Text: "Search", Data: "search:add"}},
			},
		})

		require.NotNil(t, markup)
		require.Len(t, markup.InlineKeyboard, 2)
		assert.Equal(t, "topic:2", markup.InlineKeyboard[0][1].Data)
		assert.Empty(t, markup.InlineKeyboard[0][1].Unique)
		assert.Nil(t, markup.ReplyKeyboard)
	})

	t.Run("reply keyboard", func(t *testing.T) {
		markup := buildMarkup(dialogue.Message{Keyboard: [][]string{{"Словарь", "Профиль"}, {"Грамматика"}}})

		require.NotNil(t, markup)
		assert.True(t, markup.ResizeKeyboard)
		require.Len(t, markup.ReplyKeyboard, 2)
		assert.Equal(t, "Профиль", markup.ReplyKeyboard[0][1].Text)
	})

	t.Run("remove keyboard", func(t *testing.T) {
		markup := buildMarkup(dialogue.Message{RemoveKeyboard: true})
		require.NotNil(t, markup)
		assert.True(t, markup.RemoveKeyboard)
	})

	t.Run("plain", func(t *testing.T) {
		assert.Nil(t, buildMarkup(dialogue.Message{Text: "hi"}))
	})
}

func TestMessenger_Send(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api)

	err := m.Send(context.Background(), 42, dialogue.Message{Text: "<b>hi</b>", HTML: true})

	require.NoError(t, err)
	require.Len(t, api.sends, 1)
	assert.Equal(t, tele.ChatID(42), api.sends[0].to)
	assert.Equal(t, "<b>hi</b>", api.sends[0].what)
	opts := api.sends[0].opts[0].(*tele.SendOptions)
	assert.Equal(t, tele.ModeHTML, opts.ParseMode)
}

func TestMessenger_AnswerCallback(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api)

	err := m.AnswerCallback(context.Background(), "cb1", "Тема не найдена", true)

	require.NoError(t, err)
	assert.Equal(t, "cb1", api.callbacks[0].ID)
	assert.Equal(t, "Тема не найдена", api.responses[0].Text)
	assert.True(t, api.responses[0].ShowAlert)
}

func TestRegister_RoutesUpdates(t *testing.T) {
	bot, err := tele.NewBot(tele.Settings{Offline: true, Synchronous: true})
	require.NoError(t, err)

	d := &recordingDispatcher{}
	Register(context.Background(), bot, d, zap.NewNop())

	sender := &tele.User{ID: 7, Username: "ann", FirstName: "Ann", LastName: "Lee"}
	bot.ProcessUpdate(tele.Update{Message: &tele.Message{
		Sender: sender,
		Chat:   &tele.Chat{ID: 7},
		Text:   "/start abc",
	}})
	bot.ProcessUpdate(tele.Update{Message: &tele.Message{
		Sender: sender,
		Chat:   &tele.Chat{ID: 7},
		Text:   "Animals",
	}})
	bot.ProcessUpdate(tele.Update{Callback: &tele.Callback{
		ID:     "cb1",
		Sender: sender,
		Data:   "topic:5\n",
	}})

	require.Len(t, d.events, 3)

	assert.Equal(t, dialogue.KindCommand, d.events[0].Kind)
	assert.Equal(t, "/start abc", d.events[0].Text)
	assert.Equal(t, int64(7), d.events[0].UserID)
	assert.Equal(t, "Ann Lee", d.events[0].FullName())

	assert.Equal(t, dialogue.KindText, d.events[1].Kind)

	assert.Equal(t, dialogue.KindCallback, d.events[2].Kind)
	assert.Equal(t, "topic:5", d.events[2].Data)
	assert.Equal(t, "cb1", d.events[2].CallbackID)
}
