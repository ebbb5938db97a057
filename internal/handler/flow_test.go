package handler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
	"vocabbot/internal/service"
	"vocabbot/internal/session"
	"vocabbot/internal/testutil"
)

type harness struct {
	t        *testing.T
	ctx      context.Context
	db       *testutil.FakeStore
	sessions *session.MemoryStore
	msgr     *testutil.RecordingMessenger
	router   *dialogue.Router
	clicks   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewFakeStore()
	logger := testutil.NewTestLogger()
	profile := service.NewProfileService(db.Users(), db.Topics(), db.Dictionary(), logger)
	svc := Services{
		Users:   service.NewUserService(db.Users(), logger),
		Profile: profile,
		Topics:  service.NewTopicService(db.Topics(), db.Dictionary(), profile, logger),
		Words:   service.NewWordService(db.Dictionary(), profile, logger),
		Quiz:    service.NewQuizService(db.Dictionary()),
		Grammar: service.NewGrammarService(db.Reference()),
	}

	sessions := session.NewMemoryStore()
	msgr := &testutil.RecordingMessenger{}
	router := dialogue.NewRouter(sessions, msgr, logger)
	NewHandler(svc, sessions, "VocabBot", logger).Register(router)

	return &harness{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		sessions: sessions,
		msgr:     msgr,
		router:   router,
	}
}

func (h *harness) send(userID int64, text string) {
	h.router.Dispatch(h.ctx, dialogue.NewTextEvent(userID, text))
}

func (h *harness) click(userID int64, data string) {
	h.clicks++
	h.router.Dispatch(h.ctx, dialogue.NewCallbackEvent(userID, fmt.Sprintf("cb%d", h.clicks), data))
}

func (h *harness) start(userID int64, name string) {
	ev := dialogue.NewTextEvent(userID, "/start")
	ev.FirstName = name
	h.router.Dispatch(h.ctx, ev)
}

func (h *harness) state(userID int64) domain.StateTag {
	state, err := h.sessions.State(h.ctx, userID)
	require.NoError(h.t, err)
	return state
}

func (h *harness) payload(userID int64) domain.Payload {
	p, err := h.sessions.Payload(h.ctx, userID)
	require.NoError(h.t, err)
	return p
}

// createTopic runs the topic creation flow and returns the new topic's id
func (h *harness) createTopic(userID int64, name string) int64 {
	h.send(userID, btnAddTopic)
	h.send(userID, name)

	topics, err := h.db.Topics().Search(h.ctx, userID, name)
	require.NoError(h.t, err)
	require.NotEmpty(h.t, topics)
	return topics[0].ID
}

func (h *harness) addWord(userID, topicID int64, word, translation string) {
	h.click(userID, idToken(actAddWords, topicID))
	h.send(userID, word)
	h.send(userID, translation)
}

func TestFlow_StartShowsWelcome(t *testing.T) {
	h := newHarness(t)

	h.start(1, "Ann")

	last := h.msgr.Last()
	assert.Contains(t, last.Text, "Ann")
	require.Len(t, last.Inline, 1)
	assert.Equal(t, actStartLearning, last.Inline[0][0].Data)
	require.NotNil(t, h.db.User(1))

	h.click(1, actStartLearning)
	assert.Equal(t, mainMenu(), h.msgr.Last().Keyboard)
}

func TestFlow_AnimalsQuiz(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")

	topicID := h.createTopic(1, "Animals")
	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Equal(t, 1, h.db.User(1).TopicsCount)

	h.addWord(1, topicID, "cat", "кот")
	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Equal(t, 1, h.db.User(1).LearnedWordsCount)

	h.click(1, idToken(actQuiz, topicID))
	h.click(1, idToken(actEnRu, topicID))
	assert.Equal(t, domain.StateQuizEnRu, h.state(1))
	assert.Equal(t, "Переведите: cat", h.msgr.Last().Text)
	assert.Equal(t, drillMenu(), h.msgr.Last().Keyboard)

	for _, answer := range []string{"кот", " КОТ ", "Кот"} {
		h.msgr.Reset()
		h.send(1, answer)

		assert.Equal(t, []string{msgCorrect, "Переведите: cat"}, h.msgr.Texts(), answer)
		assert.Equal(t, domain.StateQuizEnRu, h.state(1))
	}

	h.msgr.Reset()
	h.send(1, "собака")
	texts := h.msgr.Texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "кот")
	assert.Equal(t, "Переведите: cat", texts[1])
	assert.Equal(t, domain.StateQuizEnRu, h.state(1))
}

func TestFlow_ReverseQuiz(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Animals")
	h.addWord(1, topicID, "cat", "кот")

	h.click(1, idToken(actRuEn, topicID))
	assert.Equal(t, domain.StateQuizRuEn, h.state(1))
	assert.Equal(t, "Переведите: кот", h.msgr.Last().Text)

	h.msgr.Reset()
	h.send(1, "CAT")
	assert.Equal(t, msgCorrect, h.msgr.Texts()[0])
}

func TestFlow_QuizOnEmptyTopic(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Empty")

	h.click(1, idToken(actEnRu, topicID))

	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Contains(t, h.msgr.Last().Text, "нет ваших слов")
}

func TestFlow_StopSentinel(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Animals")
	h.addWord(1, topicID, "cat", "кот")
	h.click(1, idToken(actEnRu, topicID))
	require.Equal(t, domain.StateQuizEnRu, h.state(1))

	h.send(1, btnStopRepeat)
	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Nil(t, h.payload(1).Quiz)

	h.msgr.Reset()
	h.send(1, "кот")
	assert.Empty(t, h.msgr.Messages())
	assert.Equal(t, domain.StateIdle, h.state(1))
}

func TestFlow_TopicNameValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "command", input: "/foo", want: msgCommandInput},
		{name: "blank", input: "   ", want: msgEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.start(1, "Ann")
			h.send(1, btnAddTopic)

			h.send(1, tt.input)

			assert.Equal(t, domain.StateAwaitingTopicName, h.state(1))
			assert.Equal(t, tt.want, h.msgr.Last().Text)

			topics, err := h.db.Topics().Search(h.ctx, 1, "")
			require.NoError(t, err)
			assert.Empty(t, topics)
		})
	}
}

func TestFlow_DuplicateTopic(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.createTopic(1, "Animals")

	h.send(1, btnAddTopic)
	h.send(1, "Animals")

	assert.Equal(t, 1, h.db.TopicsNamed(1, "Animals"))
	assert.Equal(t, domain.StateAwaitingTopicName, h.state(1))
	assert.Contains(t, h.msgr.Last().Text, "уже есть")

	h.send(1, "Plants")
	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Equal(t, 1, h.db.TopicsNamed(1, "Plants"))
}

func TestFlow_SameTopicNameForDifferentUsers(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.start(2, "Bob")

	h.createTopic(1, "Animals")
	h.createTopic(2, "Animals")

	assert.Equal(t, 1, h.db.TopicsNamed(1, "Animals"))
	assert.Equal(t, 1, h.db.TopicsNamed(2, "Animals"))
}

func TestFlow_DuplicateWord(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Animals")
	h.addWord(1, topicID, "cat", "кот")

	h.addWord(1, topicID, "cat", "кошка")

	assert.Equal(t, 1, h.db.EntriesIn(topicID))
	assert.Equal(t, domain.StateAwaitingWord, h.state(1))
	assert.Contains(t, h.msgr.Last().Text, "уже есть")
	draft := h.payload(1).Word
	require.NotNil(t, draft)
	assert.Equal(t, topicID, draft.TopicID)
	assert.Empty(t, draft.Word)

	h.send(1, "dog")
	h.send(1, "собака")
	assert.Equal(t, 2, h.db.EntriesIn(topicID))
	assert.Equal(t, 2, h.db.User(1).LearnedWordsCount)
}

func TestFlow_WordRejectsCommands(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Animals")
	h.click(1, idToken(actAddWords, topicID))

	h.send(1, "/cat")
	assert.Equal(t, domain.StateAwaitingWord, h.state(1))

	h.send(1, "cat")
	h.send(1, "/кот")
	assert.Equal(t, domain.StateAwaitingTranslation, h.state(1))
	assert.Equal(t, 0, h.db.EntriesIn(topicID))
}

func TestFlow_StoreFailureKeepsState(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Animals")
	h.click(1, idToken(actAddWords, topicID))
	h.send(1, "cat")

	h.db.Fail = testutil.ErrFake
	h.send(1, "кот")

	assert.Equal(t, dialogue.ApologyText, h.msgr.Last().Text)
	assert.Equal(t, domain.StateAwaitingTranslation, h.state(1))
}

func TestFlow_DeleteTopicCascade(t *testing.T) {
	t.Run("owner entries", func(t *testing.T) {
		h := newHarness(t)
		h.start(1, "Ann")
		topicID := h.createTopic(1, "Animals")
		h.addWord(1, topicID, "cat", "кот")
		h.addWord(1, topicID, "dog", "собака")
		h.addWord(1, topicID, "cow", "корова")
		require.Equal(t, 3, h.db.EntriesIn(topicID))

		h.click(1, idToken(actDeleteTopic, topicID))
		assert.Equal(t, domain.StateConfirmTopicDeletion, h.state(1))

		h.click(1, idToken(actConfirmDelete, topicID))

		assert.Equal(t, domain.StateIdle, h.state(1))
		assert.Contains(t, h.msgr.Last().Text, "Удалено слов: 3.")
		assert.NotContains(t, h.msgr.Last().Text, "других пользователей")
		assert.Equal(t, 0, h.db.EntriesIn(topicID))
		assert.Equal(t, 0, h.db.TopicsNamed(1, "Animals"))

		topics, err := h.db.Topics().Search(h.ctx, 1, "Animals")
		require.NoError(t, err)
		assert.Empty(t, topics)

		user := h.db.User(1)
		assert.Equal(t, 0, user.LearnedWordsCount)
		assert.Equal(t, 0, user.TopicsCount)
	})

	t.Run("public topic with entries of other users", func(t *testing.T) {
		h := newHarness(t)
		h.start(1, "Ann")
		h.start(2, "Bob")
		topicID := h.createTopic(1, "Shared")
		h.click(1, idToken(actVisibility, topicID))
		h.addWord(1, topicID, "dog", "собака")
		h.addWord(2, topicID, "cat", "кот")
		h.addWord(2, topicID, "cow", "корова")
		require.Equal(t, 2, h.db.User(2).LearnedWordsCount)

		h.click(1, idToken(actDeleteTopic, topicID))
		h.click(1, idToken(actConfirmDelete, topicID))

		last := h.msgr.Last()
		assert.Equal(t, int64(1), last.UserID)
		assert.Contains(t, last.Text, "Удалено слов: 1.")
		assert.Contains(t, last.Text, "Слов других пользователей: 2.")
		assert.Equal(t, 0, h.db.EntriesIn(topicID))

		assert.Equal(t, 0, h.db.User(1).LearnedWordsCount)
		assert.Equal(t, 0, h.db.User(2).LearnedWordsCount)

		h.msgr.Reset()
		h.click(2, actTopLeaders)
		for _, m := range h.msgr.Messages() {
			assert.NotContains(t, m.Text, "Bob</a> — 2")
		}
	})
}

func TestFlow_DeleteTopicNeedsMatchingConfirmation(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	first := h.createTopic(1, "Animals")
	second := h.createTopic(1, "Plants")

	h.click(1, idToken(actConfirmDelete, first))
	assert.Equal(t, 1, h.db.TopicsNamed(1, "Animals"))

	h.click(1, idToken(actDeleteTopic, first))
	h.click(1, idToken(actConfirmDelete, second))
	assert.Equal(t, 1, h.db.TopicsNamed(1, "Plants"))

	answers := h.msgr.Answers()
	assert.True(t, answers[len(answers)-1].Alert)

	h.click(1, actCancelDelete)
	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Equal(t, 1, h.db.TopicsNamed(1, "Animals"))
}

func TestFlow_OnlyOwnerDeletesTopic(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.start(2, "Bob")
	topicID := h.createTopic(1, "Animals")
	h.click(1, idToken(actVisibility, topicID))

	h.click(2, idToken(actDeleteTopic, topicID))

	assert.Equal(t, domain.StateIdle, h.state(2))
	assert.Equal(t, 1, h.db.TopicsNamed(1, "Animals"))
}

func TestFlow_PrivateTopicIsHidden(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.start(2, "Bob")
	topicID := h.createTopic(1, "Animals")

	h.click(2, idToken(actTopic, topicID))

	answers := h.msgr.Answers()
	require.NotEmpty(t, answers)
	assert.Equal(t, msgTopicMissing, answers[len(answers)-1].Text)

	h.click(1, idToken(actVisibility, topicID))
	h.msgr.Reset()
	h.click(2, idToken(actTopic, topicID))
	assert.Contains(t, h.msgr.Last().Text, "Animals")
}

func TestFlow_DeleteWord(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Animals")
	h.addWord(1, topicID, "cat", "кот")
	h.addWord(1, topicID, "dog", "собака")

	h.click(1, idToken(actDeleteWord, topicID))
	h.send(1, "horse")
	assert.Equal(t, domain.StateAwaitingDeletionTarget, h.state(1))
	assert.Equal(t, 2, h.db.EntriesIn(topicID))

	h.send(1, "cat")
	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Equal(t, 1, h.db.EntriesIn(topicID))
	assert.Equal(t, 1, h.db.User(1).LearnedWordsCount)
}

func TestFlow_UnrelatedTextCancelsPendingFlow(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Animals")
	h.click(1, idToken(actDeleteTopic, topicID))

	h.send(1, "hello")

	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Equal(t, dialogue.CancelledText, h.msgr.Last().Text)
	assert.Equal(t, 1, h.db.TopicsNamed(1, "Animals"))
}

func TestFlow_MenuTextClearsState(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.send(1, btnAddTopic)

	h.send(1, btnProfile)

	assert.Equal(t, domain.StateIdle, h.state(1))
	last := h.msgr.Last()
	assert.True(t, last.HTML)
	assert.Contains(t, last.Text, "Выучено слов: 0")
	assert.Contains(t, last.Text, "https://t.me/VocabBot?start="+h.db.User(1).ReferralCode)
}

func TestFlow_CancelCommand(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.send(1, btnAddTopic)

	h.send(1, "/cancel")

	assert.Equal(t, domain.StateIdle, h.state(1))
	assert.Equal(t, mainMenu(), h.msgr.Last().Keyboard)
}

func TestFlow_TopicSearch(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	topicID := h.createTopic(1, "Wild Animals")
	h.createTopic(1, "Plants")

	h.click(1, token(actSearch, string(domain.SearchForQuiz)))
	assert.Equal(t, domain.StateAwaitingTopicSearch, h.state(1))

	h.send(1, "animal")

	assert.Equal(t, domain.StateIdle, h.state(1))
	last := h.msgr.Last()
	require.Len(t, last.Inline, 1)
	assert.Equal(t, idToken(actQuiz, topicID), last.Inline[0][0].Data)
}

func TestFlow_Referral(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	code := h.db.User(1).ReferralCode

	h.send(2, "/start ="+code)

	referrer := h.db.User(2).ReferredBy
	require.NotNil(t, referrer)
	assert.Equal(t, int64(1), *referrer)

	h.send(3, "/start unknown")
	assert.Nil(t, h.db.User(3).ReferredBy)
}

func TestFlow_ProfileExpiresEliteStatus(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.db.SetElite(1, time.Now().Add(-domain.EliteDuration-time.Hour))

	h.send(1, btnProfile)

	assert.False(t, h.db.User(1).Elite)
	assert.Contains(t, h.msgr.Last().Text, "обычный")
}

func TestFlow_Leaders(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.start(2, "Bob")
	topicID := h.createTopic(2, "Animals")
	h.addWord(2, topicID, "cat", "кот")

	h.click(1, actTopLeaders)

	last := h.msgr.Last()
	assert.True(t, last.HTML)
	assert.Contains(t, last.Text, "1. <a href=\"tg://user?id=2\">Bob</a> — 1")
}

func TestFlow_VerbDrill(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.db.AddVerb(domain.IrregularVerb{V1: "go", V2First: "went", V3First: "gone", FirstTranslation: "идти"})

	h.click(1, actVerbDrill)
	assert.Equal(t, domain.StateVerbPastSimple, h.state(1))
	assert.Contains(t, h.msgr.Last().Text, "go (идти)")

	h.msgr.Reset()
	h.send(1, " Went ")
	assert.Equal(t, msgCorrect, h.msgr.Texts()[0])
	assert.Equal(t, domain.StateVerbPastParticiple, h.state(1))

	h.msgr.Reset()
	h.send(1, "goed")
	texts := h.msgr.Texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "gone")
	assert.Equal(t, domain.StateVerbPastSimple, h.state(1))

	h.send(1, btnStopRepeat)
	assert.Equal(t, domain.StateIdle, h.state(1))
}

func TestFlow_VerbLookup(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.db.AddVerb(domain.IrregularVerb{V1: "go", V2First: "went", V3First: "gone", FirstTranslation: "идти"})

	h.click(1, actIrregularVerbs)
	h.send(1, "GO")

	assert.Contains(t, h.msgr.Last().Text, "Past Simple: went")
	assert.Equal(t, domain.StateAwaitingVerb, h.state(1))

	h.send(1, "fly")
	assert.Contains(t, h.msgr.Last().Text, "нет в справочнике")
	assert.Equal(t, domain.StateAwaitingVerb, h.state(1))
}

func TestFlow_Tenses(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")
	h.db.AddTense(domain.Tense{Name: "Present Simple", TranslationName: "Настоящее простое", Formula: "S + V"})

	h.click(1, actTenses)
	last := h.msgr.Last()
	require.Len(t, last.Inline, 1)
	assert.Equal(t, "tense:Present Simple", last.Inline[0][0].Data)

	h.click(1, last.Inline[0][0].Data)
	assert.Contains(t, h.msgr.Last().Text, "<b>Present Simple</b>")
}

func TestFlow_CallbacksAreAcknowledged(t *testing.T) {
	h := newHarness(t)
	h.start(1, "Ann")

	h.click(1, actStartLearning)
	h.click(1, "no_such_action")

	answers := h.msgr.Answers()
	require.Len(t, answers, 2)
	assert.Equal(t, "cb1", answers[0].CallbackID)
	assert.Equal(t, "cb2", answers[1].CallbackID)
}
