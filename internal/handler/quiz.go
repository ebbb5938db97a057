package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
	"vocabbot/internal/service"
	"vocabbot/internal/session"
)

const msgCorrect = "✅ Верно!"

func (h *Handler) handleRepeat(ctx context.Context, r *dialogue.Request) error {
	return h.showTopics(ctx, r, domain.SearchForQuiz)
}

// handleQuizTopic offers the two quiz directions for the topic
func (h *Handler) handleQuizTopic(ctx context.Context, r *dialogue.Request) error {
	topic, err := h.topicFromArg(ctx, r)
	if err != nil || topic == nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text:   fmt.Sprintf("📂 Тема «%s»\n\nВыберите направление:", topic.Content),
		Inline: directionButtons(topic.ID),
	})
}

func (h *Handler) direction(dir domain.Direction) dialogue.HandlerFunc {
	return func(ctx context.Context, r *dialogue.Request) error {
		topic, err := h.topicFromArg(ctx, r)
		if err != nil || topic == nil {
			return err
		}
		return h.ask(ctx, r, topic.ID, dir)
	}
}

// ask puts the next random question of the topic
func (h *Handler) ask(ctx context.Context, r *dialogue.Request, topicID int64, dir domain.Direction) error {
	item, err := h.quiz.Next(ctx, r.UserID, topicID, dir)
	if errors.Is(err, service.ErrNoWords) {
		if err := h.store.Clear(ctx, r.UserID); err != nil {
			return err
		}
		return r.Reply(ctx, dialogue.Message{
			Text:     "В этой теме пока нет ваших слов. Добавьте их через «" + btnAddWords + "».",
			Keyboard: mainMenu(),
		})
	}
	if err != nil {
		return err
	}

	if err := session.Transition(ctx, h.store, r.UserID, dir.State(), domain.Payload{Quiz: item}); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text:     fmt.Sprintf("Переведите: %s", item.Prompt),
		Keyboard: drillMenu(),
	})
}

// handleAnswer checks the answer and moves on to a fresh random item
// either way
func (h *Handler) handleAnswer(ctx context.Context, r *dialogue.Request) error {
	payload, err := h.payload(ctx, r)
	if err != nil {
		return err
	}
	item := payload.Quiz
	if item == nil {
		return h.expired(ctx, r)
	}

	feedback := msgCorrect
	if !item.Check(r.Text) {
		feedback = "❌ Неверно. Правильный ответ: " + strings.Join(item.Answers, " / ")
	}
	if err := r.ReplyText(ctx, feedback); err != nil {
		return err
	}

	return h.ask(ctx, r, item.TopicID, item.Direction)
}
