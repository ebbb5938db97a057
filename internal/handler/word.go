package handler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
	"vocabbot/internal/session"
)

func (h *Handler) handleAddWords(ctx context.Context, r *dialogue.Request) error {
	return h.showTopics(ctx, r, domain.SearchForWords)
}

// handleAddWordsTo starts the add-word flow for the picked topic
func (h *Handler) handleAddWordsTo(ctx context.Context, r *dialogue.Request) error {
	topic, err := h.topicFromArg(ctx, r)
	if err != nil || topic == nil {
		return err
	}
	return h.askWord(ctx, r, topic.ID, topic.Content, fmt.Sprintf("📂 Тема «%s»\n\nВведите слово на английском:", topic.Content))
}

func (h *Handler) askWord(ctx context.Context, r *dialogue.Request, topicID int64, topicName, text string) error {
	err := session.Transition(ctx, h.store, r.UserID, domain.StateAwaitingWord, domain.Payload{
		Word: &domain.WordDraft{TopicID: topicID, TopicName: topicName},
	})
	if err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: text, Keyboard: cancelMenu()})
}

func (h *Handler) handleWord(ctx context.Context, r *dialogue.Request) error {
	payload, err := h.payload(ctx, r)
	if err != nil {
		return err
	}
	if payload.Word == nil {
		return h.expired(ctx, r)
	}

	word, err := domain.CleanInput(r.Text)
	if handled, replyErr := rejectInput(ctx, r, err); handled {
		return replyErr
	}

	err = session.Transition(ctx, h.store, r.UserID, domain.StateAwaitingTranslation, domain.Payload{
		Word: &domain.WordDraft{TopicID: payload.Word.TopicID, TopicName: payload.Word.TopicName, Word: word},
	})
	if err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: fmt.Sprintf("Введите перевод для «%s»:", word), Keyboard: cancelMenu()})
}

// handleTranslation saves the pair. A word already in the topic sends the
// user back to the word prompt.
func (h *Handler) handleTranslation(ctx context.Context, r *dialogue.Request) error {
	payload, err := h.payload(ctx, r)
	if err != nil {
		return err
	}
	draft := payload.Word
	if draft == nil || draft.Word == "" {
		return h.expired(ctx, r)
	}

	err = h.words.Add(ctx, r.UserID, draft.TopicID, draft.Word, r.Text)
	if handled, replyErr := rejectInput(ctx, r, err); handled {
		return replyErr
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return h.askWord(ctx, r, draft.TopicID, draft.TopicName,
			fmt.Sprintf("Слово «%s» уже есть в теме «%s». Введите другое слово:", draft.Word, draft.TopicName))
	}
	if err != nil {
		return err
	}

	h.logger.Info("Word pair saved",
		zap.Int64("user_id", r.UserID),
		zap.Int64("topic_id", draft.TopicID),
	)

	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}
	if err := r.Reply(ctx, dialogue.Message{
		Text:     fmt.Sprintf("✅ Слово «%s» добавлено в тему «%s».", draft.Word, draft.TopicName),
		Keyboard: dictionaryMenu(),
	}); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text: "Что дальше?",
		Inline: [][]dialogue.Button{
			row(button("➕ Добавить ещё", idToken(actAddWords, draft.TopicID))),
			row(button("🔁 Повторить тему", idToken(actQuiz, draft.TopicID))),
		},
	})
}

// handleDeleteWordFrom asks which word to remove from the topic
func (h *Handler) handleDeleteWordFrom(ctx context.Context, r *dialogue.Request) error {
	topic, err := h.topicFromArg(ctx, r)
	if err != nil || topic == nil {
		return err
	}

	err = session.Transition(ctx, h.store, r.UserID, domain.StateAwaitingDeletionTarget, domain.Payload{
		Deletion: &domain.DeletionTarget{TopicID: topic.ID, TopicName: topic.Content},
	})
	if err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text:     fmt.Sprintf("Введите слово, которое нужно удалить из темы «%s»:", topic.Content),
		Keyboard: cancelMenu(),
	})
}

func (h *Handler) handleDeletionTarget(ctx context.Context, r *dialogue.Request) error {
	payload, err := h.payload(ctx, r)
	if err != nil {
		return err
	}
	target := payload.Deletion
	if target == nil {
		return h.expired(ctx, r)
	}

	err = h.words.Delete(ctx, r.UserID, target.TopicID, r.Text)
	if handled, replyErr := rejectInput(ctx, r, err); handled {
		return replyErr
	}
	if errors.Is(err, repository.ErrNotFound) {
		return r.Reply(ctx, dialogue.Message{
			Text:     fmt.Sprintf("Слово не найдено в теме «%s». Проверьте написание и попробуйте ещё раз:", target.TopicName),
			Keyboard: cancelMenu(),
		})
	}
	if err != nil {
		return err
	}

	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text:     fmt.Sprintf("🗑 Слово удалено из темы «%s».", target.TopicName),
		Keyboard: dictionaryMenu(),
	})
}
