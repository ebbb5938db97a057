package handler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
	"vocabbot/internal/service"
	"vocabbot/internal/session"
)

func (h *Handler) handleAddTopic(ctx context.Context, r *dialogue.Request) error {
	if err := h.store.SetState(ctx, r.UserID, domain.StateAwaitingTopicName); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: "Введите название новой темы:", Keyboard: cancelMenu()})
}

// handleTopicName creates the topic. Rejected names keep the state so the
// user can retry in place.
func (h *Handler) handleTopicName(ctx context.Context, r *dialogue.Request) error {
	topic, err := h.topics.Create(ctx, r.UserID, r.Text)
	if handled, replyErr := rejectInput(ctx, r, err); handled {
		return replyErr
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return r.Reply(ctx, dialogue.Message{
			Text:     "У вас уже есть такая тема. Введите другое название:",
			Keyboard: cancelMenu(),
		})
	}
	if err != nil {
		return err
	}

	h.logger.Info("Topic created",
		zap.Int64("user_id", r.UserID),
		zap.Int64("topic_id", topic.ID),
	)

	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}
	if err := r.Reply(ctx, dialogue.Message{
		Text:     fmt.Sprintf("✅ Тема «%s» создана!", topic.Content),
		Keyboard: dictionaryMenu(),
	}); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text:   "Добавить в неё слова?",
		Inline: [][]dialogue.Button{row(button("➕ Добавить слова", idToken(actAddWords, topic.ID)))},
	})
}

// showTopics lists the topics visible to the user for picking
func (h *Handler) showTopics(ctx context.Context, r *dialogue.Request, purpose domain.SearchPurpose) error {
	topics, err := h.topics.Search(ctx, r.UserID, "")
	if err != nil {
		return err
	}

	text := "Выберите тему:"
	if len(topics) == 0 {
		text = "Пока нет доступных тем. Создайте свою через «" + btnAddTopic + "»."
	}

	rows := append(topicButtons(topics, purpose), searchButton(purpose))
	return r.Reply(ctx, dialogue.Message{Text: text, Inline: rows})
}

// handleSearch asks for a topic search query
func (h *Handler) handleSearch(ctx context.Context, r *dialogue.Request) error {
	purpose := domain.SearchPurpose(r.Arg)
	if purpose != domain.SearchForQuiz {
		purpose = domain.SearchForWords
	}

	err := session.Transition(ctx, h.store, r.UserID, domain.StateAwaitingTopicSearch, domain.Payload{
		Search: &domain.TopicSearch{Purpose: purpose},
	})
	if err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: "Введите часть названия темы:", Keyboard: cancelMenu()})
}

func (h *Handler) handleTopicSearch(ctx context.Context, r *dialogue.Request) error {
	query, err := domain.CleanInput(r.Text)
	if handled, replyErr := rejectInput(ctx, r, err); handled {
		return replyErr
	}

	payload, err := h.payload(ctx, r)
	if err != nil {
		return err
	}
	purpose := domain.SearchForWords
	if payload.Search != nil {
		purpose = payload.Search.Purpose
	}

	topics, err := h.topics.Search(ctx, r.UserID, query)
	if err != nil {
		return err
	}
	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}

	if len(topics) == 0 {
		return r.Reply(ctx, dialogue.Message{
			Text:     fmt.Sprintf("По запросу «%s» ничего не найдено.", query),
			Keyboard: mainMenu(),
		})
	}
	return r.Reply(ctx, dialogue.Message{
		Text:   fmt.Sprintf("Найдено тем: %d", len(topics)),
		Inline: topicButtons(topics, purpose),
	})
}

// topicFromArg loads the topic named by the callback argument. A nil topic
// means the user was already told it is gone.
func (h *Handler) topicFromArg(ctx context.Context, r *dialogue.Request) (*domain.Topic, error) {
	id, err := r.ArgID()
	if err != nil {
		return nil, r.Answer(ctx, msgTopicMissing, true)
	}

	topic, err := h.topics.Get(ctx, r.UserID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, r.Answer(ctx, msgTopicMissing, true)
	}
	return topic, err
}

func (h *Handler) handleTopicCard(ctx context.Context, r *dialogue.Request) error {
	topic, err := h.topicFromArg(ctx, r)
	if err != nil || topic == nil {
		return err
	}

	count, err := h.topics.WordCount(ctx, r.UserID, topic.ID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("📂 Тема: %s\nВаших слов в теме: %d", topic.Content, count)
	if topic.OwnedBy(r.UserID) {
		text += "\nДоступ: " + visibilityName(topic.Visible)
	}
	return r.Reply(ctx, dialogue.Message{Text: text, Inline: topicCardButtons(topic, r.UserID)})
}

func visibilityName(visible bool) string {
	if visible {
		return "публичная"
	}
	return "личная"
}

func (h *Handler) handleVisibility(ctx context.Context, r *dialogue.Request) error {
	id, err := r.ArgID()
	if err != nil {
		return r.Answer(ctx, msgTopicMissing, true)
	}

	topic, err := h.topics.ToggleVisibility(ctx, r.UserID, id)
	switch {
	case errors.Is(err, service.ErrNotOwner):
		return r.Answer(ctx, "Менять доступ можно только у своих тем", true)
	case errors.Is(err, repository.ErrNotFound):
		return r.Answer(ctx, msgTopicMissing, true)
	case err != nil:
		return err
	}

	return r.ReplyText(ctx, fmt.Sprintf("Тема «%s» теперь %s.", topic.Content, visibilityName(topic.Visible)))
}

// handleDeleteTopic asks for confirmation before deleting
func (h *Handler) handleDeleteTopic(ctx context.Context, r *dialogue.Request) error {
	topic, err := h.topicFromArg(ctx, r)
	if err != nil || topic == nil {
		return err
	}
	if !topic.OwnedBy(r.UserID) {
		return r.Answer(ctx, "Удалять можно только свои темы", true)
	}

	err = session.Transition(ctx, h.store, r.UserID, domain.StateConfirmTopicDeletion, domain.Payload{
		Deletion: &domain.DeletionTarget{TopicID: topic.ID, TopicName: topic.Content},
	})
	if err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text:   fmt.Sprintf("Удалить тему «%s» вместе со всеми словами?", topic.Content),
		Inline: confirmDeleteButtons(topic.ID),
	})
}

// handleConfirmDelete deletes the topic only if the pending confirmation
// is for the same topic
func (h *Handler) handleConfirmDelete(ctx context.Context, r *dialogue.Request) error {
	id, err := r.ArgID()
	if err != nil {
		return r.Answer(ctx, msgTopicMissing, true)
	}

	payload, err := h.payload(ctx, r)
	if err != nil {
		return err
	}
	if r.State != domain.StateConfirmTopicDeletion || payload.Deletion == nil || payload.Deletion.TopicID != id {
		return r.Answer(ctx, "Это подтверждение уже неактуально", true)
	}

	removed, err := h.topics.Delete(ctx, r.UserID, id)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, service.ErrNotOwner) {
		if clearErr := h.store.Clear(ctx, r.UserID); clearErr != nil {
			return clearErr
		}
		return r.Answer(ctx, msgTopicMissing, true)
	}
	if err != nil {
		return err
	}

	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{
		Text:     deletedText(payload.Deletion.TopicName, r.UserID, removed),
		Keyboard: dictionaryMenu(),
	})
}

func deletedText(topicName string, ownerID int64, removed repository.RemovedEntries) string {
	text := fmt.Sprintf("🗑 Тема «%s» удалена. Удалено слов: %d.", topicName, removed.Of(ownerID))
	if others := removed.Total() - removed.Of(ownerID); others > 0 {
		text += fmt.Sprintf(" Слов других пользователей: %d.", others)
	}
	return text
}

func (h *Handler) handleCancelDelete(ctx context.Context, r *dialogue.Request) error {
	if r.State != domain.StateConfirmTopicDeletion {
		return nil
	}
	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: "Удаление отменено.", Keyboard: dictionaryMenu()})
}
