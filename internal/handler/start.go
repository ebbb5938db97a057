package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vocabbot/internal/dialogue"
)

const helpText = `Я помогу учить английские слова.

` + btnDictionary + ` — создать тему и добавить в неё слова
` + btnRepeat + ` — тренировка по выбранной теме
` + btnGrammar + ` — неправильные глаголы и времена
` + btnProfile + ` — статистика, реферальная ссылка и топ лидеров

/start — начать заново
/cancel — отменить текущее действие
/help — эта справка`

// handleStart handles /start [referral code]
func (h *Handler) handleStart(ctx context.Context, r *dialogue.Request) error {
	h.logger.Info("User started bot",
		zap.Int64("user_id", r.UserID),
		zap.String("username", r.Username),
	)

	user, err := h.users.Register(ctx, r.UserID, r.Username, r.FullName(), r.Args)
	if err != nil {
		return err
	}
	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}

	return r.Reply(ctx, dialogue.Message{
		Text:   fmt.Sprintf("Привет, %s! 👋\n\nЯ помогу тебе учить английские слова по темам.", user.DisplayName()),
		Inline: [][]dialogue.Button{row(button("Начать обучение!", actStartLearning))},
	})
}

func (h *Handler) handleHelp(ctx context.Context, r *dialogue.Request) error {
	return r.Reply(ctx, dialogue.Message{Text: helpText, Keyboard: mainMenu()})
}

// handleCancel drops whatever flow is pending
func (h *Handler) handleCancel(ctx context.Context, r *dialogue.Request) error {
	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: "Действие отменено.\n\n" + msgMainMenu, Keyboard: mainMenu()})
}

func (h *Handler) handleMainMenu(ctx context.Context, r *dialogue.Request) error {
	return r.Reply(ctx, dialogue.Message{Text: msgMainMenu, Keyboard: mainMenu()})
}

func (h *Handler) handleDictionary(ctx context.Context, r *dialogue.Request) error {
	return r.Reply(ctx, dialogue.Message{Text: "📚 Словарь\n\nСоздайте тему или добавьте слова в существующую.", Keyboard: dictionaryMenu()})
}

// handleStopRepeat ends any running drill
func (h *Handler) handleStopRepeat(ctx context.Context, r *dialogue.Request) error {
	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: "Повторение завершено.\n\n" + msgMainMenu, Keyboard: mainMenu()})
}
