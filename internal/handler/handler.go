package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
	"vocabbot/internal/service"
	"vocabbot/internal/session"
)

// Services bundles the business services the flows use
type Services struct {
	Users   *service.UserService
	Profile *service.ProfileService
	Topics  *service.TopicService
	Words   *service.WordService
	Quiz    *service.QuizService
	Grammar *service.GrammarService
}

// Handler implements every conversation flow of the bot
type Handler struct {
	users   *service.UserService
	profile *service.ProfileService
	topics  *service.TopicService
	words   *service.WordService
	quiz    *service.QuizService
	grammar *service.GrammarService

	store       session.Store
	botUsername string
	logger      *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(svc Services, store session.Store, botUsername string, logger *zap.Logger) *Handler {
	return &Handler{
		users:       svc.Users,
		profile:     svc.Profile,
		topics:      svc.Topics,
		words:       svc.Words,
		quiz:        svc.Quiz,
		grammar:     svc.Grammar,
		store:       store,
		botUsername: botUsername,
		logger:      logger,
	}
}

// Register installs all flows on the router
func (h *Handler) Register(r *dialogue.Router) {
	r.SetMenu(mainMenu())

	// Commands
	r.Command("start", h.handleStart)
	r.Command("help", h.handleHelp)
	r.Command("cancel", h.handleCancel)

	// Menu texts, valid in any state
	r.Text(btnDictionary, h.menu(h.handleDictionary))
	r.Text(btnBack, h.menu(h.handleMainMenu))
	r.Text(btnCancel, h.handleCancel)
	r.Text(btnProfile, h.menu(h.handleProfile))
	r.Text(btnRepeat, h.menu(h.handleRepeat))
	r.Text(btnGrammar, h.menu(h.handleGrammar))
	r.Text(btnAddTopic, h.menu(h.handleAddTopic))
	r.Text(btnAddWords, h.menu(h.handleAddWords))
	r.Text(btnStopRepeat, h.handleStopRepeat)

	// Free text by state
	r.State(domain.StateAwaitingTopicName, h.handleTopicName)
	r.State(domain.StateAwaitingTopicSearch, h.handleTopicSearch)
	r.State(domain.StateAwaitingWord, h.handleWord)
	r.State(domain.StateAwaitingTranslation, h.handleTranslation)
	r.State(domain.StateAwaitingDeletionTarget, h.handleDeletionTarget)
	r.State(domain.StateQuizEnRu, h.handleAnswer)
	r.State(domain.StateQuizRuEn, h.handleAnswer)
	r.State(domain.StateAwaitingVerb, h.handleVerbLookup)
	r.State(domain.StateVerbPastSimple, h.handleVerbPastSimple)
	r.State(domain.StateVerbPastParticiple, h.handleVerbPastParticiple)

	// Inline buttons
	r.Callback(actStartLearning, h.handleMainMenu)
	r.Callback(actTopLeaders, h.handleLeaders)
	r.Callback(actTopic, h.handleTopicCard)
	r.Callback(actSearch, h.handleSearch)
	r.Callback(actVisibility, h.handleVisibility)
	r.Callback(actDeleteTopic, h.handleDeleteTopic)
	r.Callback(actConfirmDelete, h.handleConfirmDelete)
	r.Callback(actCancelDelete, h.handleCancelDelete)
	r.Callback(actAddWords, h.handleAddWordsTo)
	r.Callback(actDeleteWord, h.handleDeleteWordFrom)
	r.Callback(actQuiz, h.handleQuizTopic)
	r.Callback(actEnRu, h.direction(domain.DirectionEnRu))
	r.Callback(actRuEn, h.direction(domain.DirectionRuEn))
	r.Callback(actIrregularVerbs, h.handleIrregularVerbs)
	r.Callback(actTenses, h.handleTenses)
	r.Callback(actTense, h.handleTense)
	r.Callback(actVerbDrill, h.handleVerbDrill)
}

// menu wraps a menu handler so it starts from a clean state
func (h *Handler) menu(next dialogue.HandlerFunc) dialogue.HandlerFunc {
	return func(ctx context.Context, r *dialogue.Request) error {
		if err := h.store.Clear(ctx, r.UserID); err != nil {
			return err
		}
		r.State = domain.StateIdle
		return next(ctx, r)
	}
}

// rejectInput answers validation errors and reports whether err was one
func rejectInput(ctx context.Context, r *dialogue.Request, err error) (bool, error) {
	switch {
	case errors.Is(err, domain.ErrCommandText):
		return true, r.Reply(ctx, dialogue.Message{Text: msgCommandInput, Keyboard: cancelMenu()})
	case errors.Is(err, domain.ErrEmptyText):
		return true, r.Reply(ctx, dialogue.Message{Text: msgEmptyInput, Keyboard: cancelMenu()})
	}
	return false, nil
}

// payload loads the current flow payload
func (h *Handler) payload(ctx context.Context, r *dialogue.Request) (domain.Payload, error) {
	return h.store.Payload(ctx, r.UserID)
}

// expired resets a flow whose payload went missing
func (h *Handler) expired(ctx context.Context, r *dialogue.Request) error {
	h.logger.Warn("Flow payload missing",
		zap.Int64("user_id", r.UserID),
		zap.String("state", string(r.State)),
	)
	if err := h.store.Clear(ctx, r.UserID); err != nil {
		return err
	}
	return r.Reply(ctx, dialogue.Message{Text: dialogue.CancelledText, Keyboard: mainMenu()})
}
