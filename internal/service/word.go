package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

// WordService handles word-related business logic
type WordService struct {
	dictRepo repository.DictionaryRepository
	profile  *ProfileService
	logger   *zap.Logger
}

// NewWordService creates a new word service
func NewWordService(dictRepo repository.DictionaryRepository, profile *ProfileService, logger *zap.Logger) *WordService {
	return &WordService{
		dictRepo: dictRepo,
		profile:  profile,
		logger:   logger,
	}
}

// Add saves a word-translation pair under the topic. A word already present
// in the topic fails with repository.ErrDuplicate.
func (s *WordService) Add(ctx context.Context, userID, topicID int64, word, translation string) error {
	word, err := domain.CleanInput(word)
	if err != nil {
		return err
	}
	translation, err = domain.CleanInput(translation)
	if err != nil {
		return err
	}

	entry := domain.Entry{
		UserID:      userID,
		TopicID:     topicID,
		Word:        word,
		Translation: translation,
	}
	if err := s.dictRepo.Add(ctx, entry); err != nil {
		return fmt.Errorf("add word: %w", err)
	}

	s.recount(ctx, userID)
	return nil
}

// Delete removes the word from the topic or fails with repository.ErrNotFound
func (s *WordService) Delete(ctx context.Context, userID, topicID int64, word string) error {
	word, err := domain.CleanInput(word)
	if err != nil {
		return err
	}

	deleted, err := s.dictRepo.Delete(ctx, userID, topicID, word)
	if err != nil {
		return fmt.Errorf("delete word: %w", err)
	}
	if !deleted {
		return repository.ErrNotFound
	}

	s.recount(ctx, userID)
	return nil
}

func (s *WordService) recount(ctx context.Context, userID int64) {
	if _, err := s.profile.RecountWords(ctx, userID); err != nil {
		s.logger.Warn("Failed to recount words", zap.Int64("user_id", userID), zap.Error(err))
	}
}
