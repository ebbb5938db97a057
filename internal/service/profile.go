package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

// LeaderboardSize is how many users the leaderboard shows
const LeaderboardSize = 15

// ProfileService recomputes the cached user counters and elite status
type ProfileService struct {
	userRepo  repository.UserRepository
	topicRepo repository.TopicRepository
	dictRepo  repository.DictionaryRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo repository.UserRepository,
	topicRepo repository.TopicRepository,
	dictRepo repository.DictionaryRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:  userRepo,
		topicRepo: topicRepo,
		dictRepo:  dictRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// RecountWords counts the user's dictionary entries and stores the result
func (s *ProfileService) RecountWords(ctx context.Context, userID int64) (int, error) {
	count, err := s.dictRepo.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	if err := s.userRepo.SetLearnedWordsCount(ctx, userID, count); err != nil {
		return 0, fmt.Errorf("store words count: %w", err)
	}
	return count, nil
}

// RecountTopics counts the topics authored by the user and stores the result
func (s *ProfileService) RecountTopics(ctx context.Context, userID int64) (int, error) {
	count, err := s.topicRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	if err := s.userRepo.SetTopicsCount(ctx, userID, count); err != nil {
		return 0, fmt.Errorf("store topics count: %w", err)
	}
	return count, nil
}

// Profile refreshes the user's counters and elite status and returns the user
func (s *ProfileService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	if _, err := s.RecountWords(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.RecountTopics(ctx, userID); err != nil {
		return nil, err
	}

	expired, err := s.userRepo.ExpireElite(ctx, userID, s.now().Add(-domain.EliteDuration))
	if err != nil {
		return nil, fmt.Errorf("expire elite status: %w", err)
	}
	if expired {
		s.logger.Info("Elite status expired", zap.Int64("user_id", userID))
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

// Leaders returns the users with the most learned words
func (s *ProfileService) Leaders(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.TopByLearnedWords(ctx, LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return users, nil
}

// ExpireEliteStatuses drops every elite status older than domain.EliteDuration
func (s *ProfileService) ExpireEliteStatuses(ctx context.Context) error {
	cutoff := s.now().Add(-domain.EliteDuration)

	s.logger.Info("Starting elite status sweep", zap.Time("cutoff", cutoff))

	n, err := s.userRepo.ExpireEliteBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to expire elite statuses", zap.Error(err))
		return err
	}

	s.logger.Info("Elite status sweep completed", zap.Int64("expired", n))
	return nil
}
