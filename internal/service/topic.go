package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

// TopicService handles topic-related business logic
type TopicService struct {
	topicRepo repository.TopicRepository
	dictRepo  repository.DictionaryRepository
	profile   *ProfileService
	logger    *zap.Logger
}

// NewTopicService creates a new topic service
func NewTopicService(
	topicRepo repository.TopicRepository,
	dictRepo repository.DictionaryRepository,
	profile *ProfileService,
	logger *zap.Logger,
) *TopicService {
	return &TopicService{
		topicRepo: topicRepo,
		dictRepo:  dictRepo,
		profile:   profile,
		logger:    logger,
	}
}

// Create validates the name and stores a new private topic. A name the
// author already uses fails with repository.ErrDuplicate.
func (s *TopicService) Create(ctx context.Context, authorID int64, name string) (*domain.Topic, error) {
	name, err := domain.CleanInput(name)
	if err != nil {
		return nil, err
	}

	topic, err := s.topicRepo.Create(ctx, authorID, name, false)
	if err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	if _, err := s.profile.RecountTopics(ctx, authorID); err != nil {
		s.logger.Warn("Failed to recount topics", zap.Int64("user_id", authorID), zap.Error(err))
	}
	return topic, nil
}

// Get returns a topic visible to the user or repository.ErrNotFound
func (s *TopicService) Get(ctx context.Context, userID, topicID int64) (*domain.Topic, error) {
	topic, err := s.topicRepo.Get(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}
	if topic == nil || !topic.VisibleTo(userID) {
		return nil, repository.ErrNotFound
	}
	return topic, nil
}

// Search lists the topics visible to the user whose name contains query.
// An empty query lists all of them.
func (s *TopicService) Search(ctx context.Context, userID int64, query string) ([]domain.Topic, error) {
	topics, err := s.topicRepo.Search(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("search topics: %w", err)
	}
	return topics, nil
}

// WordCount returns how many words the user keeps under the topic
func (s *TopicService) WordCount(ctx context.Context, userID, topicID int64) (int, error) {
	n, err := s.dictRepo.CountByTopic(ctx, userID, topicID)
	if err != nil {
		return 0, fmt.Errorf("count topic words: %w", err)
	}
	return n, nil
}

func (s *TopicService) owned(ctx context.Context, userID, topicID int64) (*domain.Topic, error) {
	topic, err := s.Get(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	if !topic.OwnedBy(userID) {
		return nil, ErrNotOwner
	}
	return topic, nil
}

// Delete removes the topic with every dictionary entry under it. Only the
// author may delete a topic. Everyone who lost entries gets the word
// counter recounted.
func (s *TopicService) Delete(ctx context.Context, userID, topicID int64) (repository.RemovedEntries, error) {
	if _, err := s.owned(ctx, userID, topicID); err != nil {
		return nil, err
	}

	removed, err := s.topicRepo.DeleteCascade(ctx, topicID, userID)
	if err != nil {
		return nil, fmt.Errorf("delete topic: %w", err)
	}

	s.logger.Info("Topic deleted",
		zap.Int64("user_id", userID),
		zap.Int64("topic_id", topicID),
		zap.Int64("entries", removed.Total()),
		zap.Int("users", len(removed)),
	)

	s.recountWords(ctx, userID)
	for affected := range removed {
		if affected != userID {
			s.recountWords(ctx, affected)
		}
	}
	if _, err := s.profile.RecountTopics(ctx, userID); err != nil {
		s.logger.Warn("Failed to recount topics", zap.Int64("user_id", userID), zap.Error(err))
	}
	return removed, nil
}

func (s *TopicService) recountWords(ctx context.Context, userID int64) {
	if _, err := s.profile.RecountWords(ctx, userID); err != nil {
		s.logger.Warn("Failed to recount words", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// ToggleVisibility flips the topic between private and public
func (s *TopicService) ToggleVisibility(ctx context.Context, userID, topicID int64) (*domain.Topic, error) {
	topic, err := s.owned(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}

	if err := s.topicRepo.SetVisible(ctx, topicID, userID, !topic.Visible); err != nil {
		return nil, fmt.Errorf("set topic visibility: %w", err)
	}
	topic.Visible = !topic.Visible
	return topic, nil
}
