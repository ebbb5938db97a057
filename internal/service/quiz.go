package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

// QuizService picks the questions of the drilling loop
type QuizService struct {
	dictRepo repository.DictionaryRepository
	pick     func(n int) int
}

// NewQuizService creates a quiz service picking uniformly at random
func NewQuizService(dictRepo repository.DictionaryRepository) *QuizService {
	return &QuizService{dictRepo: dictRepo, pick: rand.IntN}
}

// Next returns a random question from the user's words under the topic.
// Every call samples all words again, so repeats are possible.
func (s *QuizService) Next(ctx context.Context, userID, topicID int64, dir domain.Direction) (*domain.QuizItem, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("unknown quiz direction %q", dir)
	}

	entries, err := s.dictRepo.ListByTopic(ctx, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("list topic words: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoWords
	}

	return domain.NewQuizItem(entries[s.pick(len(entries))], dir), nil
}
