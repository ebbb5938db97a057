package service

import (
	"context"
	"fmt"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

// GrammarService serves the read-only grammar reference
type GrammarService struct {
	refRepo repository.ReferenceRepository
}

// NewGrammarService creates a new grammar service
func NewGrammarService(refRepo repository.ReferenceRepository) *GrammarService {
	return &GrammarService{refRepo: refRepo}
}

// FindVerb looks an irregular verb up by its infinitive
func (s *GrammarService) FindVerb(ctx context.Context, form string) (*domain.IrregularVerb, error) {
	form, err := domain.CleanInput(form)
	if err != nil {
		return nil, err
	}

	verb, err := s.refRepo.FindVerb(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("find verb: %w", err)
	}
	if verb == nil {
		return nil, repository.ErrNotFound
	}
	return verb, nil
}

// RandomVerb returns a random irregular verb for the drill
func (s *GrammarService) RandomVerb(ctx context.Context) (*domain.IrregularVerb, error) {
	verb, err := s.refRepo.RandomVerb(ctx)
	if err != nil {
		return nil, fmt.Errorf("random verb: %w", err)
	}
	if verb == nil {
		return nil, repository.ErrNotFound
	}
	return verb, nil
}

// Tenses lists all tenses in reference order
func (s *GrammarService) Tenses(ctx context.Context) ([]domain.Tense, error) {
	tenses, err := s.refRepo.Tenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenses: %w", err)
	}
	return tenses, nil
}

// Tense returns one tense by name
func (s *GrammarService) Tense(ctx context.Context, name string) (*domain.Tense, error) {
	tense, err := s.refRepo.Tense(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get tense: %w", err)
	}
	if tense == nil {
		return nil, repository.ErrNotFound
	}
	return tense, nil
}
