package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

const referralCodeLength = 10

// NewReferralCode generates a short random referral code
func NewReferralCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:referralCodeLength]
}

// ParseReferralCode extracts the code from a /start argument. Deep links
// sometimes arrive as "=code".
func ParseReferralCode(arg string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(arg), "="))
}

// UserService handles user registration and referrals
type UserService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
	newCode  func() string
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
		newCode:  NewReferralCode,
	}
}

// EnsureUser creates the user row on first contact and refreshes names later
func (s *UserService) EnsureUser(ctx context.Context, userID int64, username, fullName string) error {
	user := &domain.User{
		UserID:       userID,
		Username:     username,
		FullName:     fullName,
		ReferralCode: s.newCode(),
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// Register ensures the user exists and records the referrer behind code.
// Unknown codes and self-referrals are ignored.
func (s *UserService) Register(ctx context.Context, userID int64, username, fullName, code string) (*domain.User, error) {
	if err := s.EnsureUser(ctx, userID, username, fullName); err != nil {
		return nil, err
	}

	if code = ParseReferralCode(code); code != "" {
		if err := s.attachReferral(ctx, userID, code); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, userID)
}

func (s *UserService) attachReferral(ctx context.Context, userID int64, code string) error {
	referrerID, err := s.userRepo.UserIDByReferralCode(ctx, code)
	if err != nil {
		return fmt.Errorf("lookup referral code: %w", err)
	}
	if referrerID == 0 || referrerID == userID {
		s.logger.Debug("Ignoring referral code", zap.Int64("user_id", userID), zap.String("code", code))
		return nil
	}

	attached, err := s.userRepo.SetReferrer(ctx, userID, referrerID)
	if err != nil {
		return fmt.Errorf("set referrer: %w", err)
	}
	if attached {
		s.logger.Info("Referral attached",
			zap.Int64("user_id", userID),
			zap.Int64("referrer_id", referrerID),
		)
	}
	return nil
}

// Get returns the user or repository.ErrNotFound
func (s *UserService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, repository.ErrNotFound
	}
	return user, nil
}
