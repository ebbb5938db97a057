package postgres

import (
	"context"
	"database/sql"
	"time"

	"vocabbot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Upsert creates the user on first contact and refreshes the names later.
// Counters, elite status and the referral code are never overwritten.
func (r *UserRepo) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, username, full_name, referral_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET username = EXCLUDED.username, full_name = EXCLUDED.full_name
	`
	_, err := r.db.ExecContext(ctx, query, user.UserID, user.Username, user.FullName, user.ReferralCode)
	return translateError(err)
}

// Get returns the user or nil if it doesn't exist
func (r *UserRepo) Get(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	var eliteStartedAt sql.NullTime
	var referredBy sql.NullInt64
	query := `
		SELECT user_id, username, full_name, learned_words_count, topics_count,
			elite_status, elite_started_at, referral_code, referred_by, created_at
		FROM users
		WHERE user_id = $1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.UserID, &u.Username, &u.FullName, &u.LearnedWordsCount, &u.TopicsCount,
		&u.Elite, &eliteStartedAt, &u.ReferralCode, &referredBy, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if eliteStartedAt.Valid {
		u.EliteStartedAt = &eliteStartedAt.Time
	}
	if referredBy.Valid {
		u.ReferredBy = &referredBy.Int64
	}
	return &u, nil
}

// UserIDByReferralCode returns the owner of the code or 0 if unknown
func (r *UserRepo) UserIDByReferralCode(ctx context.Context, code string) (int64, error) {
	var userID int64
	query := `SELECT user_id FROM users WHERE referral_code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return userID, err
}

// SetReferrer records who invited the user. It only succeeds once and never
// for self-referral.
func (r *UserRepo) SetReferrer(ctx context.Context, userID, referrerID int64) (bool, error) {
	query := `
		UPDATE users
		SET referred_by = $2
		WHERE user_id = $1 AND referred_by IS NULL AND user_id <> $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, referrerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetLearnedWordsCount stores the recomputed learned words counter
func (r *UserRepo) SetLearnedWordsCount(ctx context.Context, userID int64, count int) error {
	query := `UPDATE users SET learned_words_count = $2 WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, count)
	return err
}

// SetTopicsCount stores the recomputed topics counter
func (r *UserRepo) SetTopicsCount(ctx context.Context, userID int64, count int) error {
	query := `UPDATE users SET topics_count = $2 WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, count)
	return err
}

// ExpireElite drops the user's elite status if it started before the given time
func (r *UserRepo) ExpireElite(ctx context.Context, userID int64, startedBefore time.Time) (bool, error) {
	query := `
		UPDATE users
		SET elite_status = FALSE, elite_started_at = NULL
		WHERE user_id = $1 AND elite_status = TRUE AND elite_started_at <= $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, startedBefore)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ExpireEliteBefore drops every elite status started before the given time
func (r *UserRepo) ExpireEliteBefore(ctx context.Context, startedBefore time.Time) (int64, error) {
	query := `
		UPDATE users
		SET elite_status = FALSE, elite_started_at = NULL
		WHERE elite_status = TRUE AND elite_started_at <= $1
	`
	res, err := r.db.ExecContext(ctx, query, startedBefore)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// TopByLearnedWords returns the leaderboard
func (r *UserRepo) TopByLearnedWords(ctx context.Context, limit int) ([]domain.User, error) {
	query := `
		SELECT user_id, username, full_name, learned_words_count
		FROM users
		ORDER BY learned_words_count DESC, user_id
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.UserID, &u.Username, &u.FullName, &u.LearnedWordsCount); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
