package postgres

import (
	"context"
	"database/sql"

	"vocabbot/internal/domain"
)

// DictionaryRepo implements repository.DictionaryRepository
type DictionaryRepo struct {
	db *sql.DB
}

// NewDictionaryRepo creates a new dictionary repository
func NewDictionaryRepo(db *sql.DB) *DictionaryRepo {
	return &DictionaryRepo{db: db}
}

// Add saves a word-translation pair. The primary key rejects a second copy
// of the same word in the same topic.
func (r *DictionaryRepo) Add(ctx context.Context, entry domain.Entry) error {
	query := `
		INSERT INTO user_dictionary (user_id, topic_id, word, translation)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, entry.UserID, entry.TopicID, entry.Word, entry.Translation)
	return translateError(err)
}

// ListByTopic returns every pair the user saved under the topic
func (r *DictionaryRepo) ListByTopic(ctx context.Context, userID, topicID int64) ([]domain.Entry, error) {
	query := `
		SELECT user_id, topic_id, word, translation, created_at
		FROM user_dictionary
		WHERE user_id = $1 AND topic_id = $2
		ORDER BY created_at, word
	`
	rows, err := r.db.QueryContext(ctx, query, userID, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.UserID, &e.TopicID, &e.Word, &e.Translation, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountByUser returns how many pairs the user saved in all topics
func (r *DictionaryRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_dictionary WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

// CountByTopic returns how many pairs the user saved under the topic
func (r *DictionaryRepo) CountByTopic(ctx context.Context, userID, topicID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_dictionary WHERE user_id = $1 AND topic_id = $2`
	err := r.db.QueryRowContext(ctx, query, userID, topicID).Scan(&count)
	return count, err
}

// Delete removes one word from the topic and reports whether it existed
func (r *DictionaryRepo) Delete(ctx context.Context, userID, topicID int64, word string) (bool, error) {
	query := `
		DELETE FROM user_dictionary
		WHERE user_id = $1 AND topic_id = $2 AND word = $3
	`
	res, err := r.db.ExecContext(ctx, query, userID, topicID, word)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
