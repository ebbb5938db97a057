package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vocabbot/internal/domain"
	"vocabbot/internal/repository"
)

// searchLimit caps topic search results
const searchLimit = 50

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TopicRepo implements repository.TopicRepository
type TopicRepo struct {
	db *sql.DB
}

// NewTopicRepo creates a new topic repository
func NewTopicRepo(db *sql.DB) *TopicRepo {
	return &TopicRepo{db: db}
}

// Create inserts a topic. A second topic with the same content for the same
// author is rejected by the (author_id, content) constraint.
func (r *TopicRepo) Create(ctx context.Context, authorID int64, content string, visible bool) (*domain.Topic, error) {
	t := domain.Topic{AuthorID: authorID, Content: content, Visible: visible}
	query := `
		INSERT INTO topics (author_id, content, visible)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, authorID, content, visible).Scan(&t.ID); err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// Get returns the topic or nil if it doesn't exist
func (r *TopicRepo) Get(ctx context.Context, topicID int64) (*domain.Topic, error) {
	var t domain.Topic
	query := `SELECT id, author_id, content, visible FROM topics WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, topicID).Scan(&t.ID, &t.AuthorID, &t.Content, &t.Visible)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Search returns topics the user owns or that are public, matching query
// as a case-insensitive substring. An empty query matches everything.
func (r *TopicRepo) Search(ctx context.Context, userID int64, query string) ([]domain.Topic, error) {
	sqlQuery := `
		SELECT id, author_id, content, visible
		FROM topics
		WHERE (author_id = $1 OR visible = TRUE)
			AND content ILIKE '%' || $2 || '%' ESCAPE '\'
		ORDER BY content, id
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, sqlQuery, userID, likeEscaper.Replace(query), searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.AuthorID, &t.Content, &t.Visible); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}

	return topics, rows.Err()
}

// CountByAuthor returns how many topics the user created
func (r *TopicRepo) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM topics WHERE author_id = $1`
	err := r.db.QueryRowContext(ctx, query, authorID).Scan(&count)
	return count, err
}

// SetVisible changes the visibility of a topic owned by authorID
func (r *TopicRepo) SetVisible(ctx context.Context, topicID, authorID int64, visible bool) error {
	query := `UPDATE topics SET visible = $3 WHERE id = $1 AND author_id = $2`
	res, err := r.db.ExecContext(ctx, query, topicID, authorID, visible)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteCascade removes a topic owned by authorID together with every
// dictionary entry under it, atomically. Public topics may hold entries of
// other users; the result counts removed entries per user.
func (r *TopicRepo) DeleteCascade(ctx context.Context, topicID, authorID int64) (repository.RemovedEntries, error) {
	removed := repository.RemovedEntries{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM topics WHERE id = $1 AND author_id = $2 FOR UPDATE`,
			topicID, authorID,
		).Scan(&id)
		if err == sql.ErrNoRows {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx,
			`DELETE FROM user_dictionary WHERE topic_id = $1 RETURNING user_id`,
			topicID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var userID int64
			if err := rows.Scan(&userID); err != nil {
				return err
			}
			removed[userID]++
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		_, err = tx.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, topicID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
