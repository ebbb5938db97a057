package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"vocabbot/internal/repository"
)

func TestTopicRepo_Create(t *testing.T) {
	tests := []struct {
		name          string
		mockError     error
		expectedError error
	}{
		{
			name: "new topic",
		},
		{
			name:          "same name for same author",
			mockError:     &pq.Error{Code: "23505", Constraint: "topics_author_content_key"},
			expectedError: repository.ErrDuplicate,
		},
		{
			name:          "other database error",
			mockError:     &pq.Error{Code: "23503"},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewTopicRepo(db)
			authorID := int64(123)

			exp := mock.ExpectQuery("INSERT INTO topics \\(author_id, content, visible\\) VALUES \\(\\$1, \\$2, \\$3\\) RETURNING id").
				WithArgs(authorID, "Animals", false)
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			}

			topic, err := repo.Create(context.Background(), authorID, "Animals", false)

			switch {
			case tt.mockError == nil:
				assert.NoError(t, err)
				assert.Equal(t, int64(7), topic.ID)
				assert.Equal(t, "Animals", topic.Content)
				assert.Equal(t, authorID, topic.AuthorID)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, topic)
			default:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, repository.ErrDuplicate)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTopicRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTopicRepo(db)
	query := "SELECT id, author_id, content, visible FROM topics WHERE id = \\$1"

	mock.ExpectQuery(query).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "content", "visible"}).AddRow(7, 123, "Animals", true))
	mock.ExpectQuery(query).WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "content", "visible"}))

	topic, err := repo.Get(context.Background(), 7)
	assert.NoError(t, err)
	if assert.NotNil(t, topic) {
		assert.True(t, topic.Visible)
		assert.True(t, topic.OwnedBy(123))
	}

	topic, err = repo.Get(context.Background(), 8)
	assert.NoError(t, err)
	assert.Nil(t, topic)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepo_Search(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		expectedArg string
	}{
		{name: "all topics", query: "", expectedArg: ""},
		{name: "plain substring", query: "anim", expectedArg: "anim"},
		{name: "wildcards are literal", query: "100%_done", expectedArg: "100\\%\\_done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewTopicRepo(db)
			userID := int64(123)

			rows := sqlmock.NewRows([]string{"id", "author_id", "content", "visible"}).
				AddRow(7, 123, "Animals", false).
				AddRow(9, 456, "Animals shared", true)

			mock.ExpectQuery("SELECT id, author_id, content, visible FROM topics WHERE \\(author_id = \\$1 OR visible = TRUE\\) AND content ILIKE").
				WithArgs(userID, tt.expectedArg, searchLimit).
				WillReturnRows(rows)

			topics, err := repo.Search(context.Background(), userID, tt.query)

			assert.NoError(t, err)
			assert.Len(t, topics, 2)
			assert.Equal(t, int64(456), topics[1].AuthorID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTopicRepo_CountByAuthor(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTopicRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM topics WHERE author_id = \\$1").
		WithArgs(int64(123)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByAuthor(context.Background(), 123)

	assert.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepo_SetVisible(t *testing.T) {
	tests := []struct {
		name          string
		affected      int64
		expectedError error
	}{
		{name: "owner", affected: 1},
		{name: "not owner", affected: 0, expectedError: repository.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewTopicRepo(db)

			mock.ExpectExec("UPDATE topics SET visible = \\$3 WHERE id = \\$1 AND author_id = \\$2").
				WithArgs(int64(7), int64(123), true).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err = repo.SetVisible(context.Background(), 7, 123, true)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTopicRepo_DeleteCascade(t *testing.T) {
	selectQuery := "SELECT id FROM topics WHERE id = \\$1 AND author_id = \\$2 FOR UPDATE"
	deleteEntries := "DELETE FROM user_dictionary WHERE topic_id = \\$1 RETURNING user_id"
	deleteTopic := "DELETE FROM topics WHERE id = \\$1"
	topicID, authorID := int64(7), int64(123)

	t.Run("removes entries of every user and the topic in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).WithArgs(topicID, authorID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(topicID))
		mock.ExpectQuery(deleteEntries).WithArgs(topicID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).
				AddRow(authorID).AddRow(authorID).AddRow(int64(456)))
		mock.ExpectExec(deleteTopic).WithArgs(topicID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		removed, err := NewTopicRepo(db).DeleteCascade(context.Background(), topicID, authorID)

		assert.NoError(t, err)
		assert.Equal(t, repository.RemovedEntries{authorID: 2, 456: 1}, removed)
		assert.Equal(t, int64(3), removed.Total())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scan failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).WithArgs(topicID, authorID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(topicID))
		mock.ExpectQuery(deleteEntries).WithArgs(topicID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(authorID).RowError(0, fmt.Errorf("broken row")))
		mock.ExpectRollback()

		removed, err := NewTopicRepo(db).DeleteCascade(context.Background(), topicID, authorID)

		assert.Error(t, err)
		assert.Nil(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("topic missing or not owned", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).WithArgs(topicID, authorID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		removed, err := NewTopicRepo(db).DeleteCascade(context.Background(), topicID, authorID)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure after deleting entries rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).WithArgs(topicID, authorID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(topicID))
		mock.ExpectQuery(deleteEntries).WithArgs(topicID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(authorID))
		mock.ExpectExec(deleteTopic).WithArgs(topicID).WillReturnError(fmt.Errorf("connection lost"))
		mock.ExpectRollback()

		removed, err := NewTopicRepo(db).DeleteCascade(context.Background(), topicID, authorID)

		assert.Error(t, err)
		assert.Nil(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).WithArgs(topicID, authorID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(topicID))
		mock.ExpectQuery(deleteEntries).WithArgs(topicID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
		mock.ExpectExec(deleteTopic).WithArgs(topicID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(fmt.Errorf("serialization failure"))

		_, err = NewTopicRepo(db).DeleteCascade(context.Background(), topicID, authorID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "commit transaction")
	})
}
