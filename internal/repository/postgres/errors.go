package postgres

import (
	"errors"

	"github.com/lib/pq"

	"vocabbot/internal/repository"
)

// uniqueViolation is the SQLSTATE of a unique constraint failure
const uniqueViolation pq.ErrorCode = "23505"

// translateError maps driver errors onto repository sentinels
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
