package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/promoterhq/promoter-api/internal/store"
)

// PostgreSQL error codes we translate into store sentinels.
const (
	uniqueViolationCode      = "23505"
	checkViolationCode       = "23514"
	notNullViolationCode     = "23502"
	serializationFailure     = "40001"
	deadlockDetectedCode     = "40P01"
	invalidTextRepresentCode = "22P02"
)

// MapError maps a database error to an appropriate store error, wrapping
// the original to preserve context. Use on every database operation so the
// API layer can classify failures without knowing pg error codes.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: duplicate key: %v", store.ErrTransactionFailed, err)
		case checkViolationCode, notNullViolationCode, invalidTextRepresentCode:
			return fmt.Errorf("%w: %v", store.ErrInvalidState, err)
		case serializationFailure, deadlockDetectedCode:
			return fmt.Errorf("%w: %v", store.ErrTransactionFailed, err)
		}
	}

	return err
}
