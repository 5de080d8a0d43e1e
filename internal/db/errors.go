package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/sv8bshs/enrollment/internal/apperr"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// pgCode extracts the SQLSTATE from either driver: pgx in production, lib/pq in tests.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

func IsForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// translate maps driver errors onto the apperr kinds; anything else is returned as is.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.Wrap(op, apperr.ErrNotFound, err, "record not found")
	case IsUniqueViolation(err):
		return apperr.Wrap(op, apperr.ErrDuplicate, err, "record already exists")
	case IsForeignKeyViolation(err):
		return apperr.Wrap(op, apperr.ErrNotFound, err, "referenced student does not exist")
	}
	return err
}
