package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/rotisserie/eris"

	"github.com/xavierca1/leadsync/internal/entity"
)

const uniqueViolation = "23505"

// classifyError maps driver errors onto the entity store sentinels. Any
// server-side error (a SQLSTATE came back) is a rejection; everything else
// is left as-is and treated upstream as a transport failure.
func classifyError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return eris.Wrap(entity.ErrEmptyEcho, op)
	}

	code, detail, ok := sqlState(err)
	if !ok {
		return eris.Wrap(err, op)
	}
	if code == uniqueViolation {
		return eris.Wrapf(entity.ErrDuplicateLead, "%s: %s", op, detail)
	}
	return eris.Wrapf(entity.ErrStoreRejected, "%s: sqlstate %s: %s", op, code, detail)
}

func sqlState(err error) (code, detail string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.Message, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Message, true
	}
	return "", "", false
}
