package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/leadsync/internal/entity"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"pgx unique violation", &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"leads_email_key\""}, entity.ErrDuplicateLead},
		{"pq unique violation", &pq.Error{Code: "23505", Message: "duplicate key"}, entity.ErrDuplicateLead},
		{"pgx check violation", &pgconn.PgError{Code: "23514", Message: "violates check constraint"}, entity.ErrStoreRejected},
		{"pq foreign key violation", &pq.Error{Code: "23503"}, entity.ErrStoreRejected},
		{"pgx malformed uuid", &pgconn.PgError{Code: "22P02"}, entity.ErrStoreRejected},
		{"no rows", sql.ErrNoRows, entity.ErrEmptyEcho},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyError(tt.err, "op"), tt.want)
		})
	}
}

func TestClassifyErrorLeavesTransportErrorsUnclassified(t *testing.T) {
	for _, err := range []error{context.DeadlineExceeded, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")} {
		got := classifyError(err, "op")
		assert.ErrorIs(t, got, err)
		assert.NotErrorIs(t, got, entity.ErrStoreRejected)
		assert.NotErrorIs(t, got, entity.ErrDuplicateLead)
	}
	assert.NoError(t, classifyError(nil, "op"))
}

func TestNewDBConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := NewDBConnection(context.Background(), "mysql", "user:pass@/db")
	assert.Error(t, err)
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "x", *nullString("x"))
}
