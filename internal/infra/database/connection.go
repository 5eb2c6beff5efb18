package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	"github.com/rotisserie/eris"
)

const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

// NewDBConnection opens a pooled connection with either registered driver
// and pings it before returning.
func NewDBConnection(ctx context.Context, driver, connString string) (*sql.DB, error) {
	if driver == "" {
		driver = DriverPgx
	}
	if driver != DriverPgx && driver != DriverPq {
		return nil, eris.Errorf("database: unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, connString)
	if err != nil {
		return nil, eris.Wrap(err, "database: open")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "database: ping")
	}

	return db, nil
}
