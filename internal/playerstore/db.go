// Package playerstore is the login flow's persistence layer: a narrow
// Postgres-backed store covering name/password lookup plus the handful
// of character fields worth saving between sessions.
//
// Shaped after la2go's internal/db package: a pgxpool-backed DB
// handle, goose migrations embedded via embed.FS, and a store struct
// per table using bcrypt for password hashing.
package playerstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB connects to Postgres and verifies the connection with a short
// ping, same as la2go's NewDB.
func NewDB(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	d.Pool.Close()
}
