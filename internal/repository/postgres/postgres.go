// Package postgres implements the repository interfaces on PostgreSQL,
// using the pgx stdlib driver and goose migrations embedded in the binary.
// It is selected at startup when DATABASE_URL carries a postgres DSN.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "pgx" driver with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/soarr/flightlog/internal/repository"
	"github.com/soarr/flightlog/internal/repository/postgres/migrations"
)

// DB wraps a sql.DB connection pool and implements repository.Store.
type DB struct {
	conn *sql.DB
}

var _ repository.Store = (*DB)(nil)

// New connects to the database at dsn and brings the schema up to date.
func New(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	if err := runMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

func runMigrations(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, conn, ".")
}

// userRepo is the user repository view of the store; it exists so the
// user-facing Create/GetByID/Delete methods don't collide with the flight
// methods of the same name on *DB.
type userRepo struct{ *DB }

// Users returns the user repository view of this store.
func (db *DB) Users() repository.UserRepository { return userRepo{db} }

// Flights returns the flight repository view of this store.
func (db *DB) Flights() repository.FlightRepository { return db }

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
