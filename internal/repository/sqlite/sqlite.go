// Package sqlite implements the repository interfaces on an embedded SQLite
// database (modernc.org/sqlite — pure Go, no CGo). This is the default
// backend: a single file on disk, or ":memory:" in tests.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/soarr/flightlog/internal/repository"
)

// DB wraps a sql.DB connection pool and implements repository.Store.
type DB struct {
	conn *sql.DB
}

var _ repository.Store = (*DB)(nil)

// New opens (or creates) the database at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A single connection sidesteps SQLITE_BUSY under concurrent writes,
	// keeps the PRAGMAs below in effect for every query, and makes
	// ":memory:" behave as one database instead of one per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL keeps reads concurrent with writes; foreign_keys enables the
	// users→flights cascade (off by default in SQLite).
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
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

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS flights (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			flight_number    TEXT NOT NULL DEFAULT '',
			aircraft         TEXT NOT NULL DEFAULT '',
			cabin_class      TEXT NOT NULL DEFAULT '',
			departure_code   TEXT NOT NULL DEFAULT '',
			departure_city   TEXT NOT NULL DEFAULT '',
			arrival_code     TEXT NOT NULL DEFAULT '',
			arrival_city     TEXT NOT NULL DEFAULT '',
			flight_date      DATETIME,
			departure_time   DATETIME,
			arrival_time     DATETIME,
			duration_minutes INTEGER,
			notes            TEXT NOT NULL DEFAULT '',
			is_seed          BOOLEAN NOT NULL DEFAULT 0,
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_flights_user_date
			ON flights(user_id, flight_date DESC);
		CREATE INDEX IF NOT EXISTS idx_flights_user_seed
			ON flights(user_id, is_seed);
	`)
	if err != nil {
		return fmt.Errorf("creating flights table: %w", err)
	}

	return nil
}
