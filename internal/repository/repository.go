// Package repository declares the storage interfaces the service layer
// depends on. Two implementations exist: sqlite (embedded, the default) and
// postgres (selected by a postgres:// DATABASE_URL).
package repository

import (
	"context"

	"github.com/soarr/flightlog/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict if the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail returns the user with the given (normalized) email, or
	// apperror.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID returns the user with the given ID, or apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// UpsertByGitHubID inserts the user on first GitHub sign-in and
	// refreshes the email on subsequent ones, keyed by user.GitHubID.
	// user.ID is populated either way.
	UpsertByGitHubID(ctx context.Context, user *model.User) error

	// Delete removes the user and every flight it owns, atomically.
	Delete(ctx context.Context, id string) error
}

// FlightRepository persists flight records. Every operation is scoped to an
// owning user; a flight belonging to someone else behaves exactly like a
// flight that does not exist.
type FlightRepository interface {
	// Create inserts one flight, assigning ID and CreatedAt.
	Create(ctx context.Context, flight *model.Flight) error

	// CreateBatch inserts all flights in a single transaction; on any
	// failure none are stored.
	CreateBatch(ctx context.Context, flights []*model.Flight) error

	// ListByUser returns the user's flights ordered by flight date
	// descending, most recently created first within the same date.
	ListByUser(ctx context.Context, userID string) ([]model.Flight, error)

	// GetByID returns one owned flight or apperror.ErrNotFound.
	GetByID(ctx context.Context, userID, id string) (*model.Flight, error)

	// Delete removes one owned flight or returns apperror.ErrNotFound.
	Delete(ctx context.Context, userID, id string) error

	// CountSeed returns how many seed-flagged flights the user has.
	CountSeed(ctx context.Context, userID string) (int, error)

	// DeleteSeed removes all the user's seed-flagged flights and returns
	// how many were removed.
	DeleteSeed(ctx context.Context, userID string) (int64, error)
}

// Store bundles the repositories behind one handle that owns the underlying
// connection pool.
type Store interface {
	Users() UserRepository
	Flights() FlightRepository
	Close() error
}
