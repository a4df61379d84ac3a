package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/xid"
	"github.com/soarr/flightlog/internal/apperror"
	"github.com/soarr/flightlog/internal/model"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// Create inserts a new user, assigning ID and CreatedAt. A duplicate email
// surfaces as apperror.ErrConflict.
func (db userRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, github_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		nullableInt64(user.GitHubID),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("postgres: creating user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by normalized email.
func (db userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `email = $1`, email)
}

// GetByID retrieves a user by internal ID.
func (db userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `id = $1`, id)
}

func (db userRepo) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u        model.User
		githubID sql.NullInt64
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, github_id, created_at
		 FROM users WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &githubID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("postgres: getting user: %w", err)
	}
	u.GitHubID = githubID.Int64

	return &u, nil
}

// UpsertByGitHubID inserts the user on first GitHub sign-in, or refreshes
// the email on subsequent sign-ins, keeping the existing internal ID.
func (db userRepo) UpsertByGitHubID(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = $1`, user.GitHubID,
	).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("postgres: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET email = $1 WHERE id = $2`,
			user.Email, user.ID,
		)
		if err != nil {
			return fmt.Errorf("postgres: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	return db.Create(ctx, user)
}

// Delete removes a user and every flight it owns in one transaction.
func (db userRepo) Delete(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: beginning delete of user %s: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flights WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("postgres: deleting flights of user %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deleting user %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: committing delete of user %s: %w", id, err)
	}
	return nil
}

func nullableInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
