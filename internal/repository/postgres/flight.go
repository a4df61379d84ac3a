package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/soarr/flightlog/internal/apperror"
	"github.com/soarr/flightlog/internal/model"
)

const flightColumns = `id, user_id, flight_number, aircraft, cabin_class,
	departure_code, departure_city, arrival_code, arrival_city,
	flight_date, departure_time, arrival_time, duration_minutes,
	notes, is_seed, created_at`

const flightInsert = `INSERT INTO flights (` + flightColumns + `)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

// Create inserts one flight, assigning ID and CreatedAt.
func (db *DB) Create(ctx context.Context, flight *model.Flight) error {
	flight.ID = xid.New().String()
	flight.CreatedAt = time.Now().UTC()

	if _, err := db.conn.ExecContext(ctx, flightInsert, flightInsertArgs(flight)...); err != nil {
		return fmt.Errorf("postgres: creating flight: %w", err)
	}
	return nil
}

// CreateBatch inserts all flights inside a single transaction.
func (db *DB) CreateBatch(ctx context.Context, flights []*model.Flight) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: beginning batch insert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, flight := range flights {
		flight.ID = xid.New().String()
		flight.CreatedAt = now

		if _, err := tx.ExecContext(ctx, flightInsert, flightInsertArgs(flight)...); err != nil {
			return fmt.Errorf("postgres: batch-inserting flight: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: committing batch insert: %w", err)
	}
	return nil
}

// ListByUser returns all the user's flights, most recent flight date first.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Flight, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+flightColumns+`
		 FROM flights
		 WHERE user_id = $1
		 ORDER BY flight_date DESC NULLS LAST, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing flights: %w", err)
	}
	defer rows.Close()

	flights := make([]model.Flight, 0, 16)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning flight row: %w", err)
		}
		flights = append(flights, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating flights: %w", err)
	}

	return flights, nil
}

// GetByID returns one flight owned by userID, or apperror.ErrNotFound.
func (db *DB) GetByID(ctx context.Context, userID, id string) (*model.Flight, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+flightColumns+`
		 FROM flights WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("flight", id)
		}
		return nil, fmt.Errorf("postgres: getting flight %s: %w", id, err)
	}

	return f, nil
}

// Delete removes one owned flight.
func (db *DB) Delete(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM flights WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting flight %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("flight", id)
	}

	return nil
}

// CountSeed counts the user's seed-flagged flights.
func (db *DB) CountSeed(ctx context.Context, userID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flights WHERE user_id = $1 AND is_seed`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: counting seed flights: %w", err)
	}
	return count, nil
}

// DeleteSeed removes all the user's seed-flagged flights.
func (db *DB) DeleteSeed(ctx context.Context, userID string) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM flights WHERE user_id = $1 AND is_seed`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: deleting seed flights: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("postgres: checking rows affected: %w", err)
	}
	return rowsAffected, nil
}

func flightInsertArgs(f *model.Flight) []any {
	return []any{
		f.ID,
		f.UserID,
		f.FlightNumber,
		f.Aircraft,
		f.CabinClass,
		f.DepartureCode,
		f.DepartureCity,
		f.ArrivalCode,
		f.ArrivalCity,
		f.FlightDate,
		f.DepartureTime,
		f.ArrivalTime,
		f.DurationMinutes,
		f.Notes,
		f.IsSeed,
		f.CreatedAt,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFlight(row scanner) (*model.Flight, error) {
	var (
		f               model.Flight
		flightDate      sql.NullTime
		departureTime   sql.NullTime
		arrivalTime     sql.NullTime
		durationMinutes sql.NullInt64
	)
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.FlightNumber,
		&f.Aircraft,
		&f.CabinClass,
		&f.DepartureCode,
		&f.DepartureCity,
		&f.ArrivalCode,
		&f.ArrivalCity,
		&flightDate,
		&departureTime,
		&arrivalTime,
		&durationMinutes,
		&f.Notes,
		&f.IsSeed,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if flightDate.Valid {
		t := flightDate.Time
		f.FlightDate = &t
	}
	if departureTime.Valid {
		t := departureTime.Time
		f.DepartureTime = &t
	}
	if arrivalTime.Valid {
		t := arrivalTime.Time
		f.ArrivalTime = &t
	}
	if durationMinutes.Valid {
		m := int(durationMinutes.Int64)
		f.DurationMinutes = &m
	}

	return &f, nil
}
