package sqlite

import (
	"context"
	"database/sql"
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

// Create inserts one flight, assigning ID and CreatedAt.
func (db *DB) Create(ctx context.Context, flight *model.Flight) error {
	flight.ID = xid.New().String()
	flight.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO flights (`+flightColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		flightInsertArgs(flight)...,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating flight: %w", err)
	}

	return nil
}

// CreateBatch inserts all flights inside a single transaction; any failure
// rolls the whole batch back.
func (db *DB) CreateBatch(ctx context.Context, flights []*model.Flight) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning batch insert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, flight := range flights {
		flight.ID = xid.New().String()
		flight.CreatedAt = now

		_, err := tx.ExecContext(ctx,
			`INSERT INTO flights (`+flightColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			flightInsertArgs(flight)...,
		)
		if err != nil {
			return fmt.Errorf("sqlite: batch-inserting flight: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing batch insert: %w", err)
	}
	return nil
}

// ListByUser returns all the user's flights, most recent flight date first.
// created_at DESC breaks date ties deterministically.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Flight, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+flightColumns+`
		 FROM flights
		 WHERE user_id = ?
		 ORDER BY flight_date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing flights: %w", err)
	}
	defer rows.Close()

	flights := make([]model.Flight, 0, 16)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning flight row: %w", err)
		}
		flights = append(flights, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating flights: %w", err)
	}

	return flights, nil
}

// GetByID returns one flight owned by userID, or apperror.ErrNotFound —
// including when the flight exists but belongs to someone else.
func (db *DB) GetByID(ctx context.Context, userID, id string) (*model.Flight, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+flightColumns+`
		 FROM flights WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	f, err := scanFlight(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("flight", id)
		}
		return nil, fmt.Errorf("sqlite: getting flight %s: %w", id, err)
	}

	return f, nil
}

// Delete removes one owned flight; 0 rows affected means not found (or not
// owned, which reads the same from outside).
func (db *DB) Delete(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM flights WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting flight %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
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
		`SELECT COUNT(*) FROM flights WHERE user_id = ? AND is_seed = 1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting seed flights: %w", err)
	}
	return count, nil
}

// DeleteSeed removes all the user's seed-flagged flights.
func (db *DB) DeleteSeed(ctx context.Context, userID string) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM flights WHERE user_id = ? AND is_seed = 1`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting seed flights: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
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
		nullableTime(f.FlightDate),
		nullableTime(f.DepartureTime),
		nullableTime(f.ArrivalTime),
		nullableInt(f.DurationMinutes),
		f.Notes,
		f.IsSeed,
		f.CreatedAt,
	}
}

// scanner covers both *sql.Row and *sql.Rows.
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

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullableInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
