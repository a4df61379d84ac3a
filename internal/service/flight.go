package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/soarr/flightlog/internal/apperror"
	"github.com/soarr/flightlog/internal/model"
	"github.com/soarr/flightlog/internal/repository"
)

// MaxTextLength caps every free-text field before storage.
const MaxTextLength = 500

// airportCodePattern matches IATA-style codes after uppercasing.
var airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// FlightInput is a create-flight payload as submitted by the client. All
// fields are optional strings; parsing and validation happen in Create.
type FlightInput struct {
	FlightNumber  string `json:"flight_number"`
	Aircraft      string `json:"aircraft"`
	CabinClass    string `json:"cabin_class"`
	DepartureCode string `json:"departure_code"`
	DepartureCity string `json:"departure_city"`
	ArrivalCode   string `json:"arrival_code"`
	ArrivalCity   string `json:"arrival_city"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	FlightDate    string `json:"flight_date"`
	Notes         string `json:"notes"`
}

// FlightService handles validation and persistence of flight records, plus
// the sample-data seeding operations.
type FlightService struct {
	flights repository.FlightRepository
	logger  *slog.Logger
	now     func() time.Time // injectable clock; date defaulting and seed dates depend on it
}

// NewFlightService creates a FlightService.
func NewFlightService(flights repository.FlightRepository, logger *slog.Logger) *FlightService {
	return &FlightService{
		flights: flights,
		logger:  logger,
		now:     time.Now,
	}
}

// Create validates, sanitizes, and stores one flight for userID.
//
// Airport codes are uppercased and must then be exactly three letters.
// Cabin class must be one of the enumerated values when present. Free text
// is length-capped and HTML-escaped. The flight date defaults to today;
// times are accepted as full ISO timestamps or as bare "HH:MM" combined
// with the flight date. When both times resolve, the duration is computed
// with a single midnight-rollover correction.
func (s *FlightService) Create(ctx context.Context, userID string, in FlightInput) (*model.Flight, error) {
	departureCode, err := normalizeAirportCode("departure_code", in.DepartureCode)
	if err != nil {
		return nil, err
	}
	arrivalCode, err := normalizeAirportCode("arrival_code", in.ArrivalCode)
	if err != nil {
		return nil, err
	}

	cabinClass := strings.TrimSpace(in.CabinClass)
	if cabinClass != "" && !model.ValidCabinClass(cabinClass) {
		return nil, apperror.ValidationFailed("cabin_class",
			fmt.Sprintf("cabin class must be one of: %s", strings.Join(model.CabinClasses, ", ")))
	}

	flightDate, err := s.parseFlightDate(in.FlightDate)
	if err != nil {
		return nil, err
	}

	departureTime, err := parseFlightTime("departure_time", in.DepartureTime, flightDate)
	if err != nil {
		return nil, err
	}
	arrivalTime, err := parseFlightTime("arrival_time", in.ArrivalTime, flightDate)
	if err != nil {
		return nil, err
	}

	flight := &model.Flight{
		UserID:        userID,
		FlightNumber:  sanitizeText(in.FlightNumber),
		Aircraft:      sanitizeText(in.Aircraft),
		CabinClass:    cabinClass,
		DepartureCode: departureCode,
		DepartureCity: sanitizeText(in.DepartureCity),
		ArrivalCode:   arrivalCode,
		ArrivalCity:   sanitizeText(in.ArrivalCity),
		FlightDate:    &flightDate,
		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
		Notes:         sanitizeText(in.Notes),
	}

	if departureTime != nil && arrivalTime != nil {
		minutes := model.DurationMinutes(*departureTime, *arrivalTime)
		flight.DurationMinutes = &minutes
	}

	if err := s.flights.Create(ctx, flight); err != nil {
		s.logger.Error("failed to create flight",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating flight: %w", err)
	}

	s.logger.Info("flight created",
		slog.String("id", flight.ID),
		slog.String("userID", userID),
	)

	return flight, nil
}

// List returns all the caller's flights, most recent flight date first.
func (s *FlightService) List(ctx context.Context, userID string) ([]model.Flight, error) {
	flights, err := s.flights.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list flights",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing flights: %w", err)
	}
	return flights, nil
}

// Get returns one owned flight or a not-found error.
func (s *FlightService) Get(ctx context.Context, userID, id string) (*model.Flight, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "flight ID is required")
	}
	return s.flights.GetByID(ctx, userID, id)
}

// Delete removes one owned flight or returns a not-found error.
func (s *FlightService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "flight ID is required")
	}

	if err := s.flights.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("flight deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return nil
}

// AddSeedData inserts the illustrative sample flights for userID, in one
// transaction. Rejected as a conflict if the user already has seed data.
func (s *FlightService) AddSeedData(ctx context.Context, userID string) ([]model.Flight, error) {
	count, err := s.flights.CountSeed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking for existing sample data: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict("sample data already added")
	}

	seeds := sampleFlights(userID, s.now())
	if err := s.flights.CreateBatch(ctx, seeds); err != nil {
		return nil, fmt.Errorf("inserting sample data: %w", err)
	}

	s.logger.Info("sample data added",
		slog.String("userID", userID),
		slog.Int("count", len(seeds)),
	)

	flights := make([]model.Flight, 0, len(seeds))
	for _, f := range seeds {
		flights = append(flights, *f)
	}
	return flights, nil
}

// RemoveSeedData deletes all the caller's seed-flagged flights; not-found
// when there are none.
func (s *FlightService) RemoveSeedData(ctx context.Context, userID string) error {
	deleted, err := s.flights.DeleteSeed(ctx, userID)
	if err != nil {
		return fmt.Errorf("removing sample data: %w", err)
	}
	if deleted == 0 {
		return apperror.NotFound("sample data", userID)
	}

	s.logger.Info("sample data removed",
		slog.String("userID", userID),
		slog.Int64("count", deleted),
	)
	return nil
}

func (s *FlightService) parseFlightDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	// A bare date is the common case, but a full ISO timestamp is accepted
	// too; its time-of-day part is discarded.
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, apperror.ValidationFailed("flight_date",
		"invalid flight date: must be YYYY-MM-DD or an ISO timestamp")
}

// parseFlightTime accepts either a full ISO timestamp or a bare "HH:MM"
// clock time, the latter combined with the flight date. An empty input is
// not an error — the field is simply absent.
func parseFlightTime(field, raw string, flightDate time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.Contains(raw, "T") {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t, nil
			}
		}
		return nil, apperror.ValidationFailed(field,
			fmt.Sprintf("invalid %s: must be an ISO timestamp or HH:MM", field))
	}

	clock, err := time.Parse("15:04", raw)
	if err != nil {
		return nil, apperror.ValidationFailed(field,
			fmt.Sprintf("invalid %s: must be an ISO timestamp or HH:MM", field))
	}

	combined := time.Date(
		flightDate.Year(), flightDate.Month(), flightDate.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC,
	)
	return &combined, nil
}

func normalizeAirportCode(field, raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", nil
	}
	if !airportCodePattern.MatchString(code) {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("invalid %s: must be a 3-letter airport code", field))
	}
	return code, nil
}

// sanitizeText length-caps and HTML-escapes a free-text field. Truncation
// happens on runes, before escaping, so an entity is never cut in half.
func sanitizeText(raw string) string {
	text := strings.TrimSpace(raw)
	if runes := []rune(text); len(runes) > MaxTextLength {
		text = string(runes[:MaxTextLength])
	}
	return html.EscapeString(text)
}
