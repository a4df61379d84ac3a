package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/soarr/flightlog/internal/apperror"
	"github.com/soarr/flightlog/internal/auth"
	"github.com/soarr/flightlog/internal/model"
)

// In-memory fakes for the repository interfaces. The services only see the
// interface, so these swap in cleanly for the SQL implementations.

type mockUserRepo struct {
	users  map[string]*model.User // keyed by ID
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("email already registered")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) UpsertByGitHubID(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.GitHubID == user.GitHubID && u.GitHubID != 0 {
			u.Email = user.Email
			user.ID = u.ID
			return nil
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

type mockFlightRepo struct {
	flights map[string]*model.Flight
	nextID  int
	failing bool // when set, every call errors
}

func newMockFlightRepo() *mockFlightRepo {
	return &mockFlightRepo{flights: make(map[string]*model.Flight)}
}

var errMockFailure = fmt.Errorf("storage unavailable")

func (m *mockFlightRepo) Create(_ context.Context, flight *model.Flight) error {
	if m.failing {
		return errMockFailure
	}
	m.nextID++
	flight.ID = fmt.Sprintf("flight-%d", m.nextID)
	flight.CreatedAt = time.Now().UTC()
	stored := *flight
	m.flights[flight.ID] = &stored
	return nil
}

func (m *mockFlightRepo) CreateBatch(ctx context.Context, flights []*model.Flight) error {
	if m.failing {
		return errMockFailure
	}
	for _, f := range flights {
		if err := m.Create(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockFlightRepo) ListByUser(_ context.Context, userID string) ([]model.Flight, error) {
	if m.failing {
		return nil, errMockFailure
	}
	result := make([]model.Flight, 0)
	for _, f := range m.flights {
		if f.UserID == userID {
			result = append(result, *f)
		}
	}
	// Same ordering contract as the SQL implementations: flight date
	// descending, then newest created first.
	sort.Slice(result, func(i, j int) bool {
		di, dj := result[i].FlightDate, result[j].FlightDate
		switch {
		case di == nil && dj == nil:
		case di == nil:
			return false
		case dj == nil:
			return true
		case !di.Equal(*dj):
			return di.After(*dj)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockFlightRepo) GetByID(_ context.Context, userID, id string) (*model.Flight, error) {
	f, ok := m.flights[id]
	if !ok || f.UserID != userID {
		return nil, apperror.NotFound("flight", id)
	}
	result := *f
	return &result, nil
}

func (m *mockFlightRepo) Delete(_ context.Context, userID, id string) error {
	f, ok := m.flights[id]
	if !ok || f.UserID != userID {
		return apperror.NotFound("flight", id)
	}
	delete(m.flights, id)
	return nil
}

func (m *mockFlightRepo) CountSeed(_ context.Context, userID string) (int, error) {
	if m.failing {
		return 0, errMockFailure
	}
	count := 0
	for _, f := range m.flights {
		if f.UserID == userID && f.IsSeed {
			count++
		}
	}
	return count, nil
}

func (m *mockFlightRepo) DeleteSeed(_ context.Context, userID string) (int64, error) {
	if m.failing {
		return 0, errMockFailure
	}
	var deleted int64
	for id, f := range m.flights {
		if f.UserID == userID && f.IsSeed {
			delete(m.flights, id)
			deleted++
		}
	}
	return deleted, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestFlightService(t *testing.T) (*FlightService, *mockFlightRepo) {
	t.Helper()
	repo := newMockFlightRepo()
	svc := NewFlightService(repo, testLogger())
	return svc, repo
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}
	svc := NewAuthService(repo, auth.NewPasswordServiceWithCost(4), tokens, testLogger())
	return svc, repo
}
