// Package service contains the business logic layer: auth rules, flight
// validation, seeding, and statistics. Services speak to repository
// interfaces and return domain errors; they know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/soarr/flightlog/internal/apperror"
	"github.com/soarr/flightlog/internal/auth"
	"github.com/soarr/flightlog/internal/model"
	"github.com/soarr/flightlog/internal/repository"
)

// MinPasswordLength is the weak-password cutoff for signup.
const MinPasswordLength = 8

// emailPattern is a sanity check, not a full RFC 5322 parser: one @, no
// whitespace, a dot somewhere in the domain.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService handles signup, login, and GitHub sign-in.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// AuthResult bundles the user and their freshly issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup validates the credentials, creates the account, and establishes a
// session. Duplicate emails come back as a conflict error.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.ValidationFailed("email", "invalid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password is too long")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user signed up", slog.String("userID", user.ID))

	return s.startSession(user)
}

// Login verifies the credentials and establishes a session. Unknown email
// and wrong password are reported identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.startSession(user)
}

// LoginGitHub completes a GitHub sign-in: the account is created on first
// use (keyed by the GitHub user ID) and reused afterwards. GitHub accounts
// carry no password hash, so the password login path stays closed to them.
func (s *AuthService) LoginGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	email := NormalizeEmail(ghUser.Email)
	if email == "" {
		// GitHub hides the email when the user opts out; fall back to the
		// noreply form GitHub itself uses for commits.
		email = fmt.Sprintf("%s@users.noreply.github.com", strings.ToLower(ghUser.Login))
	}

	user := &model.User{
		Email:    email,
		GitHubID: ghUser.ID,
	}
	if err := s.users.UpsertByGitHubID(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting GitHub user %d: %w", ghUser.ID, err)
	}

	s.logger.Info("user logged in via GitHub",
		slog.String("userID", user.ID),
		slog.Int64("githubID", ghUser.ID),
	)

	return s.startSession(user)
}

// GetUserByID returns the user for the given internal ID. Used by the
// status endpoint after the middleware validates the session.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) startSession(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating session token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// NormalizeEmail lowercases and trims an email address; the result is the
// canonical stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
