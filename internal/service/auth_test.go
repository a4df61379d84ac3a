package service

import (
	"context"
	"errors"
	"testing"

	"github.com/soarr/flightlog/internal/apperror"
	"github.com/soarr/flightlog/internal/auth"
)

func TestSignup_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.Signup(context.Background(), "pilot@example.com", "correcthorse")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if result.User.ID == "" {
		t.Error("expected user to have an ID")
	}
	if result.User.Email != "pilot@example.com" {
		t.Errorf("Email = %q, want pilot@example.com", result.User.Email)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.User.PasswordHash == "correcthorse" {
		t.Error("password stored in plaintext")
	}
}

func TestSignup_NormalizesEmail(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.Signup(context.Background(), "  Pilot@Example.COM ", "correcthorse")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if result.User.Email != "pilot@example.com" {
		t.Errorf("Email = %q, want lowercased and trimmed", result.User.Email)
	}

	if _, err := repo.GetByEmail(context.Background(), "pilot@example.com"); err != nil {
		t.Errorf("normalized email not stored: %v", err)
	}
}

func TestSignup_RejectsInvalidEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	for _, email := range []string{"", "no-at-sign", "two@@example.com", "nodot@example"} {
		_, err := svc.Signup(context.Background(), email, "correcthorse")
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Signup(%q) error = %v, want ErrValidation", email, err)
		}
	}
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), "pilot@example.com", "short")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Signup() error = %v, want ErrValidation", err)
	}
}

func TestSignup_DuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "pilot@example.com", "correcthorse"); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	_, err := svc.Signup(context.Background(), "PILOT@example.com", "otherpassword")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Signup() error = %v, want ErrConflict", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "pilot@example.com", "correcthorse"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "pilot@example.com", "correcthorse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "pilot@example.com", "correcthorse"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "pilot@example.com", "wrongpassword")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "correcthorse")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() error = %v, want ErrUnauthorized", err)
	}
	// Deliberately NOT ErrNotFound: the response must not reveal whether
	// the account exists.
	if errors.Is(err, apperror.ErrNotFound) {
		t.Error("Login() must not leak account existence")
	}
}

func TestLoginGitHub_CreatesThenReuses(t *testing.T) {
	svc, repo := newTestAuthService(t)

	ghUser := &auth.GitHubUser{ID: 4242, Login: "aviator", Email: "aviator@example.com"}

	first, err := svc.LoginGitHub(context.Background(), ghUser)
	if err != nil {
		t.Fatalf("first LoginGitHub() error = %v", err)
	}

	second, err := svc.LoginGitHub(context.Background(), ghUser)
	if err != nil {
		t.Fatalf("second LoginGitHub() error = %v", err)
	}

	if first.User.ID != second.User.ID {
		t.Errorf("GitHub sign-in created two accounts: %q and %q", first.User.ID, second.User.ID)
	}
	if len(repo.users) != 1 {
		t.Errorf("user count = %d, want 1", len(repo.users))
	}
}

func TestLoginGitHub_NoEmailFallsBackToNoreply(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.LoginGitHub(context.Background(), &auth.GitHubUser{ID: 7, Login: "ghost"})
	if err != nil {
		t.Fatalf("LoginGitHub() error = %v", err)
	}
	if result.User.Email != "ghost@users.noreply.github.com" {
		t.Errorf("Email = %q, want noreply fallback", result.User.Email)
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Pilot@Example.COM", "pilot@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"already@example.com", "already@example.com"},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
