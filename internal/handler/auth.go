package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/soarr/flightlog/internal/apperror"
	"github.com/soarr/flightlog/internal/auth"
	"github.com/soarr/flightlog/internal/service"
)

const oauthStateCookie = "oauth_state"

// AuthHandler serves signup, login, logout, session status and the optional
// GitHub OAuth flow.
type AuthHandler struct {
	auth   *service.AuthService
	github *auth.GitHubProvider
	logger *slog.Logger
}

func NewAuthHandler(authSvc *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authSvc,
		github: github,
		logger: logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

type statusResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *userResponse `json:"user,omitempty"`
}

// HandleSignup creates an account and starts a session in one step.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		User:    userResponse{ID: result.User.ID, Email: result.User.Email},
	})
}

// HandleLogin verifies credentials and starts a session.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		User:    userResponse{ID: result.User.ID, Email: result.User.Email},
	})
}

// HandleLogout clears the session cookie. Always succeeds: logging out of a
// dead session is not an error.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "logged out"})
}

// HandleStatus reports whether the caller holds a valid session. It sits
// behind OptionalAuth, so an absent or invalid cookie still reaches here.
func (h *AuthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, statusResponse{Authenticated: false})
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		// Token valid but user gone (deleted account). Treat as signed out.
		writeJSON(w, http.StatusOK, statusResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Authenticated: true,
		User:          &userResponse{ID: user.ID, Email: user.Email},
	})
}

// HandleGitHubLogin redirects to GitHub's consent page with a random state
// value pinned in a short-lived cookie.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verify state, exchange the
// code, upsert the user and start a session.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		writeError(w, apperror.Unauthorized("OAuth state mismatch"))
		return
	}
	// One-shot cookie.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing authorization code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("GitHub code exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Unauthorized("GitHub sign-in failed"))
		return
	}

	result, err := h.auth.LoginGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusFound)
}
