package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fjod/storefront/internal/domain"
)

const minPasswordLength = 6

// SessionManager is the part of session.Manager the handlers use.
type SessionManager interface {
	SignIn(ctx context.Context, email, password string) (domain.UserSession, error)
	SignUp(ctx context.Context, name, email, password string) (domain.UserSession, error)
	SignOut(ctx context.Context)
	Current() (domain.UserSession, bool)
}

type AuthHandler struct {
	sessions SessionManager
}

func NewAuthHandler(sessions SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type SignInRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequestDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !validEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_password", "password is required")
		return
	}

	s, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "request_canceled", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}
	if !validEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		respondError(w, http.StatusBadRequest, "invalid_password", "password must be at least 6 characters")
		return
	}
	if req.Password != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "password_mismatch", "passwords do not match")
		return
	}

	s, err := h.sessions.SignUp(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "request_canceled", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, s)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Current()
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func validEmail(email string) bool {
	local, domainPart, ok := strings.Cut(email, "@")
	return ok && local != "" && domainPart != ""
}
