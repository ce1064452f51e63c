package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/libretto/libretto/internal/auth"
	"github.com/libretto/libretto/internal/handler/dto"
	"github.com/libretto/libretto/internal/model"
	"github.com/libretto/libretto/internal/service"
)

// AuthHandler handles signup, login, token verification, and profile reads.
type AuthHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	user, err := h.svc.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AuthToken: token,
		ID:        user.ID,
	})
}

// Verify handles GET /verify. The auth middleware has already rejected
// requests without a valid token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.VerifyResponse{LoggedIn: true})
}

// Profile handles GET /user.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	profile, err := h.svc.GetProfile(r.Context(), principal.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	books := profile.Books
	if books == nil {
		books = []*model.Book{}
	}

	writeJSON(w, http.StatusOK, dto.ProfileResponse{
		User:    *profile.User,
		Library: profile.Library,
		Books:   books,
	})
}

// handleError maps account service errors to HTTP responses.
func (h *AuthHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingSignupFields):
		writeError(w, http.StatusBadRequest, "Provide email, password and name", "")
	case errors.Is(err, service.ErrMissingLoginFields):
		writeError(w, http.StatusBadRequest, "Provide email and password.", "")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Provide a valid email address.", "")
	case errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "Password must have at least 6 characters and contain at least one number, one lowercase and one uppercase letter.", "")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "User already exists.", "")
	case errors.Is(err, service.ErrWrongCredentials):
		writeError(w, http.StatusBadRequest, "Wrong credentials.", "")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found.", "")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong.", "")
	}
}
