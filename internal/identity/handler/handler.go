package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"askboard/internal/platform/middleware"
	"askboard/internal/transport/http/shared"
	"askboard/pkg/domain"
	dErrors "askboard/pkg/domain-errors"
	"askboard/pkg/requestcontext"
)

// Service defines the identity operations the handler delegates to.
type Service interface {
	Register(ctx context.Context, username, email, password string) (domain.Principal, string, error)
	Login(ctx context.Context, email, password string) (domain.Principal, string, error)
	Invalidate(ctx context.Context, token string) error
}

// Handler exposes signup, login, and logout as JSON endpoints.
type Handler struct {
	logger     *slog.Logger
	identity   Service
	resolver   middleware.SessionResolver
	sessionTTL time.Duration
}

func New(identity Service, resolver middleware.SessionResolver, logger *slog.Logger, sessionTTL time.Duration) *Handler {
	return &Handler{
		logger:     logger,
		identity:   identity,
		resolver:   resolver,
		sessionTTL: sessionTTL,
	}
}

// Register registers the identity routes with the chi router. Signup and
// login are the only routes in the system outside the session gate.
func (h *Handler) Register(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.resolver, h.logger))
		r.Post("/logout", h.handleLogout)
	})
}

type signupRequest struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if err := validateSignup(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	principal, token, err := h.identity.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "signup failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	shared.WriteJSON(w, http.StatusCreated, sessionPayload(principal, token))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	principal, token, err := h.identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	shared.WriteJSON(w, http.StatusOK, sessionPayload(principal, token))
}

// handleLogout destroys the session. A failing session store surfaces as an
// error; only a confirmed (or already absent) session counts as success.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := requestcontext.SessionID(ctx)
	if err := h.identity.Invalidate(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "logout failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionPayload(principal domain.Principal, token string) sessionResponse {
	var resp sessionResponse
	resp.Token = token
	resp.User.ID = principal.ID
	resp.User.Username = principal.Username
	return resp
}

func validateSignup(req signupRequest) error {
	if !govalidator.StringLength(req.Username, "1", "50") {
		return dErrors.New(dErrors.CodeValidation, "username must be 1-50 characters")
	}
	if !govalidator.IsEmail(req.Email) || !govalidator.StringLength(req.Email, "3", "255") {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	if !govalidator.StringLength(req.Password, "8", "72") {
		return dErrors.New(dErrors.CodeValidation, "password must be 8-72 characters")
	}
	if req.Password != req.PasswordConfirmation {
		return dErrors.New(dErrors.CodeValidation, "passwords do not match")
	}
	return nil
}
