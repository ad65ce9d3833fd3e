package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gainworld/travel-guide/internal/database"
	"github.com/gainworld/travel-guide/internal/middleware"
	"github.com/gainworld/travel-guide/internal/models"
	"github.com/gainworld/travel-guide/internal/services/google"
	"github.com/gainworld/travel-guide/internal/session"
)

// AuthHandler handles the login, callback, userinfo, and logout routes.
type AuthHandler struct {
	authenticator google.Authenticator
	users         database.UserStore
	sessions      *session.Manager
	logger        *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authenticator google.Authenticator, users database.UserStore, sessions *session.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		users:         users,
		sessions:      sessions,
		logger:        logger,
	}
}

// RegisterRoutes registers the public auth routes on the given router.
// UserInfo must be registered behind the auth middleware by the caller.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.Login).Methods("GET")
	r.HandleFunc("/callback", h.Callback).Methods("GET")
	r.HandleFunc("/logout", h.Logout).Methods("GET")
}

// Login starts a login attempt: issues a fresh state token bound to the
// caller's session and redirects to Google's authorization endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.IssueState(w, r)
	if err != nil {
		h.logger.Error("failed_to_issue_state", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	http.Redirect(w, r, h.authenticator.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the login attempt. The state check runs before anything
// else; a mismatch rejects the request without touching the provider or
// storage. Provider and storage failures surface as a generic 500.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ValidateState(w, r, r.URL.Query().Get("state")); err != nil {
		if errors.Is(err, session.ErrInvalidState) {
			respondError(w, http.StatusBadRequest, "Invalid state parameter")
			return
		}
		h.logger.Error("failed_to_validate_state", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	creds, err := h.authenticator.Authenticate(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Error("authentication_failed",
			zap.Bool("token_exchange", errors.Is(err, google.ErrTokenExchange)),
			zap.Bool("invalid_token", errors.Is(err, google.ErrInvalidToken)),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	picture := creds.Claims.Picture
	if picture == "" {
		picture = models.DefaultProfileImage
	}

	user := &models.User{
		SubjectID:    creds.Claims.Subject,
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Name:         creds.Claims.Name,
		ProfileImage: picture,
	}
	if err := h.users.Upsert(r.Context(), user); err != nil {
		h.logger.Error("failed_to_upsert_user",
			zap.String("subject_id", creds.Claims.Subject),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	if err := h.sessions.Authenticate(w, r, creds.Claims.Subject); err != nil {
		h.logger.Error("failed_to_save_session", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	h.logger.Info("user_logged_in", zap.String("subject_id", creds.Claims.Subject))
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// UserInfo returns the stored record for the authenticated user.
func (h *AuthHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not logged in")
		return
	}

	user, err := h.users.GetBySubject(r.Context(), subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed_to_get_user",
			zap.String("subject_id", subject),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Logout clears the session markers and redirects home. Logging out an
// already logged-out session is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Error("failed_to_clear_session", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}
