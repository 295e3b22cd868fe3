package handler

import (
	"net/http"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
	"shipwatch/internal/middleware"
	"shipwatch/internal/model"
)

// Authenticator verifies credentials and issues tokens.
type Authenticator interface {
	Authenticate(username, password string) (*model.User, error)
	IssueToken(username string) (string, error)
}

// TokenHandler handles POST /api/v1/auth/token (form fields username and password).
func TokenHandler(auth Authenticator, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password")

		user, err := auth.Authenticate(username, password)
		if err != nil {
			logger.Warning("Failed login for %q", username)
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		if user.Disabled {
			respondError(w, http.StatusBadRequest, "Inactive user")
			return
		}

		token, err := auth.IssueToken(user.Username)
		if err != nil {
			logger.Error("Failed to issue token for %s: %v", user.Username, err)
			respondError(w, http.StatusInternalServerError, "cannot issue token")
			return
		}

		logger.Info("🔑 Issued token for %s", user.Username)
		respondJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// CurrentUserHandler handles GET /api/v1/auth/users/me.
func CurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			respondError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		respondJSON(w, http.StatusOK, dto.NewUserResponse(user))
	}
}

// AdminOnlyHandler handles GET /api/v1/auth/admin-only.
func AdminOnlyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Admin only area"})
	}
}

// RootHandler handles GET /.
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Welcome to the ship detection API!"})
	}
}

// HealthHandler handles GET /api/v1/health.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
	}
}
