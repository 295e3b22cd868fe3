package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"shipwatch/internal/dto"
	"shipwatch/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// TokenParser resolves a bearer token to an account.
type TokenParser interface {
	ParseToken(token string) (*model.User, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// puts the account into the request context.
func AuthMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Preflight nie niesie nagłówka Authorization
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Not authenticated")
				return
			}

			user, err := parser.ParseToken(token)
			if err != nil {
				unauthorized(w, "Could not validate credentials")
				return
			}
			if user.Disabled {
				writeError(w, http.StatusBadRequest, "Inactive user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequirePermission rejects accounts without perm with 403. It must run
// after AuthMiddleware.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				unauthorized(w, "Not authenticated")
				return
			}
			if !user.HasPermission(perm) {
				writeError(w, http.StatusForbidden, "Not enough permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated account, or nil.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, detail)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{Detail: detail})
}
