package middleware

import (
	"context"
	"net/http"
	"strings"

	"appmarket/internal/data/entity"
	"appmarket/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const TokenCookie = "jwt"

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Protect admits only requests carrying a valid token of a live user and
// stores the user id and role in the request context.
func Protect(auth Authenticator, responder *utils.ErrorResponder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "You are not logged in! Please log in to get access.")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				responder.Respond(w, err, "authenticate")
				return
			}

			logger.Debug("Authenticated request",
				zap.String("user_id", user.ID.String()),
				zap.String("path", r.URL.Path))

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RestrictTo admits only principals holding one of roles. It must run after
// Protect.
func RestrictTo(roles ...entity.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[string(role)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !allowed[role] {
				utils.ResponseForbidden(w, "You do not have permission to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OwnerOrAdmin admits the principal whose id equals the {param} URL value,
// and admins.
func OwnerOrAdmin(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, _ := utils.GetRoleFromContext(r.Context())
			if role != string(entity.RoleAdmin) && !strings.EqualFold(chi.URLParam(r, param), userID.String()) {
				utils.ResponseForbidden(w, "You do not have permission to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
