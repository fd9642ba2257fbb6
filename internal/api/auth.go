package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/clinicore/agenda-api/internal/user"
)

const claimsKey contextKey = "claims"

// Authenticator rejects requests without a valid bearer token and puts
// the parsed claims in the request context.
func Authenticator(auth *user.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims, err := auth.ParseToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a route group; admins pass every guard.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
				return
			}
			if claims.Role == user.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
		})
	}
}

// GetClaims retrieves the authenticated claims from context, or nil.
func GetClaims(ctx context.Context) *user.Claims {
	if c, ok := ctx.Value(claimsKey).(*user.Claims); ok {
		return c
	}
	return nil
}
