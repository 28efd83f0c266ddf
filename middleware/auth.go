package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/services"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Authenticate validates the bearer token and stores its claims in the
// request context.
func Authenticate(authService services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing or malformed authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose token does not carry one of the
// allowed roles. It must sit below Authenticate in the chain.
func RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(claimsContextKey).(*services.Claims)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*services.Claims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*services.Claims)
	if !ok {
		return nil, errors.New("no authenticated user in context")
	}
	return claims, nil
}
