package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"edura/internal/auth"
	"edura/internal/models"
	"edura/internal/utils"
)

// UserFinder is the slice of the user store the middleware needs.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type contextKey string

const userKey contextKey = "user"

const lookupTimeout = 5 * time.Second

// UserFrom returns the identity attached by Authenticate.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// Authenticate resolves the caller from a Bearer token and attaches the user
// record to the request context. The record is re-read from the store on
// every request so role or verification changes since token issuance are
// honored.
func Authenticate(tokens *auth.TokenService, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "Authorization header missing")
				return
			}
			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "Invalid Authorization header format")
				return
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), lookupTimeout)
			defer cancel()
			user, err := users.FindByID(ctx, userID)
			if err != nil {
				// missing record and store fault both end the request here;
				// the caller cannot be identified either way
				unauthorized(w, "Not authorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// RequireRole rejects callers whose role is not in the allowed set. Must run
// after Authenticate.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				unauthorized(w, "Not authorized")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.JSON(w, http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Insufficient permissions",
			})
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	utils.JSON(w, http.StatusUnauthorized, utils.APIResponse{
		Success: false,
		Message: msg,
	})
}
