package middleware

import (
	"fmt"
	"net/http"

	"github.com/csshost/csshost/internal/ctxkeys"
	"github.com/csshost/csshost/internal/service"
)

// AuthMiddleware checks for a JWT cookie and adds user + profile to the
// context if valid. Requests without a valid session continue as anonymous.
func AuthMiddleware(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, profile, err := userService.WithProfile(userID)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Security: never carry the hash through the request context
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithProfile(ctx, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated, non-suspended user.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		profile := ctxkeys.Profile(r.Context())
		if profile != nil && profile.Suspended {
			writeJSONError(w, http.StatusForbidden, "account suspended")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RejectSuspended lets anonymous requests through but blocks suspended
// accounts from state-changing operations.
func RejectSuspended(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := ctxkeys.Profile(r.Context())
		if profile != nil && profile.Suspended {
			writeJSONError(w, http.StatusForbidden, "account suspended")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAdmin is the single authorization gate for the admin surface. Role
// is checked once here rather than per call site.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		profile := ctxkeys.Profile(r.Context())
		if profile == nil || !profile.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "access denied")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"error\":%q}\n", msg)
}
