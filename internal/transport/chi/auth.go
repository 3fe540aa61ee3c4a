package chi

import (
	"context"
	"net/http"
	"strings"
)

type userIDKey struct{}

// UserIDFromContext returns the resolved user id, or "" for anonymous
// requests.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ContextWithUserID attaches a user id to the context. Exported for
// tests.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// IdentityMiddleware resolves Bearer tokens to user ids. Identity is
// nullable: unknown or missing tokens pass through as anonymous rather
// than being rejected, since search itself is not gated on a user.
func IdentityMiddleware(tokens map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(tokens) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if strings.HasPrefix(auth, bearerPrefix) {
				if userID, ok := tokens[auth[len(bearerPrefix):]]; ok {
					r = r.WithContext(ContextWithUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
