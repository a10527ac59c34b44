package middleware

import (
	"context"
	"net/http"

	"github.com/Strob0t/NetForge/internal/domain/account"
	"github.com/Strob0t/NetForge/internal/service"
)

type authAccountCtxKey struct{}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":       true,
	"/health/ready": true,
}

// Auth returns middleware that validates HTTP Basic credentials against the
// runtime's account registry. When authEnabled is false, a root context is
// injected on every request.
func Auth(rt *service.Runtime, authEnabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authEnabled {
				a, err := rt.Account(account.RootUsername)
				if err != nil {
					http.Error(w, `{"error":"runtime not bootstrapped"}`, http.StatusServiceUnavailable)
					return
				}
				ctx := context.WithValue(r.Context(), authAccountCtxKey{}, &a)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="netforge"`)
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}
			if !rt.Authenticate(username, password) {
				http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
				return
			}

			a, err := rt.Account(username)
			if err != nil {
				http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), authAccountCtxKey{}, &a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns middleware that rejects requests whose authenticated
// account is not an administrator. Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := AccountFromContext(r.Context())
		if a == nil || a.Role != account.RoleAdmin {
			http.Error(w, `{"error":"admin role required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccountFromContext returns the authenticated account, or nil.
func AccountFromContext(ctx context.Context) *account.Account {
	a, _ := ctx.Value(authAccountCtxKey{}).(*account.Account)
	return a
}
