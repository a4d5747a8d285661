package auth

import (
	"context"
	"net/http"
)

type contextKey string

const principalKey = contextKey("principal")

// WithPrincipal stores the resolved principal for the handler that follows.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns Anonymous when nothing was stored.
func PrincipalFromContext(ctx context.Context) Principal {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok {
		return Anonymous
	}
	return p
}

// ErrorWriter renders an error response; handlers share theirs with Require.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Require rejects requests whose principal lacks role before they reach next.
func Require(role Role, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := Authorize(PrincipalFromContext(r.Context()), role); err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
