package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/models"
	"github.com/stretchr/testify/assert"
)

func TestPrincipalContext(t *testing.T) {
	t.Run("Stored principal is returned", func(t *testing.T) {
		user := &models.User{ID: 3, Email: "ctx@blog.test"}
		ctx := WithPrincipal(context.Background(), NewPrincipal(user))

		p := PrincipalFromContext(ctx)
		assert.Equal(t, user, p.User)
	})

	t.Run("Empty context is anonymous", func(t *testing.T) {
		p := PrincipalFromContext(context.Background())
		assert.False(t, p.IsAuthenticated())
	})
}

func TestRequire(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := Require(RolePrivileged, writePlainError)(next)

	cases := []struct {
		name      string
		principal Principal
		status    int
		reached   bool
	}{
		{"Anonymous", Anonymous, http.StatusForbidden, false},
		{"Regular user", NewPrincipal(&models.User{ID: 2}), http.StatusForbidden, false},
		{"Privileged user", NewPrincipal(&models.User{ID: 1}), http.StatusNoContent, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodPost, "/posts", nil)
			req = req.WithContext(WithPrincipal(req.Context(), tc.principal))
			rec := httptest.NewRecorder()

			guarded.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.reached, reached)
		})
	}
}

func writePlainError(w http.ResponseWriter, _ *http.Request, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := apperror.FromError(err); ok {
		status = appErr.StatusCode()
	}
	http.Error(w, err.Error(), status)
}
