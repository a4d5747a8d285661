package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/password"
	"github.com/VitaminP8/blogery/internal/storage/memory"
	"github.com/VitaminP8/blogery/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_for_sessions"

type fixture struct {
	manager  *Manager
	sessions *memory.SessionMemoryStorage
	users    *memory.UserMemoryStorage
	alice    *models.User
	bob      *models.User
}

func newFixture(t *testing.T, idle time.Duration) *fixture {
	t.Helper()
	users := memory.NewUserMemoryStorage(password.NewHasher(password.MinIterations))
	sessions := memory.NewSessionMemoryStorage()

	alice, err := users.RegisterUser("alice@blog.test", "Alice", "alice-pw")
	require.NoError(t, err)
	bob, err := users.RegisterUser("bob@blog.test", "Bob", "bob-pw")
	require.NoError(t, err)

	return &fixture{
		manager:  NewManager(sessions, users, testSecret, idle),
		sessions: sessions,
		users:    users,
		alice:    alice,
		bob:      bob,
	}
}

func TestManager_StartResolveEnd(t *testing.T) {
	f := newFixture(t, 0)

	t.Run("Resolve returns the started user", func(t *testing.T) {
		token, err := f.manager.Start(f.alice)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		u := f.manager.Resolve(token)
		require.NotNil(t, u)
		assert.Equal(t, f.alice.ID, u.ID)
		assert.Equal(t, f.alice.Email, u.Email)
	})

	t.Run("End makes the token anonymous", func(t *testing.T) {
		token, err := f.manager.Start(f.bob)
		require.NoError(t, err)
		require.NotNil(t, f.manager.Resolve(token))

		require.NoError(t, f.manager.End(token))
		assert.Nil(t, f.manager.Resolve(token))
	})

	t.Run("Sessions of the same user are independent", func(t *testing.T) {
		first, err := f.manager.Start(f.alice)
		require.NoError(t, err)
		second, err := f.manager.Start(f.alice)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		require.NoError(t, f.manager.End(first))
		assert.Nil(t, f.manager.Resolve(first))

		u := f.manager.Resolve(second)
		require.NotNil(t, u)
		assert.Equal(t, f.alice.ID, u.ID)
	})

	t.Run("Start without a user", func(t *testing.T) {
		_, err := f.manager.Start(nil)
		assert.Error(t, err)
	})
}

func TestManager_ResolveInvalidTokens(t *testing.T) {
	f := newFixture(t, 0)
	valid, err := f.manager.Start(f.alice)
	require.NoError(t, err)

	t.Run("Empty token", func(t *testing.T) {
		assert.Nil(t, f.manager.Resolve(""))
	})

	t.Run("Garbage token", func(t *testing.T) {
		assert.Nil(t, f.manager.Resolve("not-a-token"))
	})

	t.Run("Tampered signature", func(t *testing.T) {
		tampered := valid[:len(valid)-2] + "xx"
		if tampered == valid {
			tampered = valid[:len(valid)-2] + "yy"
		}
		assert.Nil(t, f.manager.Resolve(tampered))
	})

	t.Run("Token signed with another key", func(t *testing.T) {
		other := NewManager(f.sessions, f.users, "another-secret", 0)
		forged, err := other.Start(f.alice)
		require.NoError(t, err)
		assert.Nil(t, f.manager.Resolve(forged))
	})

	t.Run("Unsigned token", func(t *testing.T) {
		claims := &jwt.RegisteredClaims{}
		_, _, err := jwt.NewParser().ParseUnverified(valid, claims)
		require.NoError(t, err)

		none := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		assert.Nil(t, f.manager.Resolve(unsigned))
	})

	t.Run("Session id bound to another user", func(t *testing.T) {
		claims := &jwt.RegisteredClaims{}
		_, _, err := jwt.NewParser().ParseUnverified(valid, claims)
		require.NoError(t, err)
		claims.Subject = "2"

		swapped, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		assert.Nil(t, f.manager.Resolve(swapped))
	})

	t.Run("Ending an invalid token is a no-op", func(t *testing.T) {
		assert.NoError(t, f.manager.End("not-a-token"))
		assert.NotNil(t, f.manager.Resolve(valid))
	})
}

func TestManager_IdleTimeout(t *testing.T) {
	f := newFixture(t, 30*time.Minute)
	start := time.Now()
	f.manager.now = func() time.Time { return start }

	token, err := f.manager.Start(f.alice)
	require.NoError(t, err)

	t.Run("Activity within the timeout keeps the session", func(t *testing.T) {
		f.manager.now = func() time.Time { return start.Add(20 * time.Minute) }
		require.NotNil(t, f.manager.Resolve(token))

		// last seen moved to +20m, so +45m is still within 30m
		f.manager.now = func() time.Time { return start.Add(45 * time.Minute) }
		require.NotNil(t, f.manager.Resolve(token))
	})

	t.Run("Idle session resolves anonymous and is dropped", func(t *testing.T) {
		f.manager.now = func() time.Time { return start.Add(2 * time.Hour) }
		assert.Nil(t, f.manager.Resolve(token))

		claims := &jwt.RegisteredClaims{}
		_, _, err := jwt.NewParser().ParseUnverified(token, claims)
		require.NoError(t, err)
		_, err = f.sessions.GetSession(claims.ID)
		assert.Error(t, err)
	})
}

func TestManager_ZeroTimeoutNeverExpires(t *testing.T) {
	f := newFixture(t, 0)
	start := time.Now()
	f.manager.now = func() time.Time { return start }

	token, err := f.manager.Start(f.bob)
	require.NoError(t, err)

	f.manager.now = func() time.Time { return start.Add(365 * 24 * time.Hour) }
	assert.NotNil(t, f.manager.Resolve(token))
}

type failingSessions struct {
	*memory.SessionMemoryStorage
}

func (failingSessions) GetSession(string) (*models.Session, error) {
	return nil, errors.New("database is down")
}

func TestManager_StorageFailureIsAnonymous(t *testing.T) {
	f := newFixture(t, 0)
	token, err := f.manager.Start(f.alice)
	require.NoError(t, err)

	broken := NewManager(failingSessions{f.sessions}, f.users, testSecret, 0)
	assert.Nil(t, broken.Resolve(token))
}

func TestManager_Middleware(t *testing.T) {
	f := newFixture(t, 0)
	token, err := f.manager.Start(f.alice)
	require.NoError(t, err)

	var seen auth.Principal
	handler := f.manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.PrincipalFromContext(r.Context())
	}))

	t.Run("Valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, seen.IsAuthenticated())
		assert.Equal(t, f.alice.ID, seen.UserID())
	})

	t.Run("No cookie", func(t *testing.T) {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, seen.IsAuthenticated())
	})

	t.Run("Bad cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "junk"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.False(t, seen.IsAuthenticated())
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "tok", true)
	ClearCookie(rec, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "", cookies[1].Value)
	assert.Equal(t, -1, cookies[1].MaxAge)
}
