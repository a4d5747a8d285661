package session

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/internal/user"
	"github.com/VitaminP8/blogery/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Manager maps opaque session tokens to users.
//
// A token is an HS256 JWT whose jti is the id of a stored session. The
// signature rejects forged tokens; the stored record makes End effective.
// Sessions never expire unless idleTimeout is positive, in which case a
// session unused for longer than idleTimeout resolves as anonymous.
type Manager struct {
	sessions    SessionStorage
	users       user.UserStorage
	secret      []byte
	idleTimeout time.Duration
	now         func() time.Time
}

func NewManager(sessions SessionStorage, users user.UserStorage, secret string, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    sessions,
		users:       users,
		secret:      []byte(secret),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Start opens a new session for u. Existing sessions of u stay valid.
func (m *Manager) Start(u *models.User) (string, error) {
	if u == nil || u.ID == 0 {
		return "", apperror.NewBadRequestError("cannot start a session without a user", nil)
	}

	now := m.now()
	s := &models.Session{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := m.sessions.CreateSession(s); err != nil {
		return "", fmt.Errorf("could not store session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:       s.ID,
		Subject:  strconv.FormatUint(uint64(u.ID), 10),
		IssuedAt: jwt.NewNumericDate(now),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", apperror.NewInternalError("failed to sign session token", err)
	}

	return signed, nil
}

// Resolve returns the user behind token, or nil for the anonymous principal.
// Every failure, including storage errors, is reported as anonymous.
func (m *Manager) Resolve(token string) *models.User {
	if token == "" {
		return nil
	}

	claims, err := m.parse(token)
	if err != nil {
		return nil
	}

	s, err := m.sessions.GetSession(claims.ID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			log.Printf("session: lookup failed: %v", err)
		}
		return nil
	}
	if strconv.FormatUint(uint64(s.UserID), 10) != claims.Subject {
		return nil
	}

	now := m.now()
	if m.idleTimeout > 0 && now.Sub(s.LastSeenAt) > m.idleTimeout {
		if err := m.sessions.DeleteSession(s.ID); err != nil {
			log.Printf("session: failed to drop idle session: %v", err)
		}
		return nil
	}

	u, err := m.users.GetUserByID(s.UserID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			log.Printf("session: user lookup failed: %v", err)
		}
		return nil
	}

	if m.idleTimeout > 0 {
		if err := m.sessions.TouchSession(s.ID, now); err != nil {
			log.Printf("session: failed to refresh session: %v", err)
		}
	}

	return u
}

// End invalidates token. Unknown or malformed tokens are ignored.
func (m *Manager) End(token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	if err := m.sessions.DeleteSession(claims.ID); err != nil {
		return fmt.Errorf("could not end session: %w", err)
	}
	return nil
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
