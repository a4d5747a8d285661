package postgres

import (
	"testing"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPostgresStorage(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "session@blog.test")
	storage := NewSessionPostgresStorage()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("Create and get", func(t *testing.T) {
		err := storage.CreateSession(&models.Session{ID: "8c1d4a52-7f0e-4c55-9a7c-1f2b3c4d5e6f", UserID: user.ID, CreatedAt: now, LastSeenAt: now})
		require.NoError(t, err)

		s, err := storage.GetSession("8c1d4a52-7f0e-4c55-9a7c-1f2b3c4d5e6f")
		require.NoError(t, err)
		assert.Equal(t, user.ID, s.UserID)
	})

	t.Run("Touch updates last seen", func(t *testing.T) {
		later := now.Add(time.Hour)
		require.NoError(t, storage.TouchSession("8c1d4a52-7f0e-4c55-9a7c-1f2b3c4d5e6f", later))

		s, err := storage.GetSession("8c1d4a52-7f0e-4c55-9a7c-1f2b3c4d5e6f")
		require.NoError(t, err)
		assert.True(t, later.Equal(s.LastSeenAt.UTC()), "got %v", s.LastSeenAt)
	})

	t.Run("Touch on unknown session", func(t *testing.T) {
		err := storage.TouchSession("missing", now)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("Delete ends the session", func(t *testing.T) {
		require.NoError(t, storage.DeleteSession("8c1d4a52-7f0e-4c55-9a7c-1f2b3c4d5e6f"))

		_, err := storage.GetSession("8c1d4a52-7f0e-4c55-9a7c-1f2b3c4d5e6f")
		assert.True(t, apperror.IsNotFound(err))
		assert.NoError(t, storage.DeleteSession("8c1d4a52-7f0e-4c55-9a7c-1f2b3c4d5e6f"))
	})
}
