package session

import (
	"time"

	"github.com/VitaminP8/blogery/models"
)

type SessionStorage interface {
	CreateSession(s *models.Session) error
	// GetSession fails with apperror.NotFound for unknown or ended sessions.
	GetSession(id string) (*models.Session, error)
	TouchSession(id string, seen time.Time) error
	// DeleteSession is a no-op for unknown ids.
	DeleteSession(id string) error
}
