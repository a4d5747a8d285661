package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/models"
)

type SessionMemoryStorage struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func NewSessionMemoryStorage() *SessionMemoryStorage {
	return &SessionMemoryStorage{
		sessions: make(map[string]*models.Session),
	}
}

func (s *SessionMemoryStorage) CreateSession(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return apperror.NewInternalError(fmt.Sprintf("session %s already exists", session.ID), nil)
	}

	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *SessionMemoryStorage) GetSession(id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, apperror.NewNotFoundError("session not found", nil)
	}

	copied := *session
	return &copied, nil
}

func (s *SessionMemoryStorage) TouchSession(id string, seen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return apperror.NewNotFoundError("session not found", nil)
	}

	session.LastSeenAt = seen
	return nil
}

func (s *SessionMemoryStorage) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
