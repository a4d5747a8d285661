package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/internal/password"
	"github.com/VitaminP8/blogery/models"
)

type UserMemoryStorage struct {
	mu      sync.Mutex
	users   map[uint]*models.User
	byEmail map[string]uint
	nextID  uint
	hasher  *password.Hasher
}

func NewUserMemoryStorage(hasher *password.Hasher) *UserMemoryStorage {
	return &UserMemoryStorage{
		users:   make(map[uint]*models.User),
		byEmail: make(map[string]uint),
		nextID:  1,
		hasher:  hasher,
	}
}

func (s *UserMemoryStorage) RegisterUser(email, name, plain string) (*models.User, error) {
	// hashing is slow, keep it outside the lock
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, apperror.NewDuplicateEmailError(email)
	}

	user := &models.User{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	s.nextID++

	s.users[user.ID] = user
	s.byEmail[email] = user.ID

	copied := *user
	return &copied, nil
}

func (s *UserMemoryStorage) Authenticate(email, plain string) (*models.User, error) {
	s.mu.Lock()
	id, exists := s.byEmail[email]
	var user models.User
	if exists {
		user = *s.users[id]
	}
	s.mu.Unlock()

	if !exists {
		return nil, apperror.NewNoSuchAccountError(email)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, plain)
	if err != nil {
		return nil, apperror.NewInternalError(fmt.Sprintf("stored hash for user %d is unusable", user.ID), err)
	}
	if !ok {
		return nil, apperror.NewBadPasswordError()
	}

	return &user, nil
}

func (s *UserMemoryStorage) GetUserByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user %d not found", id), nil)
	}

	copied := *user
	return &copied, nil
}
