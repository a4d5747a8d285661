package postgres

import (
	"fmt"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/internal/password"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type UserPostgresStorage struct {
	hasher *password.Hasher
}

func NewUserPostgresStorage(hasher *password.Hasher) *UserPostgresStorage {
	return &UserPostgresStorage{hasher: hasher}
}

func (s *UserPostgresStorage) RegisterUser(email, name, plain string) (*models.User, error) {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	// the unique index decides, concurrent registrations cannot both pass
	err = DB.Create(user).Error
	if err != nil {
		if isUniqueViolation(err, "email") {
			return nil, apperror.NewDuplicateEmailError(email)
		}
		return nil, dbError("could not create user", err)
	}

	return user, nil
}

func (s *UserPostgresStorage) Authenticate(email, plain string) (*models.User, error) {
	var user models.User
	err := DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperror.NewNoSuchAccountError(email)
		}
		return nil, dbError("could not load user", err)
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

func (s *UserPostgresStorage) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := DB.First(&user, id).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user %d not found", id), nil)
		}
		return nil, dbError("could not get user by id", err)
	}

	return &user, nil
}
