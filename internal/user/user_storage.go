package user

import (
	"github.com/VitaminP8/blogery/models"
)

// UserStorage is the credential store. Implementations hash passwords
// themselves and enforce email uniqueness at the storage level.
type UserStorage interface {
	// RegisterUser fails with apperror.DuplicateEmail when the email is taken.
	RegisterUser(email, name, password string) (*models.User, error)
	// Authenticate fails with apperror.NoSuchAccount or apperror.BadPassword.
	Authenticate(email, password string) (*models.User, error)
	// GetUserByID fails with apperror.NotFound.
	GetUserByID(id uint) (*models.User, error)
}
