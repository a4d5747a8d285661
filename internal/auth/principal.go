package auth

import (
	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/models"
)

// PrivilegedUserID is the id of the single account that may manage posts:
// the first user ever registered.
const PrivilegedUserID uint = 1

// Principal is the identity behind a request. The zero value is anonymous.
type Principal struct {
	User *models.User
}

var Anonymous = Principal{}

func NewPrincipal(u *models.User) Principal {
	return Principal{User: u}
}

func (p Principal) IsAuthenticated() bool {
	return p.User != nil
}

func (p Principal) IsPrivileged() bool {
	return p.IsAuthenticated() && p.User.ID == PrivilegedUserID
}

// UserID returns 0 for the anonymous principal.
func (p Principal) UserID() uint {
	if p.User == nil {
		return 0
	}
	return p.User.ID
}

type Role int

const (
	// RoleAuthenticated admits any logged-in user.
	RoleAuthenticated Role = iota
	// RolePrivileged admits only PrivilegedUserID.
	RolePrivileged
)

func (r Role) String() string {
	switch r {
	case RoleAuthenticated:
		return "authenticated"
	case RolePrivileged:
		return "privileged"
	default:
		return "unknown"
	}
}

// Authorize returns nil when p holds role.
//
// The privileged check looks only at the principal's id, never at who wrote
// a given post: user 1 may edit or delete anyone's post, and other users may
// not edit even their own.
func Authorize(p Principal, role Role) error {
	switch role {
	case RoleAuthenticated:
		if !p.IsAuthenticated() {
			return apperror.NewUnauthenticatedError("you need to log in first")
		}
		return nil
	case RolePrivileged:
		if !p.IsPrivileged() {
			return apperror.NewUnauthorizedError("you are not authorized to see this content")
		}
		return nil
	default:
		return apperror.NewUnauthorizedError("unknown role")
	}
}
