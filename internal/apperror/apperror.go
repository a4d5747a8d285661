// Package apperror defines the typed errors shared by storage, services and handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType int

const (
	UnknownError ErrorType = iota
	// DuplicateEmail: registration with an email that already has an account.
	DuplicateEmail
	// DuplicateTitle: a post with the same title already exists.
	DuplicateTitle
	// NoSuchAccount: login with an unregistered email.
	NoSuchAccount
	// BadPassword: login with a wrong password.
	BadPassword
	// Unauthenticated: the operation needs a logged-in principal.
	Unauthenticated
	// Unauthorized: the principal is logged in but lacks the required role.
	Unauthorized
	NotFound
	ValidationFailed
	BadRequest
	Database
	Config
	Internal
)

func (t ErrorType) String() string {
	switch t {
	case DuplicateEmail:
		return "duplicate_email"
	case DuplicateTitle:
		return "duplicate_title"
	case NoSuchAccount:
		return "no_such_account"
	case BadPassword:
		return "bad_password"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not_found"
	case ValidationFailed:
		return "validation_failed"
	case BadRequest:
		return "bad_request"
	case Database:
		return "database"
	case Config:
		return "config"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError of the same type, so errors.Is(err, &AppError{Type: NotFound}) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DuplicateEmail, DuplicateTitle:
		return http.StatusConflict
	case NoSuchAccount, BadPassword, Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case ValidationFailed, BadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToResponse hides the wrapped error; only Message reaches the client.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Type.String()}
}

func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewDuplicateEmailError(email string) *AppError {
	return New(DuplicateEmail, fmt.Sprintf("account with email %s already exists", email), nil)
}

func NewDuplicateTitleError(title string) *AppError {
	return New(DuplicateTitle, fmt.Sprintf("post with title %q already exists", title), nil)
}

func NewNoSuchAccountError(email string) *AppError {
	return New(NoSuchAccount, fmt.Sprintf("no account registered for %s", email), nil)
}

func NewBadPasswordError() *AppError {
	return New(BadPassword, "password is wrong", nil)
}

func NewUnauthenticatedError(message string) *AppError {
	return New(Unauthenticated, message, nil)
}

func NewUnauthorizedError(message string) *AppError {
	return New(Unauthorized, message, nil)
}

func NewNotFoundError(message string, err error) *AppError {
	return New(NotFound, message, err)
}

func NewValidationError(message string, err error) *AppError {
	return New(ValidationFailed, message, err)
}

func NewBadRequestError(message string, err error) *AppError {
	return New(BadRequest, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return New(Database, message, err)
}

func NewConfigError(message string, err error) *AppError {
	return New(Config, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return New(Internal, message, err)
}

// FromError finds the first *AppError in err's chain.
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func TypeOf(err error) ErrorType {
	if appErr, ok := FromError(err); ok {
		return appErr.Type
	}
	return UnknownError
}

func IsDuplicateEmail(err error) bool { return TypeOf(err) == DuplicateEmail }
func IsDuplicateTitle(err error) bool { return TypeOf(err) == DuplicateTitle }
func IsNoSuchAccount(err error) bool { return TypeOf(err) == NoSuchAccount }
func IsBadPassword(err error) bool { return TypeOf(err) == BadPassword }
func IsUnauthenticated(err error) bool { return TypeOf(err) == Unauthenticated }
func IsUnauthorized(err error) bool { return TypeOf(err) == Unauthorized }
func IsNotFound(err error) bool { return TypeOf(err) == NotFound }
func IsValidationFailed(err error) bool { return TypeOf(err) == ValidationFailed }
