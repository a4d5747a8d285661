package handler

import (
	"net/http"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/session"
	"github.com/VitaminP8/blogery/internal/validation"
	"github.com/VitaminP8/blogery/models"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=256"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	GravatarHash string `json:"gravatar_hash"`
	Privileged   bool   `json:"privileged"`
}

type meResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *userResponse `json:"user,omitempty"`
}

func newUserResponse(u *models.User) *userResponse {
	return &userResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		GravatarHash: u.GravatarHash(),
		Privileged:   auth.NewPrincipal(u).IsPrivileged(),
	}
}

// register creates the account and logs it in right away.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.RegisterUser(req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !h.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		// one answer for both cases, so the response does not reveal registered emails
		if apperror.IsNoSuchAccount(err) || apperror.IsBadPassword(err) {
			writeJSON(w, http.StatusUnauthorized, apperror.ErrorResponse{
				Error: "invalid email or password",
				Code:  "invalid_credentials",
			})
			return
		}
		writeError(w, r, err)
		return
	}

	if !h.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if token := session.TokenFromRequest(r); token != "" {
		if err := h.sessions.End(token); err != nil {
			writeError(w, r, err)
			return
		}
	}
	session.ClearCookie(w, h.cookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if !p.IsAuthenticated() {
		writeJSON(w, http.StatusOK, meResponse{})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Authenticated: true, User: newUserResponse(p.User)})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, u *models.User) bool {
	token, err := h.sessions.Start(u)
	if err != nil {
		writeError(w, r, err)
		return false
	}
	session.SetCookie(w, token, h.cookieSecure)
	return true
}
