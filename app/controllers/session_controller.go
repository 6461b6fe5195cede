package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/pkg/auth"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// SessionController issues and clears the auth cookie.
type SessionController struct {
	users *services.UserService
}

func NewSessionController(users *services.UserService) *SessionController {
	return &SessionController{users: users}
}

type signInRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"nullable,max=120"`
	Image string `json:"image" validate:"nullable,url"`
}

// SignIn provisions the user on first contact and sets the token
// cookie. Existing users keep their persisted role.
func (c *SessionController) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInRequest
	if !decode(w, r, &body) {
		return
	}

	user, token, err := c.users.SignIn(r.Context(), body.Email, body.Name, body.Image)
	if err != nil {
		fail(w, r, err)
		return
	}

	auth.SetCookie(w, token)
	response.Success(w, user)
}

// SignOut clears the token cookie.
func (c *SessionController) SignOut(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	response.Success(w, map[string]bool{"signedOut": true})
}

// Me returns the calling user's own document.
func (c *SessionController) Me(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromCtx(r.Context())
	user, err := c.users.Profile(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}
