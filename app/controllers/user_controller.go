package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// UserController serves profile lookups and seller-role requests.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Upsert stores the user document if it does not exist yet. New users
// start as customers; repeat calls leave the persisted role and status
// untouched.
func (c *UserController) Upsert(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name" validate:"nullable"`
		Image string `json:"image" validate:"nullable,url"`
	}
	if !decode(w, r, &in) {
		return
	}

	user, err := c.users.Save(r.Context(), chi.URLParam(r, "email"), in.Name, in.Image)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// Role returns the persisted role for an email.
func (c *UserController) Role(w http.ResponseWriter, r *http.Request) {
	role, err := c.users.RoleOf(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"role": role})
}

// Show returns a user document by email. Users may only read their
// own document; admins may read anyone's.
func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	caller := middleware.EmailFromCtx(r.Context())

	if caller != email {
		role, err := c.users.RoleOf(r.Context(), caller)
		if err != nil || role != models.RoleAdmin {
			response.Forbidden(w)
			return
		}
	}

	user, err := c.users.Profile(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// RequestSellerRole marks the caller as waiting for verification.
// Repeat requests while one is pending return 409.
func (c *UserController) RequestSellerRole(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	caller := middleware.EmailFromCtx(r.Context())
	if caller != email {
		response.Forbidden(w)
		return
	}

	if err := c.users.RequestSeller(r.Context(), email); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"status": "Requested"})
}
