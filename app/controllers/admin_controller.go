package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/plantnet/app/repositories"
	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// AdminController serves the admin-only surface: user management and
// marketplace statistics.
type AdminController struct {
	users  *services.UserService
	orders *repositories.OrderRepository
	db     *mongo.Database
}

func NewAdminController(users *services.UserService, orders *repositories.OrderRepository, db *mongo.Database) *AdminController {
	return &AdminController{users: users, orders: orders, db: db}
}

// Users lists every user except the calling admin.
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	users, err := c.users.Manageable(r.Context(), middleware.EmailFromCtx(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, users)
}

type roleRequest struct {
	Role string `json:"role" validate:"required,in=customer,seller,admin"`
}

// UpdateRole assigns a role to a user. A promotion to seller also
// marks the pending request verified.
func (c *AdminController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var body roleRequest
	if !decode(w, r, &body) {
		return
	}

	email := chi.URLParam(r, "email")
	if err := c.users.UpdateRole(r.Context(), email, body.Role); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"email": email, "role": body.Role})
}

// Stats returns marketplace totals and the per-day order chart.
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.orders.Stats(r.Context(),
		c.db.Collection("users"), c.db.Collection("plants"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, stats)
}
