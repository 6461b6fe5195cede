// Package routes declares the HTTP surface of the marketplace.
package routes

import (
	"github.com/shashiranjanraj/plantnet/app/controllers"
	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/rbac"
	"github.com/shashiranjanraj/plantnet/pkg/router"
)

// Deps carries the wired controllers and the role resolver used by
// the authorization middleware.
type Deps struct {
	Sessions *controllers.SessionController
	Users    *controllers.UserController
	Plants   *controllers.PlantController
	Orders   *controllers.OrderController
	Payments *controllers.PaymentController
	Admin    *controllers.AdminController
	Roles    rbac.RoleResolver
}

// RegisterAPI mounts every endpoint under /api. The role gates read
// the persisted role on each request, so promotions and demotions are
// effective immediately regardless of token age.
func RegisterAPI(r *router.Router, d Deps) {
	seller := rbac.Require(d.Roles, models.RoleSeller, models.RoleAdmin)
	admin := rbac.Require(d.Roles, models.RoleAdmin)

	api := r.Group("/api")

	// Session
	api.Post("/session", "session.signin", d.Sessions.SignIn)
	api.Delete("/session", "session.signout", d.Sessions.SignOut)

	// User records may be provisioned before a session exists, so the
	// client can persist the profile it got from its identity provider.
	api.Post("/users/{email}", "users.upsert", d.Users.Upsert)

	// Public catalogue
	api.Get("/plants", "plants.index", d.Plants.Index)
	api.Get("/plants/{id}", "plants.show", d.Plants.Show)

	authed := api.Group("", middleware.Auth)

	// Profile
	authed.Get("/me", "session.me", d.Sessions.Me)
	authed.Get("/users/{email}", "users.show", d.Users.Show)
	authed.Get("/users/{email}/role", "users.role", d.Users.Role)
	authed.Patch("/users/{email}/request-role", "users.requestRole", d.Users.RequestSellerRole)

	// Seller inventory
	authed.Post("/plants", "plants.store", d.Plants.Store, seller)
	authed.Patch("/plants/{id}", "plants.update", d.Plants.Update, seller)
	authed.Delete("/plants/{id}", "plants.destroy", d.Plants.Destroy, seller)
	authed.Post("/plants/{id}/image", "plants.uploadImage", d.Plants.UploadImage, seller)

	// Orders
	authed.Post("/orders", "orders.store", d.Orders.Store)
	authed.Delete("/orders/{id}", "orders.destroy", d.Orders.Destroy)
	authed.Patch("/orders/{id}/status", "orders.updateStatus", d.Orders.UpdateStatus, seller)
	authed.Patch("/orders/{id}/quantity", "orders.adjustQuantity", d.Orders.AdjustQuantity)
	authed.Get("/orders", "orders.index", d.Orders.Index)

	// Payments
	authed.Post("/payment-intents", "payments.createIntent", d.Payments.CreateIntent)

	// Admin
	authed.Get("/admin/users", "admin.users", d.Admin.Users, admin)
	authed.Patch("/admin/users/{email}/role", "admin.updateRole", d.Admin.UpdateRole, admin)
	authed.Get("/admin/stats", "admin.stats", d.Admin.Stats, admin)
}
