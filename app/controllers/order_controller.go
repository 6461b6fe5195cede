package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// OrderController serves order placement, cancellation, progression
// and the customer/seller order views.
type OrderController struct {
	orders *services.OrderService
	users  *services.UserService
}

func NewOrderController(orders *services.OrderService, users *services.UserService) *OrderController {
	return &OrderController{orders: orders, users: users}
}

// Store places an order for the calling customer.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	var body services.OrderInput
	if !decode(w, r, &body) {
		return
	}

	email := middleware.EmailFromCtx(r.Context())
	user, err := c.users.Profile(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}

	order, err := c.orders.Place(r.Context(),
		models.UserRef{Email: user.Email, Name: user.Name}, body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, order)
}

// Destroy cancels the caller's order. Delivered orders return 409.
func (c *OrderController) Destroy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	email := middleware.EmailFromCtx(r.Context())
	if err := c.orders.Cancel(r.Context(), id, email); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"cancelled": id})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves a seller's order along the lifecycle.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body statusRequest
	if !decode(w, r, &body) {
		return
	}

	id := chi.URLParam(r, "id")
	email := middleware.EmailFromCtx(r.Context())
	if err := c.orders.Progress(r.Context(), id, email, body.Status); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"id": id, "status": body.Status})
}

type quantityRequest struct {
	Delta int64 `json:"delta" validate:"required"`
}

// AdjustQuantity applies a stock delta to the plant behind an order.
func (c *OrderController) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var body quantityRequest
	if !decode(w, r, &body) {
		return
	}

	id := chi.URLParam(r, "id")
	email := middleware.EmailFromCtx(r.Context())
	if err := c.orders.AdjustQuantity(r.Context(), id, email, body.Delta); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]any{"id": id, "delta": body.Delta})
}

// Index serves the joined order views. ?customer={email} lists orders
// the caller placed, ?seller={email} lists orders placed against the
// caller's plants. The seller view additionally requires the seller
// role, resolved fresh from the store.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	caller := middleware.EmailFromCtx(r.Context())

	if email := r.URL.Query().Get("customer"); email != "" {
		if caller != email {
			response.Forbidden(w)
			return
		}
		views, err := c.orders.PlacedBy(r.Context(), email)
		if err != nil {
			fail(w, r, err)
			return
		}
		response.Success(w, views)
		return
	}

	if email := r.URL.Query().Get("seller"); email != "" {
		if caller != email {
			response.Forbidden(w)
			return
		}
		role, err := c.users.RoleOf(r.Context(), caller)
		if err != nil || (role != models.RoleSeller && role != models.RoleAdmin) {
			response.Forbidden(w)
			return
		}
		views, err := c.orders.ReceivedBy(r.Context(), email)
		if err != nil {
			fail(w, r, err)
			return
		}
		response.Success(w, views)
		return
	}

	response.ValidationError(w, map[string]string{
		"customer": "Either the customer or the seller query parameter is required.",
	})
}
