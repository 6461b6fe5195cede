package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// PaymentController creates standalone payment intents for clients
// that collect card details before placing the order. The client
// submits what it wants to buy, never what it wants to pay.
type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// CreateIntent authorizes a charge for the plant at its current unit
// price and returns the client secret the frontend needs to confirm it.
func (c *PaymentController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var body services.IntentInput
	if !decode(w, r, &body) {
		return
	}

	email := middleware.EmailFromCtx(r.Context())
	intent, err := c.payments.CreateIntent(r.Context(), email, body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, intent)
}
