package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/pkg/bind"
	"github.com/shashiranjanraj/plantnet/pkg/logger"
	"github.com/shashiranjanraj/plantnet/pkg/payment"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// decode binds and validates the JSON body, writing the error response
// itself. Returns false when the handler should stop.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

// fail maps service errors onto HTTP responses. Anything unmapped is
// logged with the request context and reported as a 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, models.ErrInsufficientStock):
		response.Conflict(w, "insufficient stock")
	case errors.Is(err, models.ErrInvalidTransition):
		response.Conflict(w, err.Error())
	case errors.Is(err, models.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, models.ErrBadInput):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, payment.ErrDeclined):
		response.Error(w, http.StatusBadGateway, "payment authorization failed")
	default:
		logger.WithCtx(r.Context()).Error("request failed",
			"path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
