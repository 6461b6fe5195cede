package models_test

import (
	"testing"

	"github.com/shashiranjanraj/plantnet/app/models"
)

func TestTransitions(t *testing.T) {
	allowed := []struct {
		from, to models.OrderStatus
	}{
		{models.StatusPending, models.StatusProcessing},
		{models.StatusPending, models.StatusCancelled},
		{models.StatusProcessing, models.StatusDelivered},
		{models.StatusProcessing, models.StatusCancelled},
	}
	for _, tc := range allowed {
		if !models.CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to models.OrderStatus
	}{
		{models.StatusPending, models.StatusDelivered},
		{models.StatusProcessing, models.StatusPending},
		{models.StatusDelivered, models.StatusCancelled},
		{models.StatusDelivered, models.StatusPending},
		{models.StatusCancelled, models.StatusPending},
		{models.StatusCancelled, models.StatusDelivered},
		{models.StatusPending, models.StatusPending},
	}
	for _, tc := range denied {
		if models.CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	if !models.StatusDelivered.Terminal() {
		t.Error("Delivered should be terminal")
	}
	if !models.StatusCancelled.Terminal() {
		t.Error("Cancelled should be terminal")
	}
	if models.StatusPending.Terminal() {
		t.Error("Pending should not be terminal")
	}
	if models.StatusProcessing.Terminal() {
		t.Error("Processing should not be terminal")
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"Pending", "Processing", "Delivered", "Cancelled"} {
		if _, err := models.ParseStatus(raw); err != nil {
			t.Errorf("expected %q to parse, got %v", raw, err)
		}
	}
	for _, raw := range []string{"pending", "Shipped", "", "delivered "} {
		if _, err := models.ParseStatus(raw); err == nil {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{"customer", "seller", "admin"} {
		if !models.ValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"", "Customer", "superadmin"} {
		if models.ValidRole(role) {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}
