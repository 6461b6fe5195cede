package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/plantnet/pkg/validate"
)

type plantInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=120"`
	Category string `json:"category" validate:"required,min=2,max=60"`
	Image    string `json:"image"    validate:"nullable,url"`
	Price    int64  `json:"price"    validate:"required,gt=0"`
	Quantity int64  `json:"quantity" validate:"required,gte=0"`
	Role     string `json:"role"     validate:"nullable,in=customer,seller,admin"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(plantInput{
		Name:     "Monstera Deliciosa",
		Category: "Indoor",
		Image:    "", // nullable — allowed to be empty
		Price:    2500,
		Quantity: 10,
		Role:     "seller",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(plantInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	for _, field := range []string{"name", "category", "price"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	if errs := validate.Struct(plantInput{Name: "Aloe", Category: "Indoor", Price: 0, Quantity: 1}); errs["price"] == "" {
		t.Error("expected price = 0 to fail gt=0")
	}
	if errs := validate.Struct(plantInput{Name: "Aloe", Category: "Indoor", Price: -5, Quantity: 1}); errs["price"] == "" {
		t.Error("expected negative price to fail")
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(plantInput{
		Name: "Aloe", Category: "Indoor", Price: 100, Quantity: 1,
		Role: "superadmin",
	})
	if _, ok := errs["role"]; !ok {
		t.Error("expected role outside the list to fail")
	}
}

func TestURLRule(t *testing.T) {
	errs := validate.Struct(plantInput{
		Name: "Aloe", Category: "Indoor", Price: 100, Quantity: 1,
		Image: "not a url",
	})
	if _, ok := errs["image"]; !ok {
		t.Error("expected invalid url to fail")
	}

	errs = validate.Struct(plantInput{
		Name: "Aloe", Category: "Indoor", Price: 100, Quantity: 1,
		Image: "https://cdn.example.com/aloe.jpg",
	})
	if _, ok := errs["image"]; ok {
		t.Errorf("expected https url to pass, got: %v", errs["image"])
	}
}

func TestValidationUsesJSONFieldNames(t *testing.T) {
	type in struct {
		PlantID string `json:"plantId" validate:"required"`
	}
	errs := validate.Struct(in{})
	if _, ok := errs["plantId"]; !ok {
		t.Errorf("expected error keyed by json name, got: %v", errs)
	}
}
