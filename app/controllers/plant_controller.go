package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/pkg/auth"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// PlantController serves the public catalogue and seller inventory
// management.
type PlantController struct {
	plants *services.PlantService
	users  *services.UserService
}

func NewPlantController(plants *services.PlantService, users *services.UserService) *PlantController {
	return &PlantController{plants: plants, users: users}
}

// Index lists the whole catalogue. Public. With ?owner=me it lists
// the calling seller's own inventory instead; that branch verifies
// the session cookie itself since the bare route carries no auth
// middleware.
func (c *PlantController) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("owner") == "me" {
		c.inventory(w, r)
		return
	}

	plants, err := c.plants.Catalogue(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, plants)
}

func (c *PlantController) inventory(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.Verify(auth.FromRequest(r))
	if err != nil {
		response.Unauthorized(w)
		return
	}
	role, err := c.users.RoleOf(r.Context(), claims.Email)
	if err != nil || (role != models.RoleSeller && role != models.RoleAdmin) {
		response.Forbidden(w)
		return
	}

	plants, err := c.plants.Inventory(r.Context(), claims.Email)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, plants)
}

// Show returns one plant. Public.
func (c *PlantController) Show(w http.ResponseWriter, r *http.Request) {
	plant, err := c.plants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, plant)
}

// Store creates a plant owned by the calling seller.
func (c *PlantController) Store(w http.ResponseWriter, r *http.Request) {
	var body services.PlantInput
	if !decode(w, r, &body) {
		return
	}

	email := middleware.EmailFromCtx(r.Context())
	seller, err := c.users.Profile(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}

	plant, err := c.plants.Add(r.Context(),
		models.UserRef{Email: seller.Email, Name: seller.Name}, body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, plant)
}

// Update replaces the descriptive fields of the caller's plant.
func (c *PlantController) Update(w http.ResponseWriter, r *http.Request) {
	var body services.PlantInput
	if !decode(w, r, &body) {
		return
	}

	id := chi.URLParam(r, "id")
	email := middleware.EmailFromCtx(r.Context())
	if err := c.plants.Update(r.Context(), id, email, body); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"updated": id})
}

// Destroy removes the caller's plant.
func (c *PlantController) Destroy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	email := middleware.EmailFromCtx(r.Context())
	if err := c.plants.Remove(r.Context(), id, email); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"deleted": id})
}

// UploadImage accepts a multipart image and stamps its URL on the
// caller's plant.
func (c *PlantController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	id := chi.URLParam(r, "id")
	email := middleware.EmailFromCtx(r.Context())
	url, err := c.plants.UploadImage(r.Context(), id, email, header.Filename, file)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"image": url})
}
