package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/pkg/cache"
	"github.com/shashiranjanraj/plantnet/pkg/logger"
	"github.com/shashiranjanraj/plantnet/pkg/storage"
)

// PlantStore is the persistence surface the plant service needs.
type PlantStore interface {
	Create(ctx context.Context, plant *models.Plant) error
	FindByID(ctx context.Context, id string) (models.Plant, error)
	All(ctx context.Context) ([]models.Plant, error)
	BySeller(ctx context.Context, email string) ([]models.Plant, error)
	Update(ctx context.Context, id, sellerEmail string, set bson.M) error
	Delete(ctx context.Context, id, sellerEmail string) error
	ApplyDelta(ctx context.Context, id primitive.ObjectID, delta int64) error
	DecrementIfAvailable(ctx context.Context, id primitive.ObjectID, n int64) error
}

type PlantService struct {
	plants PlantStore
}

func NewPlantService(plants PlantStore) *PlantService {
	return &PlantService{plants: plants}
}

// PlantInput is the validated body for creating or updating a plant.
type PlantInput struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Category    string `json:"category" validate:"required,min=2,max=60"`
	Description string `json:"description" validate:"nullable,max=2000"`
	Image       string `json:"image" validate:"nullable,url"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Quantity    int64  `json:"quantity" validate:"required,gte=0"`
}

// Add creates a plant owned by the calling seller.
func (s *PlantService) Add(ctx context.Context, seller models.UserRef, in PlantInput) (models.Plant, error) {
	plant := models.Plant{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Seller:      seller,
	}
	if err := s.plants.Create(ctx, &plant); err != nil {
		return models.Plant{}, fmt.Errorf("add plant: %w", err)
	}
	cache.Del(catalogueCacheKey)
	return plant, nil
}

// Get returns one plant by ID.
func (s *PlantService) Get(ctx context.Context, id string) (models.Plant, error) {
	return s.plants.FindByID(ctx, id)
}

const catalogueCacheKey = "plants:catalogue"

// Catalogue lists every plant. The list is the hottest read in the
// app, so it is served from Redis when possible; mutations invalidate
// the key and a cache outage degrades to database reads.
func (s *PlantService) Catalogue(ctx context.Context) ([]models.Plant, error) {
	var cached []models.Plant
	if cache.Get(catalogueCacheKey, &cached) {
		return cached, nil
	}

	plants, err := s.plants.All(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(catalogueCacheKey, plants, 30*time.Second); err != nil {
		logger.Warn("plants: cache catalogue", "error", err)
	}
	return plants, nil
}

// Inventory lists the plants owned by sellerEmail.
func (s *PlantService) Inventory(ctx context.Context, sellerEmail string) ([]models.Plant, error) {
	return s.plants.BySeller(ctx, sellerEmail)
}

// Update replaces the descriptive fields of the seller's own plant.
// Quantity is intentionally excluded; stock moves only through orders
// and AdjustQuantity on the order service.
func (s *PlantService) Update(ctx context.Context, id, sellerEmail string, in PlantInput) error {
	set := bson.M{
		"name":        in.Name,
		"category":    in.Category,
		"description": in.Description,
		"price":       in.Price,
	}
	if in.Image != "" {
		set["image"] = in.Image
	}
	if err := s.plants.Update(ctx, id, sellerEmail, set); err != nil {
		return err
	}
	cache.Del(catalogueCacheKey)
	return nil
}

// Remove deletes the seller's own plant.
func (s *PlantService) Remove(ctx context.Context, id, sellerEmail string) error {
	if err := s.plants.Delete(ctx, id, sellerEmail); err != nil {
		return err
	}
	cache.Del(catalogueCacheKey)
	return nil
}

// UploadImage stores an uploaded image and stamps its public URL on
// the seller's plant. The object key is randomized so re-uploads never
// collide or overwrite another seller's file.
func (s *PlantService) UploadImage(ctx context.Context, id, sellerEmail, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("%w: unsupported image type %q", models.ErrBadInput, ext)
	}

	key := "plants/" + uuid.NewString() + ext
	if err := storage.PutStream(key, r); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	url := storage.URL(key)
	if err := s.plants.Update(ctx, id, sellerEmail, bson.M{"image": url}); err != nil {
		storage.Delete(key)
		return "", err
	}
	cache.Del(catalogueCacheKey)
	return url, nil
}
