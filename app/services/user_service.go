package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/pkg/auth"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	UpsertIfAbsent(ctx context.Context, email, name, image string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	RoleOf(ctx context.Context, email string) (string, error)
	RequestSeller(ctx context.Context, email string) error
	UpdateRole(ctx context.Context, email, role string) error
	AllExcept(ctx context.Context, email string) ([]models.User, error)
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// SignIn provisions the user document on first contact and issues a
// session token. Existing users keep their persisted role and status.
func (s *UserService) SignIn(ctx context.Context, email, name, image string) (models.User, string, error) {
	user, err := s.users.UpsertIfAbsent(ctx, email, name, image)
	if err != nil {
		return models.User{}, "", fmt.Errorf("sign in %s: %w", email, err)
	}
	token, err := auth.Issue(user.Email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token for %s: %w", email, err)
	}
	return user, token, nil
}

// Save upserts the user document without touching the session. Existing
// users keep their persisted role and status.
func (s *UserService) Save(ctx context.Context, email, name, image string) (models.User, error) {
	return s.users.UpsertIfAbsent(ctx, email, name, image)
}

// Profile returns the persisted user document.
func (s *UserService) Profile(ctx context.Context, email string) (models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// RoleOf resolves the persisted role. Used by the authorization
// middleware, so a demotion takes effect on the next request even
// while the old token is still valid.
func (s *UserService) RoleOf(ctx context.Context, email string) (string, error) {
	return s.users.RoleOf(ctx, email)
}

// RequestSeller records the user's wish to become a seller.
func (s *UserService) RequestSeller(ctx context.Context, email string) error {
	return s.users.RequestSeller(ctx, email)
}

// UpdateRole assigns a role to a user (admin only).
func (s *UserService) UpdateRole(ctx context.Context, email, role string) error {
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: role %q", models.ErrBadInput, role)
	}
	return s.users.UpdateRole(ctx, email, role)
}

// Manageable lists every user except the calling admin.
func (s *UserService) Manageable(ctx context.Context, adminEmail string) ([]models.User, error) {
	return s.users.AllExcept(ctx, adminEmail)
}
