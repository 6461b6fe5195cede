package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/pkg/auth"
)

type fakeUsers struct {
	users map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{}}
}

func (f *fakeUsers) UpsertIfAbsent(_ context.Context, email, name, image string) (models.User, error) {
	if u, ok := f.users[email]; ok {
		return *u, nil
	}
	u := &models.User{
		Email: email, Name: name, Image: image,
		Role: models.RoleCustomer, Timestamp: time.Now(),
	}
	f.users[email] = u
	return *u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	if u, ok := f.users[email]; ok {
		return *u, nil
	}
	return models.User{}, models.ErrNotFound
}

func (f *fakeUsers) RoleOf(_ context.Context, email string) (string, error) {
	if u, ok := f.users[email]; ok {
		return u.Role, nil
	}
	return "", models.ErrNotFound
}

func (f *fakeUsers) RequestSeller(_ context.Context, email string) error {
	u, ok := f.users[email]
	if !ok {
		return models.ErrNotFound
	}
	if u.Status == models.StatusRequested || u.Status == models.StatusVerified {
		return models.ErrConflict
	}
	u.Status = models.StatusRequested
	return nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, email, role string) error {
	u, ok := f.users[email]
	if !ok {
		return models.ErrNotFound
	}
	u.Role = role
	u.Status = models.StatusVerified
	return nil
}

func (f *fakeUsers) AllExcept(_ context.Context, email string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Email != email {
			out = append(out, *u)
		}
	}
	return out, nil
}

func TestSignInProvisionsCustomer(t *testing.T) {
	store := newFakeUsers()
	svc := services.NewUserService(store)

	user, token, err := svc.SignIn(context.Background(), "new@example.com", "New User", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)

	claims, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", claims.Email)
}

func TestSignInKeepsExistingRole(t *testing.T) {
	store := newFakeUsers()
	store.users["admin@example.com"] = &models.User{
		Email: "admin@example.com", Role: models.RoleAdmin,
	}
	svc := services.NewUserService(store)

	user, _, err := svc.SignIn(context.Background(), "admin@example.com", "Someone Else", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role, "sign-in must never reset the role")
}

func TestRequestSellerConflictsWhenPending(t *testing.T) {
	store := newFakeUsers()
	svc := services.NewUserService(store)

	_, _, err := svc.SignIn(context.Background(), "u@example.com", "U", "")
	require.NoError(t, err)

	require.NoError(t, svc.RequestSeller(context.Background(), "u@example.com"))
	err = svc.RequestSeller(context.Background(), "u@example.com")
	require.ErrorIs(t, err, models.ErrConflict)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	store := newFakeUsers()
	svc := services.NewUserService(store)

	err := svc.UpdateRole(context.Background(), "u@example.com", "superuser")
	require.ErrorIs(t, err, models.ErrBadInput)
}

func TestUpdateRolePromotes(t *testing.T) {
	store := newFakeUsers()
	svc := services.NewUserService(store)
	_, _, err := svc.SignIn(context.Background(), "u@example.com", "U", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateRole(context.Background(), "u@example.com", models.RoleSeller))

	role, err := svc.RoleOf(context.Background(), "u@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, role)

	user, err := svc.Profile(context.Background(), "u@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, user.Status)
}
