package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fatimapsp/unex-escuta/internal/authz"
	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

type mockUserRepo struct {
	users       map[string]*models.User
	emails      map[string]string
	deactivated []string
	deleted     []string
	updated     []*models.User
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	if id, ok := m.emails[email]; ok {
		return id != excludeID, nil
	}
	return false, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = append(m.updated, user)
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if user, ok := m.users[id]; ok {
		user.PasswordHash = passwordHash
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func newUserRepoWith(users ...*models.User) *mockUserRepo {
	repo := &mockUserRepo{users: map[string]*models.User{}, emails: map[string]string{}}
	for _, u := range users {
		repo.users[u.ID] = u
		repo.emails[u.Email] = u.ID
	}
	return repo
}

func rolePtr(r models.UserRole) *models.UserRole { return &r }

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, code, appErr.Code)
}

func TestUserListRequiresAdmin(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "u1", Email: "a@unex.edu.br"})
	svc := NewUserService(repo, nil, zap.NewNop())

	_, _, err := svc.List(context.Background(), authz.Actor{ID: "u1", Role: models.RoleStudent}, models.UserFilter{})
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	infos, pagination, err := svc.List(context.Background(), authz.Actor{ID: "admin", Role: models.RoleAdmin}, models.UserFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.NotNil(t, pagination)
}

func TestUserGetOwnerAndStranger(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "u1", Email: "a@unex.edu.br", Name: "Ana"})
	svc := NewUserService(repo, nil, zap.NewNop())

	info, err := svc.Get(context.Background(), authz.Actor{ID: "u1", Role: models.RoleStudent}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", info.Name)

	_, err = svc.Get(context.Background(), authz.Actor{ID: "u2", Role: models.RoleStudent}, "u1")
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	_, err = svc.Get(context.Background(), authz.Actor{}, "u1")
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestUserUpdateRoleChangeIsAdminOnly(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "u1", Email: "a@unex.edu.br", Role: models.RoleStudent})
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), authz.Actor{ID: "u1", Role: models.RoleStudent}, "u1", models.UpdateUserRequest{
		Role: rolePtr(models.RoleAdmin),
	})
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
	assert.Empty(t, repo.updated)

	info, err := svc.Update(context.Background(), authz.Actor{ID: "admin", Role: models.RoleAdmin}, "u1", models.UpdateUserRequest{
		Role: rolePtr(models.RoleProfessor),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleProfessor, info.Role)
}

func TestUserUpdateEmailConflict(t *testing.T) {
	repo := newUserRepoWith(
		&models.User{ID: "u1", Email: "a@unex.edu.br"},
		&models.User{ID: "u2", Email: "b@unex.edu.br"},
	)
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), authz.Actor{ID: "u1", Role: models.RoleStudent}, "u1", models.UpdateUserRequest{
		Email: "b@unex.edu.br",
	})
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrConflict.Code)
}

func TestUserChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Curr3nt!pw"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := newUserRepoWith(&models.User{ID: "u1", Email: "a@unex.edu.br", PasswordHash: string(hash)})
	svc := NewUserService(repo, nil, zap.NewNop())
	actor := authz.Actor{ID: "u1", Role: models.RoleStudent}

	err = svc.ChangePassword(context.Background(), actor, "u1", models.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "N3w!passw",
	})
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	err = svc.ChangePassword(context.Background(), actor, "u1", models.ChangePasswordRequest{
		CurrentPassword: "Curr3nt!pw",
		NewPassword:     "weak",
	})
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrValidation.Code)

	err = svc.ChangePassword(context.Background(), actor, "u1", models.ChangePasswordRequest{
		CurrentPassword: "Curr3nt!pw",
		NewPassword:     "N3w!passw",
	})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["u1"].PasswordHash), []byte("N3w!passw")))
}

func TestUserDeactivateOwner(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "u1", Email: "a@unex.edu.br"})
	svc := NewUserService(repo, nil, zap.NewNop())

	err := svc.Deactivate(context.Background(), authz.Actor{ID: "u1", Role: models.RoleStudent}, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, repo.deactivated)
}

func TestUserDeleteAdminOnly(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "u1", Email: "a@unex.edu.br"})
	svc := NewUserService(repo, nil, zap.NewNop())

	err := svc.Delete(context.Background(), authz.Actor{ID: "u1", Role: models.RoleStudent}, "u1")
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)

	err = svc.Delete(context.Background(), authz.Actor{ID: "admin", Role: models.RoleAdmin}, "missing")
	require.Error(t, err)
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)

	err = svc.Delete(context.Background(), authz.Actor{ID: "admin", Role: models.RoleAdmin}, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, repo.deleted)
}
