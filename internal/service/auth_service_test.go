package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

type mockAuthRepo struct {
	users         map[string]*models.User
	emailIndex    map[string]string
	registrations map[string]string
	created       []*models.User
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if id, ok := m.emailIndex[email]; ok {
		cp := *m.users[id]
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	_, ok := m.emailIndex[email]
	return ok, nil
}

func (m *mockAuthRepo) ExistsByRegistration(ctx context.Context, registration, excludeID string) (bool, error) {
	_, ok := m.registrations[registration]
	return ok, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "generated"
	}
	m.created = append(m.created, user)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "unex-escuta-api"}
}

func TestAuthRegister(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:         "Maria Silva",
		Email:        "maria@unex.edu.br",
		Password:     "Str0ng!pass",
		Registration: "20250001",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleStudent, info.Role)
	assert.True(t, info.Active)
	require.Len(t, repo.created, 1)
	assert.NotEqual(t, "Str0ng!pass", repo.created[0].PasswordHash)
}

func TestAuthRegisterWeakPassword(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:         "Maria Silva",
		Email:        "maria@unex.edu.br",
		Password:     "alllowercase1",
		Registration: "20250001",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	fields := make([]string, 0, len(appErr.Details))
	messages := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
		messages = append(messages, d.Message)
	}
	assert.Contains(t, fields, "password")
	assert.Contains(t, messages, "must contain an upper case letter")
	assert.Contains(t, messages, "must contain a special character")
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{emailIndex: map[string]string{"maria@unex.edu.br": "u1"}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:         "Maria Silva",
		Email:        "maria@unex.edu.br",
		Password:     "Str0ng!pass",
		Registration: "20250001",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAuthLoginAndValidateToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &mockAuthRepo{
		users: map[string]*models.User{
			"u1": {ID: "u1", Email: "maria@unex.edu.br", PasswordHash: string(hash), Role: models.RoleStudent, Active: true},
		},
		emailIndex: map[string]string{"maria@unex.edu.br": "u1"},
	}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "maria@unex.edu.br", Password: "Str0ng!pass"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &mockAuthRepo{
		users: map[string]*models.User{
			"u1": {ID: "u1", Email: "maria@unex.edu.br", PasswordHash: string(hash), Active: true},
		},
		emailIndex: map[string]string{"maria@unex.edu.br": "u1"},
	}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "maria@unex.edu.br", Password: "wrong"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &mockAuthRepo{
		users: map[string]*models.User{
			"u1": {ID: "u1", Email: "maria@unex.edu.br", PasswordHash: string(hash), Active: false},
		},
		emailIndex: map[string]string{"maria@unex.edu.br": "u1"},
	}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "maria@unex.edu.br", Password: "Str0ng!pass"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthValidateTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}
