package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fatimapsp/unex-escuta/internal/authz"
	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// UserService provides account management use cases. Every operation on a
// specific account runs through the shared authorization check so the
// owner-or-admin rule lives in one place.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns accounts matching the filter. Admin only.
func (s *UserService) List(ctx context.Context, actor authz.Actor, filter models.UserFilter) ([]models.UserInfo, *models.Pagination, error) {
	if decision := authz.Authorize(actor, authz.ActionRead, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return nil, nil, authzError(decision)
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	infos := make([]models.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, newUserInfo(&users[i]))
	}

	return infos, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a single account. Owners see their own record, admins see any.
func (s *UserService) Get(ctx context.Context, actor authz.Actor, id string) (*models.UserInfo, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if decision := authz.Authorize(actor, authz.ActionRead, authz.Resource{OwnerID: user.ID}); !decision.Allowed {
		return nil, authzError(decision)
	}

	info := newUserInfo(user)
	return &info, nil
}

// Update modifies an account. Role and active changes are admin only even
// when the owner is the caller.
func (s *UserService) Update(ctx context.Context, actor authz.Actor, id string, req models.UpdateUserRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if decision := authz.Authorize(actor, authz.ActionWrite, authz.Resource{OwnerID: user.ID}); !decision.Allowed {
		return nil, authzError(decision)
	}

	if (req.Role != nil || req.Active != nil) && actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may change role or active status")
	}

	if req.Email != "" && req.Email != user.Email {
		if exists, err := s.repo.ExistsByEmail(ctx, req.Email, user.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
		} else if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		user.Email = req.Email
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Courses != nil {
		user.Courses = req.Courses
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	info := newUserInfo(user)
	return &info, nil
}

// ChangePassword replaces the caller's password after verifying the current
// one and applying the strength rules.
func (s *UserService) ChangePassword(ctx context.Context, actor authz.Actor, id string, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change password payload")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if decision := authz.Authorize(actor, authz.ActionWrite, authz.Resource{OwnerID: user.ID}); !decision.Allowed {
		return authzError(decision)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "current password does not match")
	}

	if details := passwordWeaknesses(req.NewPassword); len(details) > 0 {
		return appErrors.Validation(details)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash), time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID))
	return nil
}

// Deactivate disables an account without removing its feedback history.
func (s *UserService) Deactivate(ctx context.Context, actor authz.Actor, id string) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{OwnerID: user.ID}); !decision.Allowed {
		return authzError(decision)
	}

	if err := s.repo.Deactivate(ctx, user.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate user")
	}

	s.logger.Info("user deactivated", zap.String("user_id", user.ID))
	return nil
}

// Delete removes an account permanently. Admin only.
func (s *UserService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return authzError(decision)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *UserService) findUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// authzError maps a denying decision to the matching typed error.
func authzError(decision authz.Decision) *appErrors.Error {
	if decision.Reason == authz.ReasonUnauthenticated {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	return appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions")
}
