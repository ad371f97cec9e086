package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Fatimapsp/unex-escuta/internal/authz"
	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

type disciplineRepository interface {
	List(ctx context.Context, filter models.DisciplineFilter) ([]models.Discipline, int, error)
	FindByID(ctx context.Context, id string) (*models.Discipline, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, discipline *models.Discipline) error
	Update(ctx context.Context, discipline *models.Discipline) error
	Delete(ctx context.Context, id string) error
}

// DisciplineService provides catalog management for disciplines. Names are
// unique across the catalog.
type DisciplineService struct {
	repo      disciplineRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDisciplineService constructs a DisciplineService instance.
func NewDisciplineService(repo disciplineRepository, validate *validator.Validate, logger *zap.Logger) *DisciplineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DisciplineService{repo: repo, validator: validate, logger: logger}
}

// List returns disciplines matching the filter.
func (s *DisciplineService) List(ctx context.Context, filter models.DisciplineFilter) ([]models.Discipline, *models.Pagination, error) {
	disciplines, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list disciplines")
	}
	return disciplines, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a single discipline.
func (s *DisciplineService) Get(ctx context.Context, id string) (*models.Discipline, error) {
	discipline, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "discipline not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discipline")
	}
	return discipline, nil
}

// Create adds a discipline to the catalog.
func (s *DisciplineService) Create(ctx context.Context, actor authz.Actor, req models.DisciplineRequest) (*models.Discipline, error) {
	if decision := authz.Authorize(actor, authz.ActionWrite, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return nil, authzError(decision)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discipline payload")
	}

	if exists, err := s.repo.ExistsByName(ctx, req.Name, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check discipline name")
	} else if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "discipline name already in use")
	}

	discipline := &models.Discipline{
		Name:       req.Name,
		Department: req.Department,
		Courses:    req.Courses,
		Professors: req.Professors,
	}
	if err := s.repo.Create(ctx, discipline); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create discipline")
	}

	s.logger.Info("discipline created", zap.String("discipline_id", discipline.ID))
	return discipline, nil
}

// Update modifies a catalog entry.
func (s *DisciplineService) Update(ctx context.Context, actor authz.Actor, id string, req models.DisciplineRequest) (*models.Discipline, error) {
	if decision := authz.Authorize(actor, authz.ActionWrite, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return nil, authzError(decision)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discipline payload")
	}

	discipline, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if exists, err := s.repo.ExistsByName(ctx, req.Name, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check discipline name")
	} else if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "discipline name already in use")
	}

	discipline.Name = req.Name
	discipline.Department = req.Department
	discipline.Courses = req.Courses
	discipline.Professors = req.Professors

	if err := s.repo.Update(ctx, discipline); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update discipline")
	}
	return discipline, nil
}

// Delete removes a catalog entry.
func (s *DisciplineService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return authzError(decision)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete discipline")
	}

	s.logger.Info("discipline deleted", zap.String("discipline_id", id))
	return nil
}
