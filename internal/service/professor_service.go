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

type professorRepository interface {
	List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error)
	FindByID(ctx context.Context, id string) (*models.Professor, error)
	Create(ctx context.Context, professor *models.Professor) error
	Update(ctx context.Context, professor *models.Professor) error
	Delete(ctx context.Context, id string) error
}

// ProfessorService provides catalog management for professors. Reads are
// open to any caller; writes are admin only.
type ProfessorService struct {
	repo      professorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfessorService constructs a ProfessorService instance.
func NewProfessorService(repo professorRepository, validate *validator.Validate, logger *zap.Logger) *ProfessorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfessorService{repo: repo, validator: validate, logger: logger}
}

// List returns professors matching the filter.
func (s *ProfessorService) List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, *models.Pagination, error) {
	professors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list professors")
	}
	return professors, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a single professor.
func (s *ProfessorService) Get(ctx context.Context, id string) (*models.Professor, error) {
	professor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	return professor, nil
}

// Create adds a professor to the catalog.
func (s *ProfessorService) Create(ctx context.Context, actor authz.Actor, req models.ProfessorRequest) (*models.Professor, error) {
	if decision := authz.Authorize(actor, authz.ActionWrite, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return nil, authzError(decision)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}

	professor := &models.Professor{
		Name:        req.Name,
		Courses:     req.Courses,
		Disciplines: req.Disciplines,
	}
	if err := s.repo.Create(ctx, professor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create professor")
	}

	s.logger.Info("professor created", zap.String("professor_id", professor.ID))
	return professor, nil
}

// Update modifies a catalog entry.
func (s *ProfessorService) Update(ctx context.Context, actor authz.Actor, id string, req models.ProfessorRequest) (*models.Professor, error) {
	if decision := authz.Authorize(actor, authz.ActionWrite, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return nil, authzError(decision)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}

	professor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	professor.Name = req.Name
	professor.Courses = req.Courses
	professor.Disciplines = req.Disciplines

	if err := s.repo.Update(ctx, professor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update professor")
	}
	return professor, nil
}

// Delete removes a catalog entry.
func (s *ProfessorService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return authzError(decision)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete professor")
	}

	s.logger.Info("professor deleted", zap.String("professor_id", id))
	return nil
}
