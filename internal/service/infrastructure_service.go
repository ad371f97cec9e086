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

type infrastructureRepository interface {
	List(ctx context.Context, filter models.InfrastructureFilter) ([]models.Infrastructure, int, error)
	FindByID(ctx context.Context, id string) (*models.Infrastructure, error)
	Create(ctx context.Context, item *models.Infrastructure) error
	Update(ctx context.Context, item *models.Infrastructure) error
	Delete(ctx context.Context, id string) error
}

// InfrastructureService provides catalog management for campus facilities.
type InfrastructureService struct {
	repo      infrastructureRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInfrastructureService constructs an InfrastructureService instance.
func NewInfrastructureService(repo infrastructureRepository, validate *validator.Validate, logger *zap.Logger) *InfrastructureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InfrastructureService{repo: repo, validator: validate, logger: logger}
}

// List returns facilities matching the filter.
func (s *InfrastructureService) List(ctx context.Context, filter models.InfrastructureFilter) ([]models.Infrastructure, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list infrastructure")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a single facility.
func (s *InfrastructureService) Get(ctx context.Context, id string) (*models.Infrastructure, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "facility not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load facility")
	}
	return item, nil
}

// Create adds a facility to the catalog.
func (s *InfrastructureService) Create(ctx context.Context, actor authz.Actor, req models.InfrastructureRequest) (*models.Infrastructure, error) {
	if decision := authz.Authorize(actor, authz.ActionWrite, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return nil, authzError(decision)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid facility payload")
	}
	if !models.ValidFacilityKind(req.Type) {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "type", Message: "unknown facility type"}})
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	item := &models.Infrastructure{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
		Active:   active,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create facility")
	}

	s.logger.Info("facility created", zap.String("facility_id", item.ID), zap.String("type", string(item.Type)))
	return item, nil
}

// Update modifies a catalog entry.
func (s *InfrastructureService) Update(ctx context.Context, actor authz.Actor, id string, req models.InfrastructureRequest) (*models.Infrastructure, error) {
	if decision := authz.Authorize(actor, authz.ActionWrite, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return nil, authzError(decision)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid facility payload")
	}
	if !models.ValidFacilityKind(req.Type) {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "type", Message: "unknown facility type"}})
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.Type = req.Type
	item.Location = req.Location
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update facility")
	}
	return item, nil
}

// Delete removes a catalog entry.
func (s *InfrastructureService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{AdminOnly: true}); !decision.Allowed {
		return authzError(decision)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete facility")
	}

	s.logger.Info("facility deleted", zap.String("facility_id", id))
	return nil
}
