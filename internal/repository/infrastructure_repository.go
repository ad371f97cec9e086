package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Fatimapsp/unex-escuta/internal/models"
)

const infrastructureColumns = "id, name, type, location, active, created_at, updated_at"

// InfrastructureRepository manages persistence for campus facilities.
type InfrastructureRepository struct {
	db *sqlx.DB
}

// NewInfrastructureRepository constructs an InfrastructureRepository.
func NewInfrastructureRepository(db *sqlx.DB) *InfrastructureRepository {
	return &InfrastructureRepository{db: db}
}

// List returns facilities matching filters along with total count.
func (r *InfrastructureRepository) List(ctx context.Context, filter models.InfrastructureFilter) ([]models.Infrastructure, int, error) {
	base := "FROM infrastructure_items WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(location) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", infrastructureColumns, base, size, offset)
	var items []models.Infrastructure
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list infrastructure: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count infrastructure: %w", err)
	}

	return items, total, nil
}

// FindByID fetches a facility by ID.
func (r *InfrastructureRepository) FindByID(ctx context.Context, id string) (*models.Infrastructure, error) {
	query := fmt.Sprintf("SELECT %s FROM infrastructure_items WHERE id = $1", infrastructureColumns)
	var item models.Infrastructure
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new facility record.
func (r *InfrastructureRepository) Create(ctx context.Context, item *models.Infrastructure) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO infrastructure_items (id, name, type, location, active, created_at, updated_at)
		VALUES (:id, :name, :type, :location, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create infrastructure: %w", err)
	}
	return nil
}

// Update modifies an existing facility record.
func (r *InfrastructureRepository) Update(ctx context.Context, item *models.Infrastructure) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE infrastructure_items SET name = :name, type = :type, location = :location, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update infrastructure: %w", err)
	}
	return nil
}

// Delete removes a facility record.
func (r *InfrastructureRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM infrastructure_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete infrastructure: %w", err)
	}
	return nil
}
