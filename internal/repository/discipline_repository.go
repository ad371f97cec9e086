package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Fatimapsp/unex-escuta/internal/models"
)

const disciplineColumns = "id, name, department, courses, professors, created_at, updated_at"

// DisciplineRepository manages persistence for disciplines.
type DisciplineRepository struct {
	db *sqlx.DB
}

// NewDisciplineRepository constructs a DisciplineRepository.
func NewDisciplineRepository(db *sqlx.DB) *DisciplineRepository {
	return &DisciplineRepository{db: db}
}

// List returns disciplines matching filters along with total count.
func (r *DisciplineRepository) List(ctx context.Context, filter models.DisciplineFilter) ([]models.Discipline, int, error) {
	base := "FROM disciplines WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, search)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(department) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Department)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", disciplineColumns, base, size, offset)
	var disciplines []models.Discipline
	if err := r.db.SelectContext(ctx, &disciplines, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list disciplines: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count disciplines: %w", err)
	}

	return disciplines, total, nil
}

// FindByID fetches a discipline by ID.
func (r *DisciplineRepository) FindByID(ctx context.Context, id string) (*models.Discipline, error) {
	query := fmt.Sprintf("SELECT %s FROM disciplines WHERE id = $1", disciplineColumns)
	var discipline models.Discipline
	if err := r.db.GetContext(ctx, &discipline, query, id); err != nil {
		return nil, err
	}
	return &discipline, nil
}

// FindByIDs fetches the disciplines for the given ids, keyed by id.
func (r *DisciplineRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Discipline, error) {
	if len(ids) == 0 {
		return map[string]models.Discipline{}, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM disciplines WHERE id IN (?)", disciplineColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("build discipline lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var disciplines []models.Discipline
	if err := r.db.SelectContext(ctx, &disciplines, query, args...); err != nil {
		return nil, fmt.Errorf("lookup disciplines: %w", err)
	}

	result := make(map[string]models.Discipline, len(disciplines))
	for _, d := range disciplines {
		result[d.ID] = d
	}
	return result, nil
}

// ExistsByName checks whether another discipline uses the same name.
func (r *DisciplineRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM disciplines WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check discipline name: %w", err)
	}
	return true, nil
}

// Create inserts a new discipline record.
func (r *DisciplineRepository) Create(ctx context.Context, discipline *models.Discipline) error {
	if discipline.ID == "" {
		discipline.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if discipline.CreatedAt.IsZero() {
		discipline.CreatedAt = now
	}
	discipline.UpdatedAt = now

	const query = `INSERT INTO disciplines (id, name, department, courses, professors, created_at, updated_at)
		VALUES (:id, :name, :department, :courses, :professors, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, discipline); err != nil {
		return fmt.Errorf("create discipline: %w", err)
	}
	return nil
}

// Update modifies an existing discipline record.
func (r *DisciplineRepository) Update(ctx context.Context, discipline *models.Discipline) error {
	discipline.UpdatedAt = time.Now().UTC()
	const query = `UPDATE disciplines SET name = :name, department = :department, courses = :courses, professors = :professors, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, discipline); err != nil {
		return fmt.Errorf("update discipline: %w", err)
	}
	return nil
}

// Delete removes a discipline record.
func (r *DisciplineRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM disciplines WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete discipline: %w", err)
	}
	return nil
}
