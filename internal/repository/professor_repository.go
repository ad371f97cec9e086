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

const professorColumns = "id, name, courses, disciplines, created_at, updated_at"

// ProfessorRepository manages persistence for professors.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// List returns professors matching filters along with total count.
func (r *ProfessorRepository) List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	base := "FROM professors WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, search)
	}
	if filter.Course != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(courses)", len(args)+1))
		args = append(args, filter.Course)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", professorColumns, base, size, offset)
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list professors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count professors: %w", err)
	}

	return professors, total, nil
}

// FindByID fetches a professor by ID.
func (r *ProfessorRepository) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	query := fmt.Sprintf("SELECT %s FROM professors WHERE id = $1", professorColumns)
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, id); err != nil {
		return nil, err
	}
	return &professor, nil
}

// FindByIDs fetches the professors for the given ids, keyed by id.
func (r *ProfessorRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Professor, error) {
	if len(ids) == 0 {
		return map[string]models.Professor{}, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM professors WHERE id IN (?)", professorColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("build professor lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query, args...); err != nil {
		return nil, fmt.Errorf("lookup professors: %w", err)
	}

	result := make(map[string]models.Professor, len(professors))
	for _, p := range professors {
		result[p.ID] = p
	}
	return result, nil
}

// Create inserts a new professor record.
func (r *ProfessorRepository) Create(ctx context.Context, professor *models.Professor) error {
	if professor.ID == "" {
		professor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if professor.CreatedAt.IsZero() {
		professor.CreatedAt = now
	}
	professor.UpdatedAt = now

	const query = `INSERT INTO professors (id, name, courses, disciplines, created_at, updated_at)
		VALUES (:id, :name, :courses, :disciplines, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, professor); err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}

// Update modifies an existing professor record.
func (r *ProfessorRepository) Update(ctx context.Context, professor *models.Professor) error {
	professor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE professors SET name = :name, courses = :courses, disciplines = :disciplines, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, professor); err != nil {
		return fmt.Errorf("update professor: %w", err)
	}
	return nil
}

// Delete removes a professor record.
func (r *ProfessorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM professors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete professor: %w", err)
	}
	return nil
}
