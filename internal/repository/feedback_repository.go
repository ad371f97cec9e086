package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

// uniqueViolation is the Postgres error code raised when an insert hits a
// unique index.
const uniqueViolation = "23505"

const feedbackColumns = "id, target_type, target_id, author_id, is_anonymous, teaching_quality, clarity, infrastructure_condition, comment, semester, academic_year, status, created_at, updated_at"

// FeedbackRepository manages persistence for feedback records and the
// aggregation queries built on top of them.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// List returns feedback records matching filters along with total count,
// newest first.
func (r *FeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	base := "FROM feedbacks WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TargetType != nil {
		conditions = append(conditions, fmt.Sprintf("target_type = $%d", len(args)+1))
		args = append(args, *filter.TargetType)
	}
	if filter.TargetID != "" {
		conditions = append(conditions, fmt.Sprintf("target_id = $%d", len(args)+1))
		args = append(args, filter.TargetID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", feedbackColumns, base, size, offset)
	var feedbacks []models.Feedback
	if err := r.db.SelectContext(ctx, &feedbacks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list feedbacks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count feedbacks: %w", err)
	}

	return feedbacks, total, nil
}

// FindByID fetches a feedback record by ID.
func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	query := fmt.Sprintf("SELECT %s FROM feedbacks WHERE id = $1", feedbackColumns)
	var feedback models.Feedback
	if err := r.db.GetContext(ctx, &feedback, query, id); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ExistsForKey checks whether the author already submitted feedback for the
// same target in the same term. The composite unique index on feedbacks
// backs this check; two concurrent submissions can both pass it, in which
// case the second insert fails on the index instead.
func (r *FeedbackRepository) ExistsForKey(ctx context.Context, key models.FeedbackKey) (bool, error) {
	const query = `SELECT 1 FROM feedbacks
		WHERE author_id = $1 AND target_type = $2 AND target_id = $3 AND semester = $4 AND academic_year = $5 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, key.AuthorID, key.TargetType, key.TargetID, key.Semester, key.AcademicYear); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check feedback key: %w", err)
	}
	return true, nil
}

// TargetExists checks the referenced target in the collection dispatched by
// target type.
func (r *FeedbackRepository) TargetExists(ctx context.Context, targetType models.TargetType, targetID string) (bool, error) {
	table := targetType.Table()
	if table == "" {
		return false, fmt.Errorf("unknown target type %q", targetType)
	}
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = $1 LIMIT 1", table)
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, targetID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check target %s: %w", targetType, err)
	}
	return true, nil
}

// Create inserts a new feedback record. An insert landing on the composite
// unique index (two submissions racing past ExistsForKey) surfaces as
// ErrDuplicateSubmission rather than a storage failure.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = now
	}
	feedback.UpdatedAt = now

	const query = `INSERT INTO feedbacks (id, target_type, target_id, author_id, is_anonymous, teaching_quality, clarity, infrastructure_condition, comment, semester, academic_year, status, created_at, updated_at)
		VALUES (:id, :target_type, :target_id, :author_id, :is_anonymous, :teaching_quality, :clarity, :infrastructure_condition, :comment, :semester, :academic_year, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return appErrors.Clone(appErrors.ErrDuplicateSubmission, "")
		}
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// UpdateStatus moves a feedback record to a new moderation state.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE feedbacks SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update feedback status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a feedback record.
func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedbacks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// StatsByTargetType aggregates approved feedback per target type. AVG skips
// NULL columns, so records without a given rating never dilute its average.
func (r *FeedbackRepository) StatsByTargetType(ctx context.Context, targetType *models.TargetType) ([]models.TargetTypeStats, error) {
	query := `SELECT target_type,
		AVG(teaching_quality)::double precision AS avg_teaching_quality,
		AVG(clarity)::double precision AS avg_clarity,
		AVG(infrastructure_condition)::double precision AS avg_infrastructure_condition,
		COUNT(*) AS total_feedbacks
		FROM feedbacks WHERE status = 'approved'`
	var args []interface{}
	if targetType != nil {
		args = append(args, *targetType)
		query += fmt.Sprintf(" AND target_type = $%d", len(args))
	}
	query += " GROUP BY target_type ORDER BY target_type ASC"

	var stats []models.TargetTypeStats
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate stats by target type: %w", err)
	}
	return stats, nil
}

// StatsBySemester aggregates approved feedback per (semester, target type),
// most recent semester first.
func (r *FeedbackRepository) StatsBySemester(ctx context.Context, academicYear *int, targetType *models.TargetType) ([]models.SemesterStats, error) {
	query := `SELECT semester, target_type,
		AVG(teaching_quality)::double precision AS avg_teaching_quality,
		AVG(clarity)::double precision AS avg_clarity,
		AVG(infrastructure_condition)::double precision AS avg_infrastructure_condition,
		COUNT(*) AS total_feedbacks
		FROM feedbacks WHERE status = 'approved'`
	var args []interface{}
	if academicYear != nil {
		args = append(args, *academicYear)
		query += fmt.Sprintf(" AND academic_year = $%d", len(args))
	}
	if targetType != nil {
		args = append(args, *targetType)
		query += fmt.Sprintf(" AND target_type = $%d", len(args))
	}
	query += " GROUP BY semester, target_type ORDER BY semester DESC, target_type ASC"

	var stats []models.SemesterStats
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate stats by semester: %w", err)
	}
	return stats, nil
}

// RankingGroups aggregates approved feedback per target for the ranking.
// Only records carrying at least one quality rating participate. Groups are
// returned in insertion order of their earliest record so the later score
// sort has a deterministic base order.
func (r *FeedbackRepository) RankingGroups(ctx context.Context, targetType models.TargetType) ([]models.RankingGroup, error) {
	const query = `SELECT target_id,
		AVG(teaching_quality)::double precision AS avg_teaching_quality,
		AVG(clarity)::double precision AS avg_clarity,
		COUNT(*) AS total_feedbacks
		FROM feedbacks
		WHERE status = 'approved' AND target_type = $1
		AND (teaching_quality IS NOT NULL OR clarity IS NOT NULL)
		GROUP BY target_id
		ORDER BY MIN(created_at) ASC`

	var groups []models.RankingGroup
	if err := r.db.SelectContext(ctx, &groups, query, targetType); err != nil {
		return nil, fmt.Errorf("aggregate ranking groups: %w", err)
	}
	return groups, nil
}
