package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

func newFeedbackRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestFeedbackRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newFeedbackRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO feedbacks")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	tq := 4
	clarity := 5
	feedback := &models.Feedback{
		TargetType:      models.TargetProfessor,
		TargetID:        "prof-1",
		AuthorID:        "user-1",
		TeachingQuality: &tq,
		Clarity:         &clarity,
		Semester:        "2025.1",
		AcademicYear:    2025,
		Status:          models.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), feedback))
	require.NotEmpty(t, feedback.ID)

	rows := sqlmock.NewRows([]string{"id", "target_type", "target_id", "author_id", "is_anonymous", "teaching_quality", "clarity", "infrastructure_condition", "comment", "semester", "academic_year", "status", "created_at", "updated_at"}).
		AddRow(feedback.ID, "professor", "prof-1", "user-1", false, 4, 5, nil, "", "2025.1", 2025, "pending", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, target_type, target_id")).
		WithArgs(feedback.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), feedback.ID)
	require.NoError(t, err)
	require.Equal(t, feedback.ID, found.ID)
	require.Nil(t, found.InfrastructureCondition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newFeedbackRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO feedbacks")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_feedbacks_unique_submission"})

	tq := 4
	err := repo.Create(context.Background(), &models.Feedback{
		TargetType:      models.TargetProfessor,
		TargetID:        "prof-1",
		AuthorID:        "user-1",
		TeachingQuality: &tq,
		Semester:        "2025.1",
		AcademicYear:    2025,
		Status:          models.StatusPending,
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, appErrors.ErrDuplicateSubmission.Code, appErr.Code)
	require.Equal(t, appErrors.ErrDuplicateSubmission.Status, appErr.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryExistsForKey(t *testing.T) {
	db, mock, cleanup := newFeedbackRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	key := models.FeedbackKey{
		AuthorID:     "user-1",
		TargetType:   models.TargetProfessor,
		TargetID:     "prof-1",
		Semester:     "2025.1",
		AcademicYear: 2025,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM feedbacks")).
		WithArgs("user-1", "professor", "prof-1", "2025.1", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsForKey(context.Background(), key)
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM feedbacks")).
		WithArgs("user-1", "professor", "prof-1", "2025.1", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsForKey(context.Background(), key)
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryTargetExistsDispatch(t *testing.T) {
	db, mock, cleanup := newFeedbackRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM infrastructure_items WHERE id = $1")).
		WithArgs("lab-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.TargetExists(context.Background(), models.TargetInfrastructure, "lab-1")
	require.NoError(t, err)
	require.True(t, exists)

	_, err = repo.TargetExists(context.Background(), "course", "x")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryStatsByTargetTypeApprovedOnly(t *testing.T) {
	db, mock, cleanup := newFeedbackRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)

	rows := sqlmock.NewRows([]string{"target_type", "avg_teaching_quality", "avg_clarity", "avg_infrastructure_condition", "total_feedbacks"}).
		AddRow("professor", 4.5, 4.0, nil, 10).
		AddRow("infrastructure", nil, nil, 3.2, 4)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'approved'")).
		WillReturnRows(rows)

	stats, err := repo.StatsByTargetType(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Nil(t, stats[0].AvgInfrastructureCondition)
	require.Nil(t, stats[1].AvgTeachingQuality)
	require.InDelta(t, 3.2, *stats[1].AvgInfrastructureCondition, 0.0001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryRankingGroups(t *testing.T) {
	db, mock, cleanup := newFeedbackRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)

	rows := sqlmock.NewRows([]string{"target_id", "avg_teaching_quality", "avg_clarity", "total_feedbacks"}).
		AddRow("prof-1", 4.0, 5.0, 2).
		AddRow("prof-2", 3.0, nil, 1)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY target_id")).
		WithArgs("professor").
		WillReturnRows(rows)

	groups, err := repo.RankingGroups(context.Background(), models.TargetProfessor)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Nil(t, groups[1].AvgClarity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newFeedbackRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE feedbacks SET status")).
		WithArgs("missing", "approved", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.StatusApproved, time.Now())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
