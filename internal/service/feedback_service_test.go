package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Fatimapsp/unex-escuta/internal/authz"
	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

type mockFeedbackRepo struct {
	items      map[string]*models.Feedback
	targets    map[string]bool
	duplicates map[models.FeedbackKey]bool
	listResult []models.Feedback
	listTotal  int
	lastFilter models.FeedbackFilter
	created    []*models.Feedback
	createErr  error
	deleted    []string
	statusSet  map[string]models.FeedbackStatus
}

func (m *mockFeedbackRepo) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	m.lastFilter = filter
	return m.listResult, m.listTotal, nil
}

func (m *mockFeedbackRepo) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	if feedback, ok := m.items[id]; ok {
		cp := *feedback
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	if m.createErr != nil {
		return m.createErr
	}
	if feedback.ID == "" {
		feedback.ID = "generated"
	}
	feedback.CreatedAt = time.Now()
	feedback.UpdatedAt = feedback.CreatedAt
	m.created = append(m.created, feedback)
	return nil
}

func (m *mockFeedbackRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

func (m *mockFeedbackRepo) ExistsForKey(ctx context.Context, key models.FeedbackKey) (bool, error) {
	return m.duplicates[key], nil
}

func (m *mockFeedbackRepo) TargetExists(ctx context.Context, targetType models.TargetType, targetID string) (bool, error) {
	return m.targets[targetID], nil
}

func (m *mockFeedbackRepo) UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus, updatedAt time.Time) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	if m.statusSet == nil {
		m.statusSet = make(map[string]models.FeedbackStatus)
	}
	m.statusSet[id] = status
	m.items[id].Status = status
	return nil
}

func intPtr(v int) *int { return &v }

func validSubmission() models.SubmitFeedbackRequest {
	return models.SubmitFeedbackRequest{
		TargetType:   models.TargetProfessor,
		TargetID:     "prof-1",
		Ratings:      models.FeedbackRatings{TeachingQuality: intPtr(4), Clarity: intPtr(5)},
		Comment:      "clear lectures",
		Semester:     "2025.1",
		AcademicYear: 2025,
	}
}

func newFeedbackService(repo *mockFeedbackRepo) *FeedbackService {
	return NewFeedbackService(repo, nil, zap.NewNop(), FeedbackConfig{FoundingYear: 2015})
}

func TestFeedbackSubmit(t *testing.T) {
	repo := &mockFeedbackRepo{targets: map[string]bool{"prof-1": true}}
	svc := newFeedbackService(repo)

	resp, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, validSubmission())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, "user-1", resp.Author.UserID)
	assert.False(t, resp.Author.IsAnonymous)
	require.Len(t, repo.created, 1)
	assert.Equal(t, 4, *repo.created[0].TeachingQuality)
	assert.Equal(t, 5, *repo.created[0].Clarity)
	assert.Nil(t, repo.created[0].InfrastructureCondition)
}

func TestFeedbackSubmitAnonymousHidesAuthor(t *testing.T) {
	repo := &mockFeedbackRepo{targets: map[string]bool{"prof-1": true}}
	svc := newFeedbackService(repo)

	req := validSubmission()
	req.IsAnonymous = true

	resp, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, req)
	require.NoError(t, err)

	assert.Empty(t, resp.Author.UserID)
	assert.True(t, resp.Author.IsAnonymous)
	// Storage keeps the true author for ownership checks.
	assert.Equal(t, "user-1", repo.created[0].AuthorID)
}

func TestFeedbackSubmitUnauthenticated(t *testing.T) {
	svc := newFeedbackService(&mockFeedbackRepo{})

	_, err := svc.Submit(context.Background(), authz.Actor{}, validSubmission())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestFeedbackSubmitCollectsAllFieldErrors(t *testing.T) {
	repo := &mockFeedbackRepo{targets: map[string]bool{"prof-1": true}}
	svc := newFeedbackService(repo)

	req := models.SubmitFeedbackRequest{
		TargetType:   models.TargetProfessor,
		TargetID:     "prof-1",
		Semester:     "2025.3",
		AcademicYear: 1999,
		Comment:      strings.Repeat("x", 501),
	}

	_, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	fields := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		fields = append(fields, detail.Field)
	}
	assert.Contains(t, fields, "semester")
	assert.Contains(t, fields, "academic_year")
	assert.Contains(t, fields, "ratings.teaching_quality")
	assert.Contains(t, fields, "ratings.clarity")
	assert.Contains(t, fields, "comment")
	assert.Empty(t, repo.created)
}

func TestFeedbackSubmitRatingOutOfRange(t *testing.T) {
	repo := &mockFeedbackRepo{targets: map[string]bool{"prof-1": true}}
	svc := newFeedbackService(repo)

	req := validSubmission()
	req.Ratings.TeachingQuality = intPtr(6)

	_, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "ratings.teaching_quality", appErr.Details[0].Field)
}

func TestFeedbackSubmitIgnoresIrrelevantRatings(t *testing.T) {
	repo := &mockFeedbackRepo{targets: map[string]bool{"lab-1": true}}
	svc := newFeedbackService(repo)

	req := models.SubmitFeedbackRequest{
		TargetType: models.TargetInfrastructure,
		TargetID:   "lab-1",
		Ratings: models.FeedbackRatings{
			InfrastructureCondition: intPtr(3),
			TeachingQuality:         intPtr(5),
		},
		Comment:      "broken chairs in the back rows",
		Semester:     "2025.2",
		AcademicYear: 2025,
	}

	_, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, req)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, 3, *repo.created[0].InfrastructureCondition)
	assert.Nil(t, repo.created[0].TeachingQuality)
}

func TestFeedbackSubmitRequiresComment(t *testing.T) {
	repo := &mockFeedbackRepo{targets: map[string]bool{"prof-1": true}}
	svc := newFeedbackService(repo)
	actor := authz.Actor{ID: "user-1", Role: models.RoleStudent}

	for _, comment := range []string{"", "   \t\n"} {
		req := validSubmission()
		req.Comment = comment

		_, err := svc.Submit(context.Background(), actor, req)
		require.Error(t, err)

		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		require.Len(t, appErr.Details, 1)
		assert.Equal(t, "comment", appErr.Details[0].Field)
	}
	assert.Empty(t, repo.created)
}

func TestFeedbackSubmitTrimsComment(t *testing.T) {
	repo := &mockFeedbackRepo{targets: map[string]bool{"prof-1": true}}
	svc := newFeedbackService(repo)

	req := validSubmission()
	req.Comment = "  clear lectures  "

	_, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, req)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "clear lectures", repo.created[0].Comment)
}

func TestFeedbackSubmitTargetNotFound(t *testing.T) {
	repo := &mockFeedbackRepo{targets: map[string]bool{}}
	svc := newFeedbackService(repo)

	_, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, validSubmission())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestFeedbackSubmitDuplicate(t *testing.T) {
	key := models.FeedbackKey{
		AuthorID:     "user-1",
		TargetType:   models.TargetProfessor,
		TargetID:     "prof-1",
		Semester:     "2025.1",
		AcademicYear: 2025,
	}
	repo := &mockFeedbackRepo{
		targets:    map[string]bool{"prof-1": true},
		duplicates: map[models.FeedbackKey]bool{key: true},
	}
	svc := newFeedbackService(repo)

	_, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, validSubmission())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicateSubmission.Code, appErr.Code)
}

func TestFeedbackSubmitRacedDuplicateIsConflict(t *testing.T) {
	// Two submissions racing past the duplicate check end with the second
	// insert failing on the unique index; that still reads as a conflict.
	repo := &mockFeedbackRepo{
		targets:   map[string]bool{"prof-1": true},
		createErr: appErrors.Clone(appErrors.ErrDuplicateSubmission, ""),
	}
	svc := newFeedbackService(repo)

	_, err := svc.Submit(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, validSubmission())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicateSubmission.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrDuplicateSubmission.Status, appErr.Status)
}

func TestFeedbackListNonAdminSeesApprovedOnly(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newFeedbackService(repo)

	_, _, err := svc.List(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, models.FeedbackFilter{})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, models.StatusApproved, *repo.lastFilter.Status)
}

func TestFeedbackListAdminKeepsStatusFilter(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newFeedbackService(repo)

	pending := models.StatusPending
	_, _, err := svc.List(context.Background(), authz.Actor{ID: "admin-1", Role: models.RoleAdmin}, models.FeedbackFilter{Status: &pending})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, models.StatusPending, *repo.lastFilter.Status)
}

func TestFeedbackDeleteByOwner(t *testing.T) {
	repo := &mockFeedbackRepo{
		items: map[string]*models.Feedback{
			"fb-1": {ID: "fb-1", AuthorID: "user-1", IsAnonymous: true, Status: models.StatusApproved},
		},
	}
	svc := newFeedbackService(repo)

	// Anonymity hides the author from responses, not from ownership checks.
	err := svc.Delete(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, "fb-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"fb-1"}, repo.deleted)
}

func TestFeedbackDeleteByStrangerForbidden(t *testing.T) {
	repo := &mockFeedbackRepo{
		items: map[string]*models.Feedback{
			"fb-1": {ID: "fb-1", AuthorID: "user-1", Status: models.StatusApproved},
		},
	}
	svc := newFeedbackService(repo)

	err := svc.Delete(context.Background(), authz.Actor{ID: "user-2", Role: models.RoleStudent}, "fb-1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Empty(t, repo.deleted)
}

func TestFeedbackDeleteByAdmin(t *testing.T) {
	repo := &mockFeedbackRepo{
		items: map[string]*models.Feedback{
			"fb-1": {ID: "fb-1", AuthorID: "user-1", Status: models.StatusApproved},
		},
	}
	svc := newFeedbackService(repo)

	err := svc.Delete(context.Background(), authz.Actor{ID: "admin-1", Role: models.RoleAdmin}, "fb-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"fb-1"}, repo.deleted)
}

func TestFeedbackModerationRequiresAdmin(t *testing.T) {
	repo := &mockFeedbackRepo{
		items: map[string]*models.Feedback{
			"fb-1": {ID: "fb-1", AuthorID: "user-1", Status: models.StatusPending},
		},
	}
	svc := newFeedbackService(repo)

	// Even the author cannot moderate their own record.
	_, err := svc.SetStatus(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, "fb-1", models.StatusApproved)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestFeedbackModerationTransitions(t *testing.T) {
	repo := &mockFeedbackRepo{
		items: map[string]*models.Feedback{
			"fb-1": {ID: "fb-1", AuthorID: "user-1", Status: models.StatusPending},
		},
	}
	svc := newFeedbackService(repo)
	admin := authz.Actor{ID: "admin-1", Role: models.RoleAdmin}

	resp, err := svc.SetStatus(context.Background(), admin, "fb-1", models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, resp.Status)

	// Approved records can be sent back to pending.
	resp, err = svc.SetStatus(context.Background(), admin, "fb-1", models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, resp.Status)
}

func TestFeedbackModerationRejectsUnknownStatus(t *testing.T) {
	repo := &mockFeedbackRepo{
		items: map[string]*models.Feedback{
			"fb-1": {ID: "fb-1", AuthorID: "user-1", Status: models.StatusPending},
		},
	}
	svc := newFeedbackService(repo)

	_, err := svc.SetStatus(context.Background(), authz.Actor{ID: "admin-1", Role: models.RoleAdmin}, "fb-1", "archived")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestFeedbackGetPendingHiddenFromStrangers(t *testing.T) {
	repo := &mockFeedbackRepo{
		items: map[string]*models.Feedback{
			"fb-1": {ID: "fb-1", AuthorID: "user-1", Status: models.StatusPending},
		},
	}
	svc := newFeedbackService(repo)

	_, err := svc.Get(context.Background(), authz.Actor{ID: "user-2", Role: models.RoleStudent}, "fb-1")
	require.Error(t, err)

	resp, err := svc.Get(context.Background(), authz.Actor{ID: "user-1", Role: models.RoleStudent}, "fb-1")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", resp.ID)
}
