package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Fatimapsp/unex-escuta/internal/authz"
	"github.com/Fatimapsp/unex-escuta/internal/models"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
)

// semesterPattern accepts a four digit year followed by term 1 or 2,
// e.g. "2024.1".
var semesterPattern = regexp.MustCompile(`^\d{4}\.[12]$`)

const maxCommentLength = 500

type feedbackRepository interface {
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error)
	FindByID(ctx context.Context, id string) (*models.Feedback, error)
	Create(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, id string) error
	ExistsForKey(ctx context.Context, key models.FeedbackKey) (bool, error)
	TargetExists(ctx context.Context, targetType models.TargetType, targetID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus, updatedAt time.Time) error
}

// FeedbackConfig tunes the submission rules.
type FeedbackConfig struct {
	// FoundingYear is the lower bound accepted for academic years.
	FoundingYear int
}

// FeedbackService provides the submission, read and moderation use cases.
type FeedbackService struct {
	repo   feedbackRepository
	cache  *CacheService
	logger *zap.Logger
	config FeedbackConfig
	now    func() time.Time
}

// NewFeedbackService constructs a FeedbackService instance.
func NewFeedbackService(repo feedbackRepository, cache *CacheService, logger *zap.Logger, config FeedbackConfig) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.FoundingYear <= 0 {
		config.FoundingYear = 2015
	}
	return &FeedbackService{repo: repo, cache: cache, logger: logger, config: config, now: func() time.Time { return time.Now().UTC() }}
}

// Submit validates and stores a new feedback record. Payload validation is
// not fail-fast: every failing field is collected and reported together.
// Only the ratings relevant to the target type are stored; the rest are
// dropped silently.
func (s *FeedbackService) Submit(ctx context.Context, actor authz.Actor, req models.SubmitFeedbackRequest) (*models.FeedbackResponse, error) {
	if !actor.Authenticated() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}

	req.Comment = strings.TrimSpace(req.Comment)
	if details := s.validateSubmission(req); len(details) > 0 {
		return nil, appErrors.Validation(details)
	}

	exists, err := s.repo.TargetExists(ctx, req.TargetType, req.TargetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve feedback target")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", req.TargetType))
	}

	key := models.FeedbackKey{
		AuthorID:     actor.ID,
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
	}
	duplicate, err := s.repo.ExistsForKey(ctx, key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check for duplicate feedback")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "")
	}

	feedback := &models.Feedback{
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		AuthorID:     actor.ID,
		IsAnonymous:  req.IsAnonymous,
		Comment:      req.Comment,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		Status:       models.StatusPending,
	}
	for _, field := range req.TargetType.RequiredRatings() {
		switch field {
		case models.RatingTeachingQuality:
			feedback.TeachingQuality = req.Ratings.TeachingQuality
		case models.RatingClarity:
			feedback.Clarity = req.Ratings.Clarity
		case models.RatingInfrastructureCondition:
			feedback.InfrastructureCondition = req.Ratings.InfrastructureCondition
		}
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}

	s.invalidateStats(ctx)
	s.logger.Info("feedback submitted",
		zap.String("feedback_id", feedback.ID),
		zap.String("target_type", string(feedback.TargetType)),
		zap.Bool("anonymous", feedback.IsAnonymous))

	resp := models.NewFeedbackResponse(feedback)
	return &resp, nil
}

// List returns feedback matching the filter. Non-admin callers only see
// approved records; admins may query any moderation state.
func (s *FeedbackService) List(ctx context.Context, actor authz.Actor, filter models.FeedbackFilter) ([]models.FeedbackResponse, *models.Pagination, error) {
	if actor.Role != models.RoleAdmin {
		approved := models.StatusApproved
		filter.Status = &approved
	}

	feedbacks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}

	responses := make([]models.FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		responses = append(responses, models.NewFeedbackResponse(&feedbacks[i]))
	}

	return responses, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a single feedback record. Pending and rejected records are
// visible to their author and to admins only.
func (s *FeedbackService) Get(ctx context.Context, actor authz.Actor, id string) (*models.FeedbackResponse, error) {
	feedback, err := s.findFeedback(ctx, id)
	if err != nil {
		return nil, err
	}

	if feedback.Status != models.StatusApproved {
		if decision := authz.Authorize(actor, authz.ActionRead, authz.Resource{OwnerID: feedback.AuthorID}); !decision.Allowed {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
	}

	resp := models.NewFeedbackResponse(feedback)
	return &resp, nil
}

// Delete removes a feedback record. Ownership is checked against the stored
// author id, so anonymous records are still deletable by their author.
func (s *FeedbackService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	feedback, err := s.findFeedback(ctx, id)
	if err != nil {
		return err
	}

	if decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{OwnerID: feedback.AuthorID}); !decision.Allowed {
		return authzError(decision)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete feedback")
	}

	s.invalidateStats(ctx)
	s.logger.Info("feedback deleted", zap.String("feedback_id", id), zap.String("actor_id", actor.ID))
	return nil
}

// SetStatus moves a feedback record to a new moderation state. Admin only;
// any transition between the known states is allowed, including moving a
// record back to pending.
func (s *FeedbackService) SetStatus(ctx context.Context, actor authz.Actor, id string, status models.FeedbackStatus) (*models.FeedbackResponse, error) {
	if decision := authz.Authorize(actor, authz.ActionModerate, authz.Resource{}); !decision.Allowed {
		return nil, authzError(decision)
	}

	if !models.ValidFeedbackStatus(status) {
		return nil, appErrors.Validation([]appErrors.FieldError{{Field: "status", Message: "must be pending, approved or rejected"}})
	}

	feedback, err := s.findFeedback(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, id, status, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update feedback status")
	}

	feedback.Status = status
	feedback.UpdatedAt = now

	s.invalidateStats(ctx)
	s.logger.Info("feedback moderated",
		zap.String("feedback_id", id),
		zap.String("status", string(status)),
		zap.String("moderator_id", actor.ID))

	resp := models.NewFeedbackResponse(feedback)
	return &resp, nil
}

func (s *FeedbackService) findFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	return feedback, nil
}

// validateSubmission collects every failing field of the payload.
func (s *FeedbackService) validateSubmission(req models.SubmitFeedbackRequest) []appErrors.FieldError {
	var details []appErrors.FieldError
	add := func(field, message string) {
		details = append(details, appErrors.FieldError{Field: field, Message: message})
	}

	if !req.TargetType.Valid() {
		add("target_type", "must be professor, discipline or infrastructure")
	}
	if req.TargetID == "" {
		add("target_id", "is required")
	}

	if !semesterPattern.MatchString(req.Semester) {
		add("semester", "must match YYYY.N where N is 1 or 2")
	}

	maxYear := s.now().Year() + 1
	if req.AcademicYear < s.config.FoundingYear || req.AcademicYear > maxYear {
		add("academic_year", fmt.Sprintf("must be between %d and %d", s.config.FoundingYear, maxYear))
	}

	for _, field := range req.TargetType.RequiredRatings() {
		var value *int
		var name string
		switch field {
		case models.RatingTeachingQuality:
			value, name = req.Ratings.TeachingQuality, "ratings.teaching_quality"
		case models.RatingClarity:
			value, name = req.Ratings.Clarity, "ratings.clarity"
		case models.RatingInfrastructureCondition:
			value, name = req.Ratings.InfrastructureCondition, "ratings.infrastructure_condition"
		}
		if value == nil {
			add(name, "is required")
		} else if *value < 1 || *value > 5 {
			add(name, "must be between 1 and 5")
		}
	}

	if req.Comment == "" {
		add("comment", "is required")
	} else if len(req.Comment) > maxCommentLength {
		add("comment", fmt.Sprintf("must be at most %d characters", maxCommentLength))
	}

	return details
}

// invalidateStats drops every cached statistics payload after a write that
// can change aggregates. Failures are logged inside the cache service.
func (s *FeedbackService) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, "stats:*")
	}
}
