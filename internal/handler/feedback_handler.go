package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	"github.com/Fatimapsp/unex-escuta/internal/service"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
	"github.com/Fatimapsp/unex-escuta/pkg/response"
)

// FeedbackHandler wires HTTP endpoints to the feedback service.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler creates a new handler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// Submit godoc
// @Summary Submit feedback
// @Description Submit feedback for a professor, discipline or facility
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SubmitFeedbackRequest true "Feedback payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /feedbacks [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req models.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	feedback, err := h.service.Submit(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feedback)
}

// List godoc
// @Summary List feedback
// @Description List feedback with filters; non-admin callers see approved records only
// @Tags Feedback
// @Produce json
// @Param target_type query string false "Target type filter"
// @Param target_id query string false "Target id filter"
// @Param status query string false "Moderation status filter (admin)"
// @Param date_from query string false "Created-at lower bound (RFC 3339)"
// @Param date_to query string false "Created-at upper bound (RFC 3339)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /feedbacks [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	filter := models.FeedbackFilter{
		TargetID: c.Query("target_id"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 10),
	}
	if raw := c.Query("target_type"); raw != "" {
		t := models.TargetType(raw)
		filter.TargetType = &t
	}
	if raw := c.Query("status"); raw != "" {
		s := models.FeedbackStatus(raw)
		filter.Status = &s
	}
	if raw := c.Query("date_from"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.DateFrom = &ts
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.DateTo = &ts
		}
	}

	feedbacks, pagination, err := h.service.List(c.Request.Context(), actorFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedbacks, pagination)
}

// Get godoc
// @Summary Get feedback
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedbacks/{id} [get]
func (h *FeedbackHandler) Get(c *gin.Context) {
	feedback, err := h.service.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}

// Delete godoc
// @Summary Delete feedback
// @Description Remove a feedback record; author or admin only
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedbacks/{id} [delete]
func (h *FeedbackHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Moderate godoc
// @Summary Moderate feedback
// @Description Move a feedback record to a new moderation state; admin only
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Param payload body models.ModerateFeedbackRequest true "Moderation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedbacks/{id}/status [patch]
func (h *FeedbackHandler) Moderate(c *gin.Context) {
	var req models.ModerateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid moderation payload"))
		return
	}

	feedback, err := h.service.SetStatus(c.Request.Context(), actorFromContext(c), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}
