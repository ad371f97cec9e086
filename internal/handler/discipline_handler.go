package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	"github.com/Fatimapsp/unex-escuta/internal/service"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
	"github.com/Fatimapsp/unex-escuta/pkg/response"
)

// DisciplineHandler wires HTTP endpoints to the discipline service.
type DisciplineHandler struct {
	service *service.DisciplineService
}

// NewDisciplineHandler creates a new handler.
func NewDisciplineHandler(svc *service.DisciplineService) *DisciplineHandler {
	return &DisciplineHandler{service: svc}
}

// List godoc
// @Summary List disciplines
// @Tags Disciplines
// @Produce json
// @Param search query string false "Name search"
// @Param department query string false "Department filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /disciplines [get]
func (h *DisciplineHandler) List(c *gin.Context) {
	filter := models.DisciplineFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 10),
	}

	disciplines, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, disciplines, pagination)
}

// Get godoc
// @Summary Get discipline
// @Tags Disciplines
// @Produce json
// @Param id path string true "Discipline ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /disciplines/{id} [get]
func (h *DisciplineHandler) Get(c *gin.Context) {
	discipline, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, discipline, nil)
}

// Create godoc
// @Summary Create discipline
// @Tags Disciplines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.DisciplineRequest true "Discipline payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /disciplines [post]
func (h *DisciplineHandler) Create(c *gin.Context) {
	var req models.DisciplineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid discipline payload"))
		return
	}

	discipline, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, discipline)
}

// Update godoc
// @Summary Update discipline
// @Tags Disciplines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discipline ID"
// @Param payload body models.DisciplineRequest true "Discipline payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /disciplines/{id} [put]
func (h *DisciplineHandler) Update(c *gin.Context) {
	var req models.DisciplineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid discipline payload"))
		return
	}

	discipline, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, discipline, nil)
}

// Delete godoc
// @Summary Delete discipline
// @Tags Disciplines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discipline ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /disciplines/{id} [delete]
func (h *DisciplineHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
