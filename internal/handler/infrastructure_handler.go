package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	"github.com/Fatimapsp/unex-escuta/internal/service"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
	"github.com/Fatimapsp/unex-escuta/pkg/response"
)

// InfrastructureHandler wires HTTP endpoints to the infrastructure service.
type InfrastructureHandler struct {
	service *service.InfrastructureService
}

// NewInfrastructureHandler creates a new handler.
func NewInfrastructureHandler(svc *service.InfrastructureService) *InfrastructureHandler {
	return &InfrastructureHandler{service: svc}
}

// List godoc
// @Summary List facilities
// @Tags Infrastructure
// @Produce json
// @Param search query string false "Name or location search"
// @Param type query string false "Facility kind filter"
// @Param active query bool false "Active filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /infrastructure [get]
func (h *InfrastructureHandler) List(c *gin.Context) {
	filter := models.InfrastructureFilter{
		Search:   c.Query("search"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 10),
	}
	if kind := c.Query("type"); kind != "" {
		k := models.FacilityKind(kind)
		filter.Type = &k
	}
	if active := c.Query("active"); active != "" {
		if parsed, err := strconv.ParseBool(active); err == nil {
			filter.Active = &parsed
		}
	}

	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get facility
// @Tags Infrastructure
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /infrastructure/{id} [get]
func (h *InfrastructureHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create facility
// @Tags Infrastructure
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.InfrastructureRequest true "Facility payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /infrastructure [post]
func (h *InfrastructureHandler) Create(c *gin.Context) {
	var req models.InfrastructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facility payload"))
		return
	}

	item, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update facility
// @Tags Infrastructure
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Param payload body models.InfrastructureRequest true "Facility payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /infrastructure/{id} [put]
func (h *InfrastructureHandler) Update(c *gin.Context) {
	var req models.InfrastructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facility payload"))
		return
	}

	item, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete facility
// @Tags Infrastructure
// @Produce json
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /infrastructure/{id} [delete]
func (h *InfrastructureHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
