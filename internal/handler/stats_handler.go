package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Fatimapsp/unex-escuta/internal/models"
	"github.com/Fatimapsp/unex-escuta/internal/service"
	appErrors "github.com/Fatimapsp/unex-escuta/pkg/errors"
	"github.com/Fatimapsp/unex-escuta/pkg/export"
	"github.com/Fatimapsp/unex-escuta/pkg/response"
)

// StatsHandler wires HTTP endpoints to the stats service.
type StatsHandler struct {
	service *service.StatsService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewStatsHandler creates a new handler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc, csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

// ByTargetType godoc
// @Summary Statistics by target type
// @Description Average ratings over approved feedback grouped by target type
// @Tags Statistics
// @Produce json
// @Param target_type query string false "Restrict to one target type"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /stats/types [get]
func (h *StatsHandler) ByTargetType(c *gin.Context) {
	var targetType *models.TargetType
	if raw := c.Query("target_type"); raw != "" {
		t := models.TargetType(raw)
		targetType = &t
	}

	stats, err := h.service.ByTargetType(c.Request.Context(), targetType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// BySemester godoc
// @Summary Statistics by semester
// @Description Average ratings over approved feedback grouped by semester and target type
// @Tags Statistics
// @Produce json
// @Param academic_year query int false "Academic year filter"
// @Param target_type query string false "Target type filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /stats/semesters [get]
func (h *StatsHandler) BySemester(c *gin.Context) {
	var academicYear *int
	if raw := c.Query("academic_year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			academicYear = &year
		}
	}
	var targetType *models.TargetType
	if raw := c.Query("target_type"); raw != "" {
		t := models.TargetType(raw)
		targetType = &t
	}

	stats, err := h.service.BySemester(c.Request.Context(), academicYear, targetType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Ranking godoc
// @Summary Ranking by composite score
// @Description Targets ordered by the composite of their quality averages
// @Tags Statistics
// @Produce json
// @Param target_type query string true "Target type"
// @Param limit query int false "Maximum entries"
// @Param min_feedbacks query int false "Minimum feedback count"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /stats/ranking [get]
func (h *StatsHandler) Ranking(c *gin.Context) {
	targetType := models.TargetType(c.Query("target_type"))
	limit := queryInt(c, "limit", 0)
	minFeedbacks := queryInt(c, "min_feedbacks", 1)

	entries, err := h.service.Ranking(c.Request.Context(), targetType, limit, minFeedbacks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// ExportRanking godoc
// @Summary Export ranking
// @Description Download the current ranking as CSV or PDF; admin only
// @Tags Statistics
// @Produce octet-stream
// @Security BearerAuth
// @Param target_type query string true "Target type"
// @Param format query string false "csv or pdf (default csv)"
// @Param limit query int false "Maximum entries"
// @Param min_feedbacks query int false "Minimum feedback count"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /stats/ranking/export [get]
func (h *StatsHandler) ExportRanking(c *gin.Context) {
	targetType := models.TargetType(c.Query("target_type"))
	limit := queryInt(c, "limit", 0)
	minFeedbacks := queryInt(c, "min_feedbacks", 1)

	entries, err := h.service.Ranking(c.Request.Context(), targetType, limit, minFeedbacks)
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset := export.RankingDataset(entries)
	title := fmt.Sprintf("%s ranking", targetType)
	filename := fmt.Sprintf("ranking-%s-%s", targetType, time.Now().UTC().Format("20060102"))
	h.writeExport(c, dataset, title, filename)
}

// ExportTypes godoc
// @Summary Export statistics by target type
// @Description Download per-type averages as CSV or PDF; admin only
// @Tags Statistics
// @Produce octet-stream
// @Security BearerAuth
// @Param target_type query string false "Restrict to one target type"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /stats/types/export [get]
func (h *StatsHandler) ExportTypes(c *gin.Context) {
	var targetType *models.TargetType
	if raw := c.Query("target_type"); raw != "" {
		t := models.TargetType(raw)
		targetType = &t
	}

	stats, err := h.service.ByTargetType(c.Request.Context(), targetType)
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset := export.TargetTypeStatsDataset(stats)
	filename := fmt.Sprintf("stats-types-%s", time.Now().UTC().Format("20060102"))
	h.writeExport(c, dataset, "Statistics by target type", filename)
}

func (h *StatsHandler) writeExport(c *gin.Context, dataset export.Dataset, title, filename string) {
	switch c.DefaultQuery("format", "csv") {
	case "pdf":
		payload, err := h.pdf.Render(dataset, title)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", payload)
	default:
		response.Error(c, appErrors.Validation([]appErrors.FieldError{{Field: "format", Message: "must be csv or pdf"}}))
	}
}
