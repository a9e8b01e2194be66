package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-api/internal/models"
	"github.com/noah-isme/absensi-api/internal/service"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
	"github.com/noah-isme/absensi-api/pkg/response"
)

// RecapHandler exposes the admin aggregation endpoints.
type RecapHandler struct {
	recap *service.RecapService
}

// NewRecapHandler constructs RecapHandler.
func NewRecapHandler(recap *service.RecapService) *RecapHandler {
	return &RecapHandler{recap: recap}
}

func recapFilter(c *gin.Context) models.AttendanceFilter {
	filter := models.AttendanceFilter{
		NIM:       strings.TrimSpace(c.Query("nim")),
		ClassName: strings.TrimSpace(c.Query("class")),
		Date:      c.Query("date"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AttendanceStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	return filter
}

// List godoc
// @Summary Aggregated attendance recap
// @Tags Recap
// @Produce json
// @Param nim query string false "Filter by NIM"
// @Param class query string false "Filter by class"
// @Param status query string false "Filter by status"
// @Param date query string false "Single date (pins both range ends)"
// @Param startDate query string false "Range start"
// @Param endDate query string false "Range end"
// @Success 200 {object} response.Envelope
// @Router /recap [get]
func (h *RecapHandler) List(c *gin.Context) {
	rows, cacheHit, err := h.recap.Aggregate(c.Request.Context(), recapFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, map[string]interface{}{"cache_hit": cacheHit})
}

// Download godoc
// @Summary Download the recap as CSV or PDF
// @Tags Recap
// @Produce octet-stream
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Router /recap/download [get]
func (h *RecapHandler) Download(c *gin.Context) {
	rows, _, err := h.recap.Aggregate(c.Request.Context(), recapFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	stamp := time.Now().Format("20060102")
	switch strings.ToLower(c.DefaultQuery("format", "csv")) {
	case "csv":
		payload, err := h.recap.RenderCSV(rows)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=rekap-absensi-%s.csv", stamp))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.recap.RenderPDF(rows, "Rekap Absensi")
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=rekap-absensi-%s.pdf", stamp))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}
