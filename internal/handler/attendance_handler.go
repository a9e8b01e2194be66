package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-api/internal/models"
	"github.com/noah-isme/absensi-api/internal/service"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
	"github.com/noah-isme/absensi-api/pkg/response"
)

// AttendanceHandler exposes the student-facing attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	recap      *service.RecapService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, recap *service.RecapService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, recap: recap}
}

type submitAttendanceRequest struct {
	Date   string  `json:"date"`
	Status string  `json:"status"`
	Reason *string `json:"reason"`
}

// Submit godoc
// @Summary Submit today's attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body submitAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req submitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format(models.DateLayout)
	}

	record, err := h.attendance.Submit(c.Request.Context(), service.SubmitRequest{
		StudentID: claims.UserID,
		Date:      req.Date,
		Status:    req.Status,
		Reason:    req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.recap != nil {
		h.recap.Invalidate(c.Request.Context())
	}
	response.Created(c, record)
}

// History godoc
// @Summary List the authenticated student's attendance history
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/me [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.attendance.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Today godoc
// @Summary Get today's record and the current window verdict
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance/today [get]
func (h *AttendanceHandler) Today(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}
	record, err := h.attendance.GetForStudentAndDate(c.Request.Context(), claims.UserID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"date":   date,
		"record": record,
		"window": h.attendance.WindowVerdict(),
	})
}

// Window godoc
// @Summary Get the attendance window info
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/window [get]
func (h *AttendanceHandler) Window(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.attendance.WindowVerdict())
}
