package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-api/internal/service"
	"github.com/noah-isme/absensi-api/internal/transfer"
	appErrors "github.com/noah-isme/absensi-api/pkg/errors"
	"github.com/noah-isme/absensi-api/pkg/response"
)

// TransferHandler exposes the import/export interchange endpoints. Import
// only validates; persisting decoded records is a separate workflow.
type TransferHandler struct {
	auth       *service.AuthService
	attendance *service.AttendanceService
}

// NewTransferHandler constructs TransferHandler.
func NewTransferHandler(auth *service.AuthService, attendance *service.AttendanceService) *TransferHandler {
	return &TransferHandler{auth: auth, attendance: attendance}
}

// Export godoc
// @Summary Export the authenticated student's attendance as a portable payload
// @Tags Transfer
// @Produce json
// @Success 200 {object} transfer.Payload
// @Router /transfer/export [get]
func (h *TransferHandler) Export(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	student, err := h.auth.GetStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.attendance.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, transfer.Encode(student, records...))
}

// Import godoc
// @Summary Validate an attendance interchange payload
// @Tags Transfer
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /transfer/import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrFormat.Code, appErrors.ErrFormat.Status, "Payload tidak valid"))
		return
	}

	payload, err := transfer.Decode(body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload)
}
