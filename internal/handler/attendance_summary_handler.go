package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/markbook-api/internal/middleware"
	"github.com/noah-isme/markbook-api/internal/models"
	"github.com/noah-isme/markbook-api/internal/service"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
	"github.com/noah-isme/markbook-api/pkg/response"
)

type attendanceSummaryService interface {
	List(ctx context.Context, courseID string) ([]models.AttendanceSummary, error)
	Save(ctx context.Context, courseID string, req service.SaveAttendanceRequest) ([]models.AttendanceSummary, error)
}

// AttendanceSummaryHandler exposes aggregate attendance endpoints.
type AttendanceSummaryHandler struct {
	attendance attendanceSummaryService
}

// NewAttendanceSummaryHandler constructs handler.
func NewAttendanceSummaryHandler(attendance attendanceSummaryService) *AttendanceSummaryHandler {
	return &AttendanceSummaryHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance summaries
// @Tags Attendance
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/attendance [get]
func (h *AttendanceSummaryHandler) List(c *gin.Context) {
	rows, err := h.attendance.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Save godoc
// @Summary Save attendance and derived marks
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.SaveAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/attendance [put]
func (h *AttendanceSummaryHandler) Save(c *gin.Context) {
	var req service.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.UpdatedBy = middleware.ActorID(c)
	rows, err := h.attendance.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
