package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/markbook-api/internal/models"
	"github.com/noah-isme/markbook-api/internal/service"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
	"github.com/noah-isme/markbook-api/pkg/response"
)

type markService interface {
	List(ctx context.Context, courseID, studentID string) ([]models.Mark, error)
	Save(ctx context.Context, courseID string, req service.SaveMarksRequest) (*service.SaveMarksResult, error)
}

// MarkHandler exposes mark entry endpoints.
type MarkHandler struct {
	marks markService
}

// NewMarkHandler constructs handler.
func NewMarkHandler(marks markService) *MarkHandler {
	return &MarkHandler{marks: marks}
}

// List godoc
// @Summary List course marks
// @Tags Marks
// @Produce json
// @Param id path string true "Course ID"
// @Param studentId query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/marks [get]
func (h *MarkHandler) List(c *gin.Context) {
	marks, err := h.marks.List(c.Request.Context(), c.Param("id"), strings.TrimSpace(c.Query("studentId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, marks, nil)
}

// Save godoc
// @Summary Bulk save marks
// @Description Entries with missing ids or invalid values are skipped.
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.SaveMarksRequest true "Marks payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/marks [put]
func (h *MarkHandler) Save(c *gin.Context) {
	var req service.SaveMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.marks.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
