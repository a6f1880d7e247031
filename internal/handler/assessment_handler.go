package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/markbook-api/internal/models"
	"github.com/noah-isme/markbook-api/internal/service"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
	"github.com/noah-isme/markbook-api/pkg/response"
)

type assessmentService interface {
	List(ctx context.Context, courseID string) ([]models.Assessment, error)
	Create(ctx context.Context, courseID string, req service.CreateAssessmentRequest) (*models.Assessment, error)
	Update(ctx context.Context, courseID, id string, req service.UpdateAssessmentRequest) (*models.Assessment, error)
	Delete(ctx context.Context, courseID, id string) error
}

// AssessmentHandler exposes assessment endpoints nested under a course.
type AssessmentHandler struct {
	assessments assessmentService
}

// NewAssessmentHandler constructs handler.
func NewAssessmentHandler(assessments assessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

// List godoc
// @Summary List course assessments
// @Tags Assessments
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/assessments [get]
func (h *AssessmentHandler) List(c *gin.Context) {
	items, err := h.assessments.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Create assessment
// @Description Mid, Final, Attendance, Assignment and Presentation are limited to one per course.
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.CreateAssessmentRequest true "Assessment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/assessments [post]
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req service.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assessment, err := h.assessments.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assessment)
}

// Update godoc
// @Summary Update assessment
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param assessmentId path string true "Assessment ID"
// @Param payload body service.UpdateAssessmentRequest true "Assessment payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/assessments/{assessmentId} [patch]
func (h *AssessmentHandler) Update(c *gin.Context) {
	var req service.UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assessment, err := h.assessments.Update(c.Request.Context(), c.Param("id"), c.Param("assessmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assessment, nil)
}

// Delete godoc
// @Summary Delete assessment and its marks
// @Tags Assessments
// @Param id path string true "Course ID"
// @Param assessmentId path string true "Assessment ID"
// @Success 204
// @Router /courses/{id}/assessments/{assessmentId} [delete]
func (h *AssessmentHandler) Delete(c *gin.Context) {
	if err := h.assessments.Delete(c.Request.Context(), c.Param("id"), c.Param("assessmentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
