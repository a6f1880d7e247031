package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/markbook-api/internal/middleware"
	"github.com/noah-isme/markbook-api/internal/models"
	"github.com/noah-isme/markbook-api/internal/service"
	"github.com/noah-isme/markbook-api/pkg/response"
)

type summaryService interface {
	StudentCourseDetail(ctx context.Context, courseID, studentID string) (*models.StudentCourseDetail, bool, error)
}

type gradeSheetService interface {
	Build(ctx context.Context, courseID string) (*models.GradeSheet, error)
	Export(ctx context.Context, courseID, format string) (*service.GradeSheetFile, error)
}

// SummaryHandler serves computed course results.
type SummaryHandler struct {
	summaries summaryService
	sheets    gradeSheetService
}

// NewSummaryHandler constructs handler.
func NewSummaryHandler(summaries summaryService, sheets gradeSheetService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, sheets: sheets}
}

// StudentDetail godoc
// @Summary Student course result
// @Tags Summaries
// @Produce json
// @Param id path string true "Course ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/students/{studentId}/summary [get]
func (h *SummaryHandler) StudentDetail(c *gin.Context) {
	detail, cacheHit, err := h.summaries.StudentCourseDetail(c.Request.Context(), c.Param("id"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, detail, nil, middleware.ExtractMeta(c))
}

// GradeSheet godoc
// @Summary Course grade sheet
// @Tags Summaries
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/grade-sheet [get]
func (h *SummaryHandler) GradeSheet(c *gin.Context) {
	sheet, err := h.sheets.Build(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// ExportGradeSheet godoc
// @Summary Export course grade sheet
// @Tags Summaries
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /courses/{id}/grade-sheet/export [get]
func (h *SummaryHandler) ExportGradeSheet(c *gin.Context) {
	file, err := h.sheets.Export(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
