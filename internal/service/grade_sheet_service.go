package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/markbook-api/internal/models"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
	"github.com/noah-isme/markbook-api/pkg/export"
)

var gradeSheetHeaders = []string{"Roll", "Student", "Current Total", "Max Possible", "Grade", "A+ Needed"}

// GradeSheetFile is a rendered grade sheet ready to be served.
type GradeSheetFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// GradeSheetService builds per-course result tables and their exports.
type GradeSheetService struct {
	summaries      *SummaryService
	renderer       *export.Renderer
	exportsEnabled bool
	logger         *zap.Logger
}

// NewGradeSheetService constructs GradeSheetService.
func NewGradeSheetService(summaries *SummaryService, renderer *export.Renderer, exportsEnabled bool, logger *zap.Logger) *GradeSheetService {
	if renderer == nil {
		renderer = export.NewRenderer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeSheetService{summaries: summaries, renderer: renderer, exportsEnabled: exportsEnabled, logger: logger}
}

// Build computes the current result of every enrolled student, ordered by roll.
func (s *GradeSheetService) Build(ctx context.Context, courseID string) (*models.GradeSheet, error) {
	course, err := s.summaries.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.summaries.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	assessments, err := s.summaries.assessments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	marks, err := s.summaries.marks.List(ctx, models.MarkFilter{CourseID: courseID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marks")
	}
	byStudent := make(map[string][]models.Mark)
	for _, m := range marks {
		byStudent[m.StudentID] = append(byStudent[m.StudentID], m)
	}

	sheet := &models.GradeSheet{
		CourseID:   course.ID,
		CourseCode: course.Code,
		CourseType: course.CourseType,
		Rows:       make([]models.GradeSheetRow, 0, len(enrollments)),
	}
	courseType := s.summaries.scoringType(course)
	for _, e := range enrollments {
		summary, err := s.summaries.compute(courseType, assessments, models.MarksByAssessment(byStudent[e.StudentID]))
		if err != nil {
			return nil, err
		}
		sheet.CourseType = summary.CourseType
		sheet.Rows = append(sheet.Rows, models.GradeSheetRow{
			StudentID:    e.StudentID,
			StudentName:  e.StudentName,
			StudentRoll:  e.StudentRoll,
			CurrentTotal: summary.CurrentTotal,
			MaxPossible:  summary.MaxPossible,
			Grade:        summary.Grade,
			APlusNeeded:  summary.APlusNeeded,
		})
	}
	sort.SliceStable(sheet.Rows, func(i, j int) bool {
		return sheet.Rows[i].StudentRoll < sheet.Rows[j].StudentRoll
	})
	return sheet, nil
}

// Export renders the grade sheet as CSV or PDF.
func (s *GradeSheetService) Export(ctx context.Context, courseID, rawFormat string) (*GradeSheetFile, error) {
	if !s.exportsEnabled {
		return nil, appErrors.ErrExportsDisabled
	}
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	sheet, err := s.Build(ctx, courseID)
	if err != nil {
		return nil, err
	}
	content, err := s.renderer.Render(format, gradeSheetDataset(sheet), fmt.Sprintf("%s grade sheet", sheet.CourseCode))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grade sheet")
	}
	s.logger.Info("grade sheet exported",
		zap.String("course_id", courseID),
		zap.String("format", string(format)),
		zap.Int("rows", len(sheet.Rows)),
	)
	return &GradeSheetFile{
		Filename:    gradeSheetFilename(sheet.CourseCode, format),
		ContentType: format.ContentType(),
		Content:     content,
	}, nil
}

func gradeSheetDataset(sheet *models.GradeSheet) export.Dataset {
	rows := make([]map[string]string, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		rows = append(rows, map[string]string{
			"Roll":          r.StudentRoll,
			"Student":       r.StudentName,
			"Current Total": formatScore(r.CurrentTotal),
			"Max Possible":  formatScore(r.MaxPossible),
			"Grade":         r.Grade,
			"A+ Needed":     formatScore(r.APlusNeeded),
		})
	}
	return export.Dataset{
		Headers: gradeSheetHeaders,
		Rows:    rows,
		Numeric: map[string]bool{"Current Total": true, "Max Possible": true, "A+ Needed": true},
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func gradeSheetFilename(code string, format export.Format) string {
	slug := strings.ToLower(strings.Join(strings.Fields(code), "-"))
	if slug == "" {
		slug = "course"
	}
	return fmt.Sprintf("%s-grade-sheet.%s", slug, format)
}
