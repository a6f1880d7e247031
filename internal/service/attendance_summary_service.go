package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/markbook-api/internal/grading"
	"github.com/noah-isme/markbook-api/internal/models"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
)

type attendanceSummaryStore interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.AttendanceSummary, error)
	SaveWithMarks(ctx context.Context, summaries []models.AttendanceSummary, marks []models.Mark) error
}

type attendanceAssessmentStore interface {
	FindByName(ctx context.Context, courseID, name string) (*models.Assessment, error)
	Create(ctx context.Context, assessment *models.Assessment) error
}

// AttendanceRecord is one student's aggregate attendance.
type AttendanceRecord struct {
	StudentID       string `json:"student_id" validate:"required"`
	TotalClasses    int    `json:"total_classes" validate:"gte=0"`
	AttendedClasses int    `json:"attended_classes" validate:"gte=0"`
}

// SaveAttendanceRequest wraps the records for one course.
type SaveAttendanceRequest struct {
	Records   []AttendanceRecord `json:"records" validate:"required,min=1,dive"`
	UpdatedBy string             `json:"-"`
}

// AttendanceSummaryService converts attendance counts into the attendance
// component and stores it as an ordinary mark.
type AttendanceSummaryService struct {
	courses     courseReader
	summaries   attendanceSummaryStore
	assessments attendanceAssessmentStore
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAttendanceSummaryService constructs AttendanceSummaryService.
func NewAttendanceSummaryService(courses courseReader, summaries attendanceSummaryStore, assessments attendanceAssessmentStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceSummaryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceSummaryService{
		courses:     courses,
		summaries:   summaries,
		assessments: assessments,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// List returns the stored attendance summaries of a course.
func (s *AttendanceSummaryService) List(ctx context.Context, courseID string) ([]models.AttendanceSummary, error) {
	if err := ensureCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	rows, err := s.summaries.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, nil
}

// Save computes percentage and marks for every record and stores the
// summaries together with the resulting marks against the course's
// Attendance assessment, creating it on first use. Student ids are trimmed
// before validation so blank ids are rejected.
func (s *AttendanceSummaryService) Save(ctx context.Context, courseID string, req SaveAttendanceRequest) ([]models.AttendanceSummary, error) {
	records := make([]AttendanceRecord, len(req.Records))
	for i, rec := range req.Records {
		rec.StudentID = strings.TrimSpace(rec.StudentID)
		records[i] = rec
	}
	req.Records = records
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if err := ensureCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	for _, rec := range req.Records {
		if rec.AttendedClasses > rec.TotalClasses {
			return nil, appErrors.Clone(appErrors.ErrValidation, "attended classes cannot exceed total classes")
		}
	}

	assessment, err := s.ensureAttendanceAssessment(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var updatedBy *string
	if req.UpdatedBy != "" {
		updatedBy = &req.UpdatedBy
	}
	summaries := make([]models.AttendanceSummary, 0, len(req.Records))
	marks := make([]models.Mark, 0, len(req.Records))
	for _, rec := range req.Records {
		studentID := rec.StudentID
		pct := grading.AttendancePercentage(float64(rec.AttendedClasses), float64(rec.TotalClasses))
		awarded := grading.AttendanceMarks(pct)
		summaries = append(summaries, models.AttendanceSummary{
			CourseID:        courseID,
			StudentID:       studentID,
			TotalClasses:    rec.TotalClasses,
			AttendedClasses: rec.AttendedClasses,
			Percentage:      grading.Round2(pct),
			Marks:           awarded,
			UpdatedBy:       updatedBy,
		})
		marks = append(marks, models.Mark{
			CourseID:      courseID,
			StudentID:     studentID,
			AssessmentID:  assessment.ID,
			ObtainedMarks: float64(awarded),
		})
	}

	if err := s.summaries.SaveWithMarks(ctx, summaries, marks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}
	for _, row := range summaries {
		s.metrics.ObserveAttendanceMarks(row.Marks)
	}
	s.cache.InvalidateCourse(ctx, courseID)
	s.logger.Info("attendance saved", zap.String("course_id", courseID), zap.Int("records", len(summaries)))
	return summaries, nil
}

func (s *AttendanceSummaryService) ensureAttendanceAssessment(ctx context.Context, courseID string) (*models.Assessment, error) {
	existing, err := s.assessments.FindByName(ctx, courseID, grading.AttendanceAssessmentName)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance assessment")
	}
	created := &models.Assessment{
		CourseID:  courseID,
		Name:      grading.AttendanceAssessmentName,
		FullMarks: grading.AttendanceFullMarks,
		Order:     grading.AttendanceAssessmentOrder,
	}
	if err := s.assessments.Create(ctx, created); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance assessment")
	}
	s.logger.Info("attendance assessment created", zap.String("course_id", courseID), zap.String("assessment_id", created.ID))
	return created, nil
}
