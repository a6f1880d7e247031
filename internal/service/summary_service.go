package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/noah-isme/markbook-api/internal/grading"
	"github.com/noah-isme/markbook-api/internal/models"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
)

type enrollmentReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error)
	Exists(ctx context.Context, courseID, studentID string) (bool, error)
}

type markReader interface {
	List(ctx context.Context, filter models.MarkFilter) ([]models.Mark, error)
}

// SummaryService assembles a student's course result from stored
// assessments and marks.
type SummaryService struct {
	courses           courseReader
	assessments       assessmentLister
	marks             markReader
	enrollments       enrollmentReader
	cache             *CacheService
	metrics           *MetricsService
	logger            *zap.Logger
	defaultCourseType grading.CourseType
}

// NewSummaryService constructs SummaryService. defaultCourseType scores
// courses whose stored type is not recognised.
func NewSummaryService(courses courseReader, assessments assessmentLister, marks markReader, enrollments enrollmentReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, defaultCourseType string) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{
		courses:           courses,
		assessments:       assessments,
		marks:             marks,
		enrollments:       enrollments,
		cache:             cache,
		metrics:           metrics,
		logger:            logger,
		defaultCourseType: grading.NormalizeCourseType(defaultCourseType),
	}
}

// StudentCourseDetail returns the dashboard payload of one enrolled student
// and whether it was served from cache.
func (s *SummaryService) StudentCourseDetail(ctx context.Context, courseID, studentID string) (*models.StudentCourseDetail, bool, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, false, err
	}
	enrolled, err := s.enrollments.Exists(ctx, courseID, studentID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this course")
	}

	key := SummaryCacheKey(courseID, studentID)
	var cached models.StudentCourseDetail
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	assessments, err := s.assessments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	marks, err := s.marks.List(ctx, models.MarkFilter{CourseID: courseID, StudentID: studentID})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marks")
	}
	obtained := models.MarksByAssessment(marks)

	summary, err := s.compute(s.scoringType(course), assessments, obtained)
	if err != nil {
		return nil, false, err
	}

	results := make([]models.AssessmentResult, 0, len(assessments))
	for _, a := range assessments {
		result := models.AssessmentResult{
			ID:         a.ID,
			Name:       a.Name,
			FullMarks:  a.FullMarks,
			Categories: grading.Classify(a.Name).Categories(),
		}
		if v, ok := obtained[a.ID]; ok {
			v := v
			result.ObtainedMarks = &v
		}
		results = append(results, result)
	}

	detail := &models.StudentCourseDetail{
		Course:        *course,
		Assessments:   results,
		TotalObtained: summary.CurrentTotal,
		Grade:         summary.Grade,
		APlusNeeded:   summary.APlusNeeded,
		APlusInfo:     models.APlusInfo{Needed: summary.APlusNeeded, MaxPossible: summary.MaxPossible},
		MaxPossible:   summary.MaxPossible,
		Summary:       summary,
	}
	_ = s.cache.Set(ctx, key, detail, 0)
	return detail, false, nil
}

// compute scores marks under the course's formula. Unsupported stored types
// fall back to the configured default.
// scoringType returns the course type used to score course. Unsupported
// stored types fall back to the configured default.
func (s *SummaryService) scoringType(course *models.Course) grading.CourseType {
	courseType, err := grading.ParseCourseType(string(course.CourseType))
	if err == nil {
		return courseType
	}
	s.logger.Warn("unsupported course type, using default",
		zap.String("course_id", course.ID),
		zap.String("course_type", string(course.CourseType)),
		zap.String("default", string(s.defaultCourseType)),
	)
	s.metrics.ObserveCourseTypeFallback()
	return s.defaultCourseType
}

func (s *SummaryService) compute(courseType grading.CourseType, assessments []models.Assessment, obtained map[string]float64) (grading.Summary, error) {
	summary, err := grading.ComputeSummary(courseType, models.AssessmentInputs(assessments), obtained)
	if err != nil {
		return grading.Summary{}, appErrors.Wrap(err, appErrors.ErrUnsupportedCourseType.Code, appErrors.ErrUnsupportedCourseType.Status, "failed to compute course summary")
	}
	s.metrics.ObserveSummary(string(summary.CourseType), summary.Grade)
	return summary, nil
}

func (s *SummaryService) loadCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}
