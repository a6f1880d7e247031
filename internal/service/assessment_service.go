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

type assessmentRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Assessment, error)
	FindByID(ctx context.Context, id string) (*models.Assessment, error)
	FindByName(ctx context.Context, courseID, name string) (*models.Assessment, error)
	Create(ctx context.Context, assessment *models.Assessment) error
	Update(ctx context.Context, assessment *models.Assessment) error
	Delete(ctx context.Context, id string) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// CreateAssessmentRequest captures a new assessment definition.
type CreateAssessmentRequest struct {
	Name      string  `json:"name" validate:"required"`
	FullMarks float64 `json:"full_marks" validate:"gt=0"`
	Order     *int    `json:"order"`
}

// UpdateAssessmentRequest captures partial assessment updates.
type UpdateAssessmentRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=1"`
	FullMarks *float64 `json:"full_marks" validate:"omitempty,gt=0"`
	Order     *int     `json:"order"`
}

// AssessmentService manages a course's assessments and enforces the
// one-per-category policy on creation.
type AssessmentService struct {
	courses     courseReader
	assessments assessmentRepository
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssessmentService constructs AssessmentService.
func NewAssessmentService(courses courseReader, assessments assessmentRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		courses:     courses,
		assessments: assessments,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// List returns the course's assessments ordered by order then creation time.
func (s *AssessmentService) List(ctx context.Context, courseID string) ([]models.Assessment, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}
	items, err := s.assessments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assessments")
	}
	return items, nil
}

// Create validates and stores a new assessment. Mid, Final, Attendance,
// Assignment and Presentation may each appear at most once per course.
func (s *AssessmentService) Create(ctx context.Context, courseID string, req CreateAssessmentRequest) (*models.Assessment, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and full marks are required")
	}
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	existing, err := s.assessments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	names := make([]string, 0, len(existing))
	for _, a := range existing {
		names = append(names, a.Name)
	}
	if violation := grading.CheckUnique(req.Name, names); violation != nil {
		s.metrics.ObserveAssessmentRejected(string(violation.Category))
		s.logger.Info("assessment rejected",
			zap.String("course_id", courseID),
			zap.String("name", req.Name),
			zap.String("category", string(violation.Category)),
		)
		return nil, appErrors.Clone(appErrors.ErrDuplicateAssessment, violation.Message)
	}

	assessment := &models.Assessment{
		CourseID:  courseID,
		Name:      req.Name,
		FullMarks: req.FullMarks,
	}
	if req.Order != nil {
		assessment.Order = *req.Order
	}
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assessment")
	}
	s.cache.InvalidateCourse(ctx, courseID)
	return assessment, nil
}

// Update changes name, full marks or order. Category limits are not
// re-checked on rename.
func (s *AssessmentService) Update(ctx context.Context, courseID, id string, req UpdateAssessmentRequest) (*models.Assessment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment payload")
	}
	assessment, err := s.find(ctx, courseID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name must not be blank")
		}
		assessment.Name = name
	}
	if req.FullMarks != nil {
		assessment.FullMarks = *req.FullMarks
	}
	if req.Order != nil {
		assessment.Order = *req.Order
	}
	if err := s.assessments.Update(ctx, assessment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assessment")
	}
	s.cache.InvalidateCourse(ctx, courseID)
	return assessment, nil
}

// Delete removes the assessment and every mark recorded against it.
func (s *AssessmentService) Delete(ctx context.Context, courseID, id string) error {
	if _, err := s.find(ctx, courseID, id); err != nil {
		return err
	}
	if err := s.assessments.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assessment")
	}
	s.cache.InvalidateCourse(ctx, courseID)
	return nil
}

func (s *AssessmentService) find(ctx context.Context, courseID, id string) (*models.Assessment, error) {
	assessment, err := s.assessments.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessment")
	}
	if assessment.CourseID != courseID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
	}
	return assessment, nil
}

func (s *AssessmentService) ensureCourse(ctx context.Context, courseID string) error {
	return ensureCourse(ctx, s.courses, courseID)
}

func ensureCourse(ctx context.Context, courses courseReader, courseID string) error {
	if _, err := courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return nil
}
