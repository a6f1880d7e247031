package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/markbook-api/internal/grading"
	"github.com/noah-isme/markbook-api/internal/models"
	"github.com/noah-isme/markbook-api/internal/repository"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
)

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
}

// CreateCourseRequest captures course creation payload.
type CreateCourseRequest struct {
	Code       string `json:"code" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Section    string `json:"section"`
	Semester   string `json:"semester"`
	Year       int    `json:"year" validate:"omitempty,gte=1900,lte=2200"`
	CourseType string `json:"course_type"`
	CreatedBy  string `json:"-"`
}

// UpdateCourseRequest captures partial course updates.
type UpdateCourseRequest struct {
	Code       *string `json:"code"`
	Title      *string `json:"title"`
	Section    *string `json:"section"`
	Semester   *string `json:"semester"`
	Year       *int    `json:"year" validate:"omitempty,gte=1900,lte=2200"`
	CourseType *string `json:"course_type"`
}

// CourseService manages course records and their grading formula selection.
type CourseService struct {
	courses           courseRepository
	cache             *CacheService
	validator         *validator.Validate
	logger            *zap.Logger
	defaultCourseType grading.CourseType
}

// NewCourseService constructs CourseService. An invalid defaultCourseType
// falls back to theory.
func NewCourseService(courses courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, defaultCourseType string) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courses:           courses,
		cache:             cache,
		validator:         validate,
		logger:            logger,
		defaultCourseType: grading.NormalizeCourseType(defaultCourseType),
	}
}

// Get returns a course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create stores a new course. Unknown or missing course types become the default.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	courseType, err := grading.ParseCourseType(req.CourseType)
	if err != nil {
		if strings.TrimSpace(req.CourseType) != "" {
			s.logger.Info("course type defaulted", zap.String("requested", req.CourseType), zap.String("applied", string(s.defaultCourseType)))
		}
		courseType = s.defaultCourseType
	}
	course := &models.Course{
		Code:       strings.TrimSpace(req.Code),
		Title:      strings.TrimSpace(req.Title),
		Section:    req.Section,
		Semester:   req.Semester,
		Year:       req.Year,
		CourseType: courseType,
		CreatedBy:  req.CreatedBy,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update applies the provided fields. An unsupported course type is ignored
// and the stored type kept.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Code != nil {
		course.Code = strings.TrimSpace(*req.Code)
	}
	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Section != nil {
		course.Section = *req.Section
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	if req.Year != nil {
		course.Year = *req.Year
	}
	typeChanged := false
	if req.CourseType != nil {
		if ct, err := grading.ParseCourseType(*req.CourseType); err == nil {
			typeChanged = ct != course.CourseType
			course.CourseType = ct
		} else {
			s.logger.Info("course type update ignored", zap.String("course_id", id), zap.String("requested", *req.CourseType))
		}
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	if typeChanged {
		s.cache.InvalidateCourse(ctx, id)
	}
	return course, nil
}
