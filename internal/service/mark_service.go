package service

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/markbook-api/internal/models"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
)

type markRepository interface {
	List(ctx context.Context, filter models.MarkFilter) ([]models.Mark, error)
	BulkUpsert(ctx context.Context, marks []models.Mark) error
}

type assessmentLister interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Assessment, error)
}

// MarkEntry is one obtained mark in a bulk save.
type MarkEntry struct {
	StudentID     string   `json:"student_id"`
	AssessmentID  string   `json:"assessment_id"`
	ObtainedMarks *float64 `json:"obtained_marks"`
}

// SaveMarksRequest wraps a batch of marks for one course.
type SaveMarksRequest struct {
	Marks []MarkEntry `json:"marks"`
}

// SaveMarksResult reports how many entries were written or dropped.
type SaveMarksResult struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
}

// MarkService records obtained marks for a course.
type MarkService struct {
	courses     courseReader
	assessments assessmentLister
	marks       markRepository
	cache       *CacheService
	logger      *zap.Logger
}

// NewMarkService constructs MarkService.
func NewMarkService(courses courseReader, assessments assessmentLister, marks markRepository, cache *CacheService, logger *zap.Logger) *MarkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkService{courses: courses, assessments: assessments, marks: marks, cache: cache, logger: logger}
}

// List returns the marks of a course, optionally narrowed to one student.
func (s *MarkService) List(ctx context.Context, courseID, studentID string) ([]models.Mark, error) {
	if err := ensureCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	marks, err := s.marks.List(ctx, models.MarkFilter{CourseID: courseID, StudentID: studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list marks")
	}
	return marks, nil
}

// Save upserts a batch of marks. Entries without ids, with a missing,
// negative or non-finite value, or pointing at an assessment outside the
// course are dropped. The last entry wins when a pair repeats.
func (s *MarkService) Save(ctx context.Context, courseID string, req SaveMarksRequest) (*SaveMarksResult, error) {
	if err := ensureCourse(ctx, s.courses, courseID); err != nil {
		return nil, err
	}
	assessments, err := s.assessments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	known := make(map[string]struct{}, len(assessments))
	for _, a := range assessments {
		known[a.ID] = struct{}{}
	}

	type pair struct{ student, assessment string }
	index := make(map[pair]int, len(req.Marks))
	batch := make([]models.Mark, 0, len(req.Marks))
	result := &SaveMarksResult{}
	for _, entry := range req.Marks {
		studentID := strings.TrimSpace(entry.StudentID)
		assessmentID := strings.TrimSpace(entry.AssessmentID)
		if studentID == "" || assessmentID == "" || !validMark(entry.ObtainedMarks) {
			result.Skipped++
			continue
		}
		if _, ok := known[assessmentID]; !ok {
			result.Skipped++
			continue
		}
		key := pair{studentID, assessmentID}
		if i, ok := index[key]; ok {
			batch[i].ObtainedMarks = *entry.ObtainedMarks
			result.Skipped++
			continue
		}
		index[key] = len(batch)
		batch = append(batch, models.Mark{
			CourseID:      courseID,
			StudentID:     studentID,
			AssessmentID:  assessmentID,
			ObtainedMarks: *entry.ObtainedMarks,
		})
	}

	if len(batch) > 0 {
		if err := s.marks.BulkUpsert(ctx, batch); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save marks")
		}
		s.cache.InvalidateCourse(ctx, courseID)
	}
	result.Saved = len(batch)
	if result.Skipped > 0 {
		s.logger.Debug("mark entries skipped", zap.String("course_id", courseID), zap.Int("skipped", result.Skipped))
	}
	return result, nil
}

func validMark(v *float64) bool {
	if v == nil {
		return false
	}
	return !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v >= 0
}
