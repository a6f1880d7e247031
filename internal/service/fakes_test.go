package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/markbook-api/internal/models"
	"github.com/noah-isme/markbook-api/internal/repository"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
)

type fakeCourseRepo struct {
	items   map[string]*models.Course
	findErr error
	updates int
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{items: make(map[string]*models.Course)}
	for i := range courses {
		c := courses[i]
		repo.items[c.ID] = &c
	}
	return repo
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if c, ok := f.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	for _, existing := range f.items {
		if existing.Code == course.Code && existing.Section == course.Section {
			return fmt.Errorf("create course: %w", repository.ErrDuplicate)
		}
	}
	if course.ID == "" {
		course.ID = fmt.Sprintf("course-%d", len(f.items)+1)
	}
	cp := *course
	f.items[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	f.updates++
	cp := *course
	f.items[course.ID] = &cp
	return nil
}

type fakeAssessmentRepo struct {
	items   []models.Assessment
	listErr error
	seq     int
	deleted []string
}

func (f *fakeAssessmentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Assessment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Assessment
	for _, a := range f.items {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeAssessmentRepo) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	for _, a := range f.items {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssessmentRepo) FindByName(ctx context.Context, courseID, name string) (*models.Assessment, error) {
	for _, a := range f.items {
		if a.CourseID == courseID && strings.EqualFold(a.Name, name) {
			cp := a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, assessment *models.Assessment) error {
	f.seq++
	if assessment.ID == "" {
		assessment.ID = fmt.Sprintf("assessment-%d", f.seq)
	}
	assessment.CreatedAt = time.Now()
	f.items = append(f.items, *assessment)
	return nil
}

func (f *fakeAssessmentRepo) Update(ctx context.Context, assessment *models.Assessment) error {
	for i := range f.items {
		if f.items[i].ID == assessment.ID {
			f.items[i] = *assessment
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeAssessmentRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	kept := f.items[:0]
	for _, a := range f.items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	f.items = kept
	return nil
}

type fakeMarkRepo struct {
	items     []models.Mark
	upserts   int
	upsertErr error
}

func (f *fakeMarkRepo) List(ctx context.Context, filter models.MarkFilter) ([]models.Mark, error) {
	var out []models.Mark
	for _, m := range f.items {
		if filter.CourseID != "" && m.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && m.StudentID != filter.StudentID {
			continue
		}
		if filter.AssessmentID != "" && m.AssessmentID != filter.AssessmentID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMarkRepo) BulkUpsert(ctx context.Context, marks []models.Mark) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	for _, m := range marks {
		replaced := false
		for i := range f.items {
			cur := f.items[i]
			if cur.CourseID == m.CourseID && cur.StudentID == m.StudentID && cur.AssessmentID == m.AssessmentID {
				f.items[i].ObtainedMarks = m.ObtainedMarks
				replaced = true
				break
			}
		}
		if !replaced {
			f.items = append(f.items, m)
		}
	}
	return nil
}

// fakeAttendanceRepo writes marks through the shared fakeMarkRepo and keeps
// the summaries only when those succeed.
type fakeAttendanceRepo struct {
	items map[string]models.AttendanceSummary
	marks *fakeMarkRepo
}

func (f *fakeAttendanceRepo) ListByCourse(ctx context.Context, courseID string) ([]models.AttendanceSummary, error) {
	var out []models.AttendanceSummary
	for _, s := range f.items {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (f *fakeAttendanceRepo) SaveWithMarks(ctx context.Context, summaries []models.AttendanceSummary, marks []models.Mark) error {
	if f.marks != nil {
		if err := f.marks.BulkUpsert(ctx, marks); err != nil {
			return err
		}
	}
	if f.items == nil {
		f.items = make(map[string]models.AttendanceSummary)
	}
	for _, s := range summaries {
		f.items[s.CourseID+"/"+s.StudentID] = s
	}
	return nil
}

type fakeEnrollmentRepo struct {
	items []models.Enrollment
}

func (f *fakeEnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.items {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	for _, e := range f.items {
		if e.CourseID == courseID && e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	store   map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{store: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.store {
		if strings.HasPrefix(key, prefix) {
			delete(m.store, key)
		}
	}
	return nil
}
