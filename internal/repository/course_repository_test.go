package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/markbook-api/internal/grading"
	"github.com/noah-isme/markbook-api/internal/models"
)

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "title", "section", "semester", "year", "course_type", "created_by", "created_at", "updated_at"}).
		AddRow("course-1", "CSE101", "Intro", "A", "Fall", 2026, "lab", "teacher-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("course-1").
		WillReturnRows(rows)

	course, err := repo.FindByID(context.Background(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, grading.CourseTypeLab, course.CourseType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WithArgs(sqlmock.AnyArg(), "CSE101", "Intro", "", "", 0, "theory", "teacher-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Code: "CSE101", Title: "Intro", CourseType: grading.CourseTypeTheory, CreatedBy: "teacher-1"}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.Course{Code: "CSE101", Title: "Intro", CourseType: grading.CourseTypeTheory})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}
