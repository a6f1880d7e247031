package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/markbook-api/internal/models"
)

func TestAssessmentRepositoryListByCourseOrdersBySortKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_id", "name", "full_marks", "sort_order", "created_at", "updated_at"}).
		AddRow("a-1", "course-1", "CT1", 10.0, 0, now, now).
		AddRow("a-2", "course-1", "Mid", 30.0, 1, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assessments WHERE course_id = $1 ORDER BY sort_order ASC, created_at ASC")).
		WithArgs("course-1").
		WillReturnRows(rows)

	assessments, err := repo.ListByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, assessments, 2)
	assert.Equal(t, "Mid", assessments[1].Name)
	assert.Equal(t, 1, assessments[1].Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assessments")).
		WithArgs(sqlmock.AnyArg(), "course-1", "Final", 40.0, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assessment := &models.Assessment{CourseID: "course-1", Name: "Final", FullMarks: 40, Order: 2}
	require.NoError(t, repo.Create(context.Background(), assessment))
	assert.NotEmpty(t, assessment.ID)
	assert.False(t, assessment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryFindByNameNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(name) = LOWER($2)")).
		WithArgs("course-1", "Attendance").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), "course-1", "Attendance")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryDeleteRemovesMarks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM marks WHERE assessment_id = $1")).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assessments WHERE id = $1")).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "a-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryDeleteRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM marks")).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "a-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
