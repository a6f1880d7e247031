package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/markbook-api/internal/models"
)

func TestAttendanceSummaryRepositorySaveWithMarks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceSummaryRepository(db)

	teacher := "teacher-1"
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (course_id, student_id)")).
		WithArgs(sqlmock.AnyArg(), "course-1", "stu-1", 20, 18, 90.0, 5, "teacher-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (course_id, student_id, assessment_id)")).
		WithArgs(sqlmock.AnyArg(), "course-1", "stu-1", "att-1", 5.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SaveWithMarks(context.Background(),
		[]models.AttendanceSummary{{
			CourseID: "course-1", StudentID: "stu-1", TotalClasses: 20, AttendedClasses: 18, Percentage: 90, Marks: 5, UpdatedBy: &teacher,
		}},
		[]models.Mark{{CourseID: "course-1", StudentID: "stu-1", AssessmentID: "att-1", ObtainedMarks: 5}},
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceSummaryRepositorySaveWithMarksRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceSummaryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (course_id, student_id)")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (course_id, student_id, assessment_id)")).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.SaveWithMarks(context.Background(),
		[]models.AttendanceSummary{{CourseID: "course-1", StudentID: "stu-1", TotalClasses: 10, AttendedClasses: 9, Percentage: 90, Marks: 5}},
		[]models.Mark{{CourseID: "course-1", StudentID: "stu-1", AssessmentID: "att-1", ObtainedMarks: 5}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bulk upsert mark")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceSummaryRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceSummaryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_id", "student_id", "total_classes", "attended_classes", "percentage", "marks", "updated_by", "created_at", "updated_at"}).
		AddRow("s-1", "course-1", "stu-1", 20, 15, 75.0, 3, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_summaries WHERE course_id = $1")).
		WithArgs("course-1").
		WillReturnRows(rows)

	summaries, err := repo.ListByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].Marks)
	assert.Nil(t, summaries[0].UpdatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
