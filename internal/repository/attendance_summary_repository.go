package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/markbook-api/internal/models"
)

// AttendanceSummaryRepository persists per-student attendance aggregates.
type AttendanceSummaryRepository struct {
	db *sqlx.DB
}

// NewAttendanceSummaryRepository constructs the repository.
func NewAttendanceSummaryRepository(db *sqlx.DB) *AttendanceSummaryRepository {
	return &AttendanceSummaryRepository{db: db}
}

// ListByCourse returns all attendance summaries of a course.
func (r *AttendanceSummaryRepository) ListByCourse(ctx context.Context, courseID string) ([]models.AttendanceSummary, error) {
	const query = `SELECT id, course_id, student_id, total_classes, attended_classes, percentage, marks, updated_by, created_at, updated_at
        FROM attendance_summaries WHERE course_id = $1 ORDER BY student_id`
	var rows []models.AttendanceSummary
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("list attendance summaries: %w", err)
	}
	return rows, nil
}

// SaveWithMarks upserts summaries keyed by (course, student) together with
// their attendance marks. Both sets commit or roll back as one transaction.
func (r *AttendanceSummaryRepository) SaveWithMarks(ctx context.Context, summaries []models.AttendanceSummary, marks []models.Mark) error {
	if len(summaries) == 0 && len(marks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := upsertSummariesTx(ctx, tx, summaries, now); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := upsertMarksTx(ctx, tx, marks, now); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance summaries: %w", err)
	}
	return nil
}

const upsertAttendanceSummaryQuery = `INSERT INTO attendance_summaries (id, course_id, student_id, total_classes, attended_classes, percentage, marks, updated_by, created_at, updated_at)
        VALUES (:id, :course_id, :student_id, :total_classes, :attended_classes, :percentage, :marks, :updated_by, :created_at, :updated_at)
        ON CONFLICT (course_id, student_id)
        DO UPDATE SET total_classes = EXCLUDED.total_classes, attended_classes = EXCLUDED.attended_classes,
            percentage = EXCLUDED.percentage, marks = EXCLUDED.marks, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`

func upsertSummariesTx(ctx context.Context, tx *sqlx.Tx, summaries []models.AttendanceSummary, now time.Time) error {
	for i := range summaries {
		if summaries[i].ID == "" {
			summaries[i].ID = uuid.NewString()
		}
		if summaries[i].CreatedAt.IsZero() {
			summaries[i].CreatedAt = now
		}
		summaries[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, upsertAttendanceSummaryQuery, summaries[i]); err != nil {
			return fmt.Errorf("upsert attendance summary: %w", err)
		}
	}
	return nil
}
