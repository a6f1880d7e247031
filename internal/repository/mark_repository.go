package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/markbook-api/internal/models"
)

// MarkRepository handles persistence of obtained marks.
type MarkRepository struct {
	db *sqlx.DB
}

// NewMarkRepository creates a new mark repository.
func NewMarkRepository(db *sqlx.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

const upsertMarkQuery = `INSERT INTO marks (id, course_id, student_id, assessment_id, obtained_marks, created_at, updated_at)
        VALUES (:id, :course_id, :student_id, :assessment_id, :obtained_marks, :created_at, :updated_at)
        ON CONFLICT (course_id, student_id, assessment_id)
        DO UPDATE SET obtained_marks = EXCLUDED.obtained_marks, updated_at = EXCLUDED.updated_at`

// List returns marks matching the filter.
func (r *MarkRepository) List(ctx context.Context, filter models.MarkFilter) ([]models.Mark, error) {
	query := `SELECT id, course_id, student_id, assessment_id, obtained_marks, created_at, updated_at FROM marks WHERE 1=1`
	var args []interface{}
	if filter.CourseID != "" {
		query += fmt.Sprintf(" AND course_id = $%d", len(args)+1)
		args = append(args, filter.CourseID)
	}
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.AssessmentID != "" {
		query += fmt.Sprintf(" AND assessment_id = $%d", len(args)+1)
		args = append(args, filter.AssessmentID)
	}
	query += " ORDER BY student_id, assessment_id"
	var marks []models.Mark
	if err := r.db.SelectContext(ctx, &marks, query, args...); err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}
	return marks, nil
}

// BulkUpsert inserts or updates marks in a single transaction. Replaying the
// same batch leaves the table unchanged apart from updated_at.
func (r *MarkRepository) BulkUpsert(ctx context.Context, marks []models.Mark) error {
	if len(marks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := upsertMarksTx(ctx, tx, marks, time.Now().UTC()); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit marks: %w", err)
	}
	return nil
}

func upsertMarksTx(ctx context.Context, tx *sqlx.Tx, marks []models.Mark, now time.Time) error {
	for i := range marks {
		if marks[i].ID == "" {
			marks[i].ID = uuid.NewString()
		}
		if marks[i].CreatedAt.IsZero() {
			marks[i].CreatedAt = now
		}
		marks[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, upsertMarkQuery, marks[i]); err != nil {
			return fmt.Errorf("bulk upsert mark: %w", err)
		}
	}
	return nil
}
