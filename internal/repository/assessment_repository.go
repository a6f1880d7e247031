package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/markbook-api/internal/models"
)

// AssessmentRepository handles persistence of course assessments.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs the repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = "id, course_id, name, full_marks, sort_order, created_at, updated_at"

// ListByCourse returns assessments ordered by their sort key then creation time.
func (r *AssessmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Assessment, error) {
	query := "SELECT " + assessmentColumns + " FROM assessments WHERE course_id = $1 ORDER BY sort_order ASC, created_at ASC"
	var assessments []models.Assessment
	if err := r.db.SelectContext(ctx, &assessments, query, courseID); err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return assessments, nil
}

// FindByID returns an assessment by ID.
func (r *AssessmentRepository) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.GetContext(ctx, &assessment, "SELECT "+assessmentColumns+" FROM assessments WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// FindByName matches an assessment of the course by exact name ignoring case.
func (r *AssessmentRepository) FindByName(ctx context.Context, courseID, name string) (*models.Assessment, error) {
	query := "SELECT " + assessmentColumns + " FROM assessments WHERE course_id = $1 AND LOWER(name) = LOWER($2) ORDER BY created_at ASC LIMIT 1"
	var assessment models.Assessment
	if err := r.db.GetContext(ctx, &assessment, query, courseID, name); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Create inserts a new assessment.
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = now
	}
	assessment.UpdatedAt = now
	const query = `INSERT INTO assessments (id, course_id, name, full_marks, sort_order, created_at, updated_at)
        VALUES (:id, :course_id, :name, :full_marks, :sort_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assessment); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// Update persists name, full marks and order.
func (r *AssessmentRepository) Update(ctx context.Context, assessment *models.Assessment) error {
	assessment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assessments SET name = :name, full_marks = :full_marks, sort_order = :sort_order, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assessment); err != nil {
		return fmt.Errorf("update assessment: %w", err)
	}
	return nil
}

// Delete removes an assessment together with every mark recorded against it.
func (r *AssessmentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM marks WHERE assessment_id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete assessment marks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM assessments WHERE id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete assessment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assessment delete: %w", err)
	}
	return nil
}
