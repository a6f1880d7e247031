package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/markbook-api/internal/models"
)

// EnrollmentRepository reads course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByCourse returns the enrolled students of a course ordered by roll.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	const query = `SELECT e.id, e.course_id, e.student_id, u.name AS student_name, u.username AS student_roll, e.created_at
        FROM enrollments e
        JOIN users u ON u.id = e.student_id
        WHERE e.course_id = $1
        ORDER BY u.username`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// Exists reports whether the student is enrolled in the course.
func (r *EnrollmentRepository) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2 LIMIT 1", courseID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}
