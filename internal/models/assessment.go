package models

import (
	"time"

	"github.com/noah-isme/markbook-api/internal/grading"
)

// Assessment is a gradable item of a course. Its category is derived from
// Name on every computation and is never persisted.
type Assessment struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Name      string    `db:"name" json:"name"`
	FullMarks float64   `db:"full_marks" json:"full_marks"`
	Order     int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Input converts the assessment into the grading engine's view.
func (a Assessment) Input() grading.AssessmentInput {
	return grading.AssessmentInput{ID: a.ID, Name: a.Name, FullMarks: a.FullMarks}
}

// AssessmentInputs converts a slice of assessments preserving order.
func AssessmentInputs(assessments []Assessment) []grading.AssessmentInput {
	inputs := make([]grading.AssessmentInput, 0, len(assessments))
	for _, a := range assessments {
		inputs = append(inputs, a.Input())
	}
	return inputs
}
