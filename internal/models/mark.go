package models

import "time"

// Mark is the obtained score of one student on one assessment.
type Mark struct {
	ID            string    `db:"id" json:"id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	AssessmentID  string    `db:"assessment_id" json:"assessment_id"`
	ObtainedMarks float64   `db:"obtained_marks" json:"obtained_marks"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// MarkFilter scopes mark queries.
type MarkFilter struct {
	CourseID     string
	StudentID    string
	AssessmentID string
}

// MarksByAssessment indexes obtained marks by assessment ID.
func MarksByAssessment(marks []Mark) map[string]float64 {
	out := make(map[string]float64, len(marks))
	for _, m := range marks {
		out[m.AssessmentID] = m.ObtainedMarks
	}
	return out
}
