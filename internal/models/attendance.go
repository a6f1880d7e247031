package models

import "time"

// AttendanceSummary stores a student's aggregate attendance for a course and
// the 0-5 mark derived from it.
type AttendanceSummary struct {
	ID              string    `db:"id" json:"id"`
	CourseID        string    `db:"course_id" json:"course_id"`
	StudentID       string    `db:"student_id" json:"student_id"`
	TotalClasses    int       `db:"total_classes" json:"total_classes"`
	AttendedClasses int       `db:"attended_classes" json:"attended_classes"`
	Percentage      float64   `db:"percentage" json:"percentage"`
	Marks           int       `db:"marks" json:"marks"`
	UpdatedBy       *string   `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
