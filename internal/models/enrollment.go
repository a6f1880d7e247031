package models

import "time"

// Enrollment registers a student in a course.
type Enrollment struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	StudentRoll string    `db:"student_roll" json:"student_roll"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
