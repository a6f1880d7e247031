package models

import (
	"time"

	"github.com/noah-isme/markbook-api/internal/grading"
)

// Course is a taught course whose type selects the grading formula.
type Course struct {
	ID         string             `db:"id" json:"id"`
	Code       string             `db:"code" json:"code"`
	Title      string             `db:"title" json:"title"`
	Section    string             `db:"section" json:"section,omitempty"`
	Semester   string             `db:"semester" json:"semester,omitempty"`
	Year       int                `db:"year" json:"year,omitempty"`
	CourseType grading.CourseType `db:"course_type" json:"course_type"`
	CreatedBy  string             `db:"created_by" json:"created_by"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `db:"updated_at" json:"updated_at"`
}
