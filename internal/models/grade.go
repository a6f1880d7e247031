package models

import "github.com/noah-isme/markbook-api/internal/grading"

// AssessmentResult pairs an assessment with the student's mark, if any.
type AssessmentResult struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	FullMarks     float64            `json:"full_marks"`
	ObtainedMarks *float64           `json:"obtained_marks"`
	Categories    []grading.Category `json:"categories"`
}

// APlusInfo is kept for dashboards that read the legacy fields.
type APlusInfo struct {
	Needed      float64 `json:"needed"`
	MaxPossible float64 `json:"max_possible"`
}

// StudentCourseDetail is the student dashboard payload for one course.
type StudentCourseDetail struct {
	Course        Course             `json:"course"`
	Assessments   []AssessmentResult `json:"assessments"`
	TotalObtained float64            `json:"total_obtained"`
	Grade         string             `json:"grade"`
	APlusNeeded   float64            `json:"a_plus_needed"`
	APlusInfo     APlusInfo          `json:"a_plus_info"`
	MaxPossible   float64            `json:"max_possible"`
	Summary       grading.Summary    `json:"summary"`
}

// GradeSheetRow is one student's line in a course grade sheet.
type GradeSheetRow struct {
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name"`
	StudentRoll  string  `json:"student_roll"`
	CurrentTotal float64 `json:"current_total"`
	MaxPossible  float64 `json:"max_possible"`
	Grade        string  `json:"grade"`
	APlusNeeded  float64 `json:"a_plus_needed"`
}

// GradeSheet lists every enrolled student's current result for a course.
type GradeSheet struct {
	CourseID   string             `json:"course_id"`
	CourseCode string             `json:"course_code"`
	CourseType grading.CourseType `json:"course_type"`
	Rows       []GradeSheetRow    `json:"rows"`
}

// Pagination describes paged list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
