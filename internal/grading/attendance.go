package grading

import "strings"

// Synthetic assessment that carries converted attendance marks.
const (
	AttendanceAssessmentName  = "Attendance"
	AttendanceFullMarks       = 5.0
	AttendanceAssessmentOrder = 999
)

type attendanceBand struct {
	min   float64
	marks int
}

// Inclusive lower bounds, evaluated top-down.
var attendanceBands = []attendanceBand{
	{90, 5},
	{80, 4},
	{70, 3},
	{60, 2},
	{50, 1},
}

// AttendancePercentage is attended/total*100 clamped to [0, 100], or 0 when
// no classes were held.
func AttendancePercentage(attended, total float64) float64 {
	if !finite(total) || !finite(attended) || total <= 0 {
		return 0
	}
	return clamp(attended/total*100, 0, 100)
}

// AttendanceMarks converts an attendance percentage into a 0-5 mark.
func AttendanceMarks(percentage float64) int {
	if !finite(percentage) {
		return 0
	}
	for _, band := range attendanceBands {
		if percentage >= band.min {
			return band.marks
		}
	}
	return 0
}

// IsAttendanceAssessment matches the synthetic assessment by exact name,
// ignoring case.
func IsAttendanceAssessment(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), AttendanceAssessmentName)
}
