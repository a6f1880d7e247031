package grading

import "strings"

// Category is the semantic bucket an assessment name falls into.
type Category string

const (
	CategoryCT           Category = "CT"
	CategoryMid          Category = "MID"
	CategoryFinal        Category = "FINAL"
	CategoryAttendance   Category = "ATTENDANCE"
	CategoryAssignment   Category = "ASSIGNMENT"
	CategoryPresentation Category = "PRESENTATION"
	CategoryOther        Category = "OTHER"
)

// Keyword tables for the loose classifier. Changing an entry changes how
// historical assessments are bucketed when grades are recomputed.
var (
	ctKeywords           = []string{"ct", "class test", "class-test"}
	midKeywords          = []string{"mid"}
	finalKeywords        = []string{"final"}
	attendanceKeywords   = []string{"attendance", "attend", "att."}
	assignmentKeywords   = []string{"assignment", "assign"}
	presentationKeywords = []string{"presentation", "present.", "presentation/assignment"}
)

// Flags records which categories a name matched. Several flags may be set at
// once; callers that need a single bucket apply their own priority order.
type Flags struct {
	CT           bool `json:"is_ct"`
	Mid          bool `json:"is_mid"`
	Final        bool `json:"is_final"`
	Attendance   bool `json:"is_attendance"`
	Assignment   bool `json:"is_assignment"`
	Presentation bool `json:"is_presentation"`
}

// Classify evaluates the loose keyword rules against name.
//
// The CT rule here matches "ct" anywhere in the name. Scoring uses the
// stricter IsScoredCT instead, so a name such as "Project" is a CT for the
// uniqueness policy but is not scored as one.
func Classify(name string) Flags {
	lowered := strings.ToLower(name)
	return Flags{
		CT:           containsAny(lowered, ctKeywords),
		Mid:          containsAny(lowered, midKeywords),
		Final:        containsAny(lowered, finalKeywords),
		Attendance:   containsAny(lowered, attendanceKeywords),
		Assignment:   containsAny(lowered, assignmentKeywords),
		Presentation: containsAny(lowered, presentationKeywords),
	}
}

// Categories lists matched categories in a fixed order, or CategoryOther.
func (f Flags) Categories() []Category {
	var out []Category
	if f.CT {
		out = append(out, CategoryCT)
	}
	if f.Mid {
		out = append(out, CategoryMid)
	}
	if f.Final {
		out = append(out, CategoryFinal)
	}
	if f.Attendance {
		out = append(out, CategoryAttendance)
	}
	if f.Assignment {
		out = append(out, CategoryAssignment)
	}
	if f.Presentation {
		out = append(out, CategoryPresentation)
	}
	if len(out) == 0 {
		out = append(out, CategoryOther)
	}
	return out
}

// IsScoredCT is the strict class-test rule used by the theory formula.
func IsScoredCT(name string) bool {
	lowered := strings.ToLower(name)
	return strings.HasPrefix(lowered, "ct") || strings.Contains(lowered, "class test")
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
