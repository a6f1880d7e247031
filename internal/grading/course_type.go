package grading

import (
	"errors"
	"fmt"
	"strings"
)

// CourseType selects the aggregation formula.
type CourseType string

const (
	CourseTypeTheory CourseType = "theory"
	CourseTypeLab    CourseType = "lab"
	// CourseTypeHybrid has no formula of its own and is scored as theory.
	CourseTypeHybrid CourseType = "hybrid"
)

// ErrUnsupportedCourseType is the only error the engine reports.
var ErrUnsupportedCourseType = errors.New("unsupported course type")

// ParseCourseType accepts theory, lab or hybrid in any case.
func ParseCourseType(raw string) (CourseType, error) {
	switch ct := CourseType(strings.ToLower(strings.TrimSpace(raw))); ct {
	case CourseTypeTheory, CourseTypeLab, CourseTypeHybrid:
		return ct, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCourseType, raw)
	}
}

// NormalizeCourseType returns theory for blank or unknown values.
func NormalizeCourseType(raw string) CourseType {
	ct, err := ParseCourseType(raw)
	if err != nil {
		return CourseTypeTheory
	}
	return ct
}

// Valid reports whether ct is one of the known course types.
func (ct CourseType) Valid() bool {
	_, err := ParseCourseType(string(ct))
	return err == nil
}
