package grading

import (
	"math"
	"sort"
	"strings"
)

// Component weights, out of 100.
const (
	WeightCT                     = 15.0
	WeightMid                    = 30.0
	WeightFinal                  = 40.0
	WeightAttendance             = 5.0
	WeightAssignmentPresentation = 10.0
	WeightLab                    = 25.0
)

// AssessmentInput is the engine's view of a configured assessment.
type AssessmentInput struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	FullMarks float64 `json:"full_marks"`
}

// ComponentScore exposes both tracks of one weighted component.
type ComponentScore struct {
	Component string  `json:"component"`
	Weight    float64 `json:"weight"`
	Now       float64 `json:"now"`
	Full      float64 `json:"full"`
}

// Summary is the computed course result for one student.
type Summary struct {
	CourseType   CourseType       `json:"course_type"`
	CurrentTotal float64          `json:"current_total"`
	MaxPossible  float64          `json:"max_possible"`
	Grade        string           `json:"grade"`
	APlusNeeded  float64          `json:"a_plus_needed"`
	Components   []ComponentScore `json:"components"`
}

// slot tracks a single-assessment component. The last matching assessment wins.
type slot struct {
	now  float64
	full float64
	seen bool
}

func (s *slot) set(now float64, configured bool) {
	s.now = now
	s.full = 0
	if configured {
		s.full = 1
	}
	s.seen = true
}

// pool tracks a multi-assessment component. The full track only receives an
// entry for configured assessments.
type pool struct {
	now  []float64
	full []float64
}

func (p *pool) add(now float64, configured bool) {
	p.now = append(p.now, now)
	if configured {
		p.full = append(p.full, 1)
	}
}

type marks struct {
	obtained map[string]float64
}

// pct is obtained/fullMarks clamped to [0, 1]; unconfigured or ungraded
// assessments yield 0.
func (m marks) pct(a AssessmentInput) float64 {
	if !configured(a) {
		return 0
	}
	v, ok := m.obtained[a.ID]
	if !ok || !finite(v) {
		return 0
	}
	return clamp(v/a.FullMarks, 0, 1)
}

func configured(a AssessmentInput) bool {
	return finite(a.FullMarks) && a.FullMarks > 0
}

// ComputeSummary scores one student's marks under the formula for courseType.
// Hybrid courses use the theory formula.
func ComputeSummary(courseType CourseType, assessments []AssessmentInput, obtained map[string]float64) (Summary, error) {
	ct, err := ParseCourseType(string(courseType))
	if err != nil {
		return Summary{}, err
	}
	m := marks{obtained: obtained}
	var components []ComponentScore
	if ct == CourseTypeLab {
		components = labComponents(assessments, m)
	} else {
		components = theoryComponents(assessments, m)
	}

	var now, full float64
	for i := range components {
		now += components[i].Now
		full += components[i].Full
		components[i].Now = Round2(components[i].Now)
		components[i].Full = Round2(components[i].Full)
	}
	return Summary{
		CourseType:   ct,
		CurrentTotal: Round2(now),
		MaxPossible:  Round2(full),
		Grade:        LetterGrade(now),
		APlusNeeded:  Round2(NeededForAPlus(now)),
		Components:   components,
	}, nil
}

func theoryComponents(assessments []AssessmentInput, m marks) []ComponentScore {
	var ct pool
	var mid, final, att, assign, pres slot
	for _, a := range assessments {
		name := strings.ToLower(a.Name)
		now, ok := m.pct(a), configured(a)
		switch {
		case IsScoredCT(a.Name):
			ct.add(now, ok)
		case strings.Contains(name, "mid"):
			mid.set(now, ok)
		case strings.Contains(name, "final"):
			final.set(now, ok)
		case strings.Contains(name, "att"):
			att.set(now, ok)
		case strings.Contains(name, "assign"):
			assign.set(now, ok)
		case strings.Contains(name, "pres"):
			pres.set(now, ok)
		}
	}

	out := []ComponentScore{
		{Component: "ct", Weight: WeightCT, Now: BestTwoAverage(ct.now) * WeightCT, Full: BestTwoAverage(ct.full) * WeightCT},
		single("mid", WeightMid, mid),
		single("final", WeightFinal, final),
		single("attendance", WeightAttendance, att),
	}
	switch {
	case assign.seen && pres.seen:
		half := WeightAssignmentPresentation / 2
		out = append(out, single("assignment", half, assign), single("presentation", half, pres))
	case assign.seen:
		out = append(out, single("assignment", WeightAssignmentPresentation, assign))
	case pres.seen:
		out = append(out, single("presentation", WeightAssignmentPresentation, pres))
	}
	return out
}

func labComponents(assessments []AssessmentInput, m marks) []ComponentScore {
	var lab pool
	var mid, final, att slot
	for _, a := range assessments {
		name := strings.ToLower(a.Name)
		now, ok := m.pct(a), configured(a)
		switch {
		case strings.Contains(name, "mid"):
			mid.set(now, ok)
		case strings.Contains(name, "final"):
			final.set(now, ok)
		case strings.Contains(name, "att"):
			att.set(now, ok)
		default:
			lab.add(now, ok)
		}
	}
	return []ComponentScore{
		{Component: "lab", Weight: WeightLab, Now: Average(lab.now) * WeightLab, Full: Average(lab.full) * WeightLab},
		single("mid", WeightMid, mid),
		single("final", WeightFinal, final),
		single("attendance", WeightAttendance, att),
	}
}

func single(component string, weight float64, s slot) ComponentScore {
	return ComponentScore{Component: component, Weight: weight, Now: s.now * weight, Full: s.full * weight}
}

// BestTwoAverage averages the two largest values. It returns 0 for no values
// and the value itself for one.
func BestTwoAverage(values []float64) float64 {
	switch len(values) {
	case 0:
		return 0
	case 1:
		return values[0]
	}
	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return (sorted[0] + sorted[1]) / 2
}

// Average is the arithmetic mean, 0 for no values.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
