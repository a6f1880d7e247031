package grading

import "math"

// APlusThreshold is the lowest total that earns an A+.
const APlusThreshold = 80.0

type gradeBand struct {
	letter string
	min    float64
}

// Evaluated top-down; first match wins.
var gradeBands = []gradeBand{
	{"A+", 80},
	{"A", 75},
	{"A-", 70},
	{"B+", 65},
	{"B", 60},
	{"B-", 55},
	{"C", 50},
	{"D", 45},
}

// LetterGrade maps a total out of 100 to its letter grade.
func LetterGrade(total float64) string {
	for _, band := range gradeBands {
		if total >= band.min {
			return band.letter
		}
	}
	return "F"
}

// NeededForAPlus is the shortfall to the A+ threshold, never negative.
func NeededForAPlus(total float64) float64 {
	if total >= APlusThreshold {
		return 0
	}
	return math.Max(0, APlusThreshold-total)
}

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
