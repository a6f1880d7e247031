package grading

// Violation describes a breach of the one-per-course rule.
type Violation struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

func (v *Violation) Error() string {
	return v.Message
}

type uniqueRule struct {
	category Category
	match    func(Flags) bool
	message  string
}

// CT and unclassified names are not listed, so a course may hold any number of them.
var uniqueRules = []uniqueRule{
	{CategoryMid, func(f Flags) bool { return f.Mid }, "Mid already exists for this course. Only one Mid exam is allowed."},
	{CategoryFinal, func(f Flags) bool { return f.Final }, "Final already exists for this course. Only one Final exam is allowed."},
	{CategoryAttendance, func(f Flags) bool { return f.Attendance }, "Attendance assessment already exists. Only one Attendance component is allowed."},
	{CategoryAssignment, func(f Flags) bool { return f.Assignment }, "Assignment assessment already exists. You can have at most one Assignment for this course."},
	{CategoryPresentation, func(f Flags) bool { return f.Presentation }, "Presentation assessment already exists. You can have at most one Presentation for this course."},
}

// CheckUnique reports the first category for which both newName and one of
// existing are classified, or nil when the new assessment may be created.
// Only creation is checked; renames are not re-validated.
func CheckUnique(newName string, existing []string) *Violation {
	flags := Classify(newName)
	var existingFlags []Flags
	for _, rule := range uniqueRules {
		if !rule.match(flags) {
			continue
		}
		if existingFlags == nil {
			existingFlags = make([]Flags, len(existing))
			for i, name := range existing {
				existingFlags[i] = Classify(name)
			}
		}
		for _, other := range existingFlags {
			if rule.match(other) {
				return &Violation{Category: rule.category, Message: rule.message}
			}
		}
	}
	return nil
}
