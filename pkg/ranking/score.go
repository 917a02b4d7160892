package ranking

import "math"

const (
	// Substituted when a course carries no grade history or rating.
	DefaultGPA    = 3.0
	DefaultRating = 2.5

	// GPAWeight is the blend weight of the composite default score.
	GPAWeight = 0.85

	// Rating is deliberately less sharply discriminating than GPA.
	gpaSteepness    = 6.0
	ratingSteepness = 4.0
)

// enhance pushes a normalized value through a logistic S-curve so
// midpoint values compress and extremes stand out.
func enhance(x, steepness float64) float64 {
	return 1 / (1 + math.Exp(-steepness*(x-0.5)))
}

// Score blends grade history and instructor rating into one number in
// (0,1). Nil inputs take the documented defaults; the function is pure
// and bit-stable under IEEE-754 doubles.
func Score(gpa, rating *float64, gpaWeight float64) float64 {
	g := DefaultGPA
	if gpa != nil {
		g = *gpa
	}
	r := DefaultRating
	if rating != nil {
		r = *rating
	}
	return gpaWeight*enhance(g/4, gpaSteepness) +
		(1-gpaWeight)*enhance(r/5, ratingSteepness)
}

// ScoreOutOfTen is the human-facing "out of 10" figure with the
// default blend weight.
func ScoreOutOfTen(gpa, rating *float64) float64 {
	return Score(gpa, rating, GPAWeight) * 10
}
