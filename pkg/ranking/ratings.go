package ranking

import "github.com/levalleyjack/slugtistics/pkg/types"

// RatingSource resolves instructor ratings for courses whose record
// carries none. It is an explicit memoization map owned by the calling
// layer and keyed by instructor display name; ranking treats it as a
// pure input, never as captured mutable state.
type RatingSource map[string]float64

// effectiveRating prefers the rating on the course record, then the
// source. The second return reports whether any rating exists at all.
func effectiveRating(c *types.Course, src RatingSource) (float64, bool) {
	if c.InstructorRating != nil {
		return *c.InstructorRating, true
	}
	if src != nil {
		if r, ok := src[c.Instructor]; ok {
			return r, true
		}
	}
	return 0, false
}

// ratingPtr adapts effectiveRating for the composite score, which
// substitutes its own default for a missing rating.
func ratingPtr(c *types.Course, src RatingSource) *float64 {
	if r, ok := effectiveRating(c, src); ok {
		return &r
	}
	return nil
}
