package ranking

import (
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

// Sort returns a freshly allocated ordering of list under the given
// key. Equal keys keep their relative catalog order.
func Sort(list []types.Course, key types.SortKey, ratings RatingSource) []types.Course {
	out := slices.Clone(list)
	switch key {
	case types.SortAlphanumeric:
		// Numeric-aware collation so "AM 9" sorts before "AM 10".
		col := collate.New(language.English, collate.Numeric)
		slices.SortStableFunc(out, func(a, b types.Course) int {
			return col.CompareString(a.Code(), b.Code())
		})
	case types.SortGPA:
		sortDescending(out, func(c *types.Course) float64 {
			if c.GPA == nil {
				return math.Inf(-1)
			}
			return *c.GPA
		})
	case types.SortInstructor:
		sortDescending(out, func(c *types.Course) float64 {
			if r, ok := effectiveRating(c, ratings); ok {
				return r
			}
			return math.Inf(-1)
		})
	default:
		sortDescending(out, func(c *types.Course) float64 {
			return Score(c.GPA, ratingPtr(c, ratings), GPAWeight)
		})
	}
	return out
}

// sortDescending is a stable descending sort by score; missing values
// arrive here as -Inf and therefore sort last.
func sortDescending(list []types.Course, score func(*types.Course) float64) {
	slices.SortStableFunc(list, func(a, b types.Course) int {
		sa, sb := score(&a), score(&b)
		if sa > sb {
			return -1
		}
		if sa < sb {
			return 1
		}
		return 0
	})
}
