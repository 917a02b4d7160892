package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

// MaxResults caps every match run. The cap is "first 20 in catalog
// order", not "top 20 by score"; there is no relevance re-sorting.
const MaxResults = 20

// codePattern recognizes course-code queries like "AM 10", "cse101" or
// a bare subject "math". Queries with digits that do not fit this shape
// ("10 am") fall back to the general title/instructor rules.
var codePattern = regexp.MustCompile(`^([a-zA-Z]+)\s*(\d+)?$`)

type Matcher struct {
	Limit int
}

func NewMatcher() *Matcher {
	return &Matcher{Limit: MaxResults}
}

// Match returns the courses matching the raw query, in catalog order,
// capped at the matcher limit. The query never mutates the catalog.
func (m *Matcher) Match(query string, catalog []types.Course) []types.Course {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	limit := m.Limit
	if limit <= 0 {
		limit = MaxResults
	}
	terms := strings.Fields(q)
	pred := m.predicate(q, terms)

	out := make([]types.Course, 0, min(limit, len(catalog)))
	for i := range catalog {
		if pred(&catalog[i]) {
			out = append(out, catalog[i])
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

func (m *Matcher) predicate(q string, terms []string) func(*types.Course) bool {
	if strings.ContainsAny(q, "0123456789") {
		if sub := codePattern.FindStringSubmatch(q); sub != nil {
			subject, number := sub[1], sub[2]
			if number != "" {
				return func(c *types.Course) bool {
					return hasPrefixFold(c.Subject, subject) &&
						hasPrefixFold(c.CatalogNum, number)
				}
			}
			return func(c *types.Course) bool {
				return hasPrefixFold(c.Subject, subject)
			}
		}
	}
	return func(c *types.Course) bool {
		return hasPrefixFold(c.Name, q) ||
			hasPrefixFold(c.Code(), q) ||
			instructorMatches(terms, c.Instructor)
	}
}

// instructorMatches applies the name heuristics against the instructor
// display name split into lowercase tokens.
func instructorMatches(terms []string, instructor string) bool {
	parts := strings.Fields(strings.ToLower(instructor))
	if len(parts) == 0 || len(terms) == 0 {
		return false
	}
	if len(terms) == 1 {
		// A one-letter query can legitimately hit a middle initial;
		// search-as-you-type relies on this from the first character.
		for _, p := range parts {
			if strings.HasPrefix(p, terms[0]) {
				return true
			}
		}
		return false
	}
	if len(terms) == 2 {
		// "p tantalo" matches "Paul Tantalo": first-name initial plus a
		// substring of the last name.
		first, _ := utf8.DecodeRuneInString(parts[0])
		if terms[0] == string(first) && strings.Contains(parts[len(parts)-1], terms[1]) {
			return true
		}
	}
	// General case: every term must be a prefix of some name token,
	// independent of order.
	for _, term := range terms {
		ok := false
		for _, p := range parts {
			if strings.HasPrefix(p, term) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// hasPrefixFold reports whether s starts with prefix, comparing
// lower-cased. prefix is expected to already be lower-case.
func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), prefix)
}
