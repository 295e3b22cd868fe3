package similarity

import (
	"sort"
	"strings"
	"unicode/utf8"

	"shipwatch/internal/model"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// MinScore is the similarity a profile must exceed to match a search.
const MinScore = 0.5

// Ratio returns 2*M/T where M is the number of characters in the equal runs
// of a diff-match-patch character diff and T the total number of characters
// in both. M is a longest-common-subsequence count, so on strings with
// repeated substrings it can exceed what matching-block algorithms report.
// Two empty strings are identical.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}

	dmp := diffmatchpatch.New()
	matched := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}
	return 2 * float64(matched) / float64(total)
}

// Match is a ship profile with its similarity to the query.
type Match struct {
	Profile model.ShipProfile
	Score   float64
}

// Search compares query with every profile's ship id, ignoring case, and
// returns those scoring above MinScore, most similar first.
func Search(query string, profiles []model.ShipProfile) []Match {
	q := strings.ToLower(query)

	matches := []Match{}
	for _, p := range profiles {
		if score := Ratio(q, strings.ToLower(p.ShipID)); score > MinScore {
			matches = append(matches, Match{Profile: p, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches
}
