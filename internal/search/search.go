// Package search ranks notebook documents against a fuzzy query.
//
// Matching uses fzf's V2 algorithm, the one behind its interactive finder, so
// "grcl" finds "Grocery List". A document's score is the sum of its title
// score and the scores of all keywords that match.
package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/calvinalkan/notebook/internal/registry"
)

func init() {
	algo.Init("default")
}

// Match is one ranked entry.
type Match struct {
	registry.Entry

	Score int
}

// Matcher scores text against one query. It reuses its scratch memory, so a
// Matcher must not be shared between goroutines.
type Matcher struct {
	pattern []rune
	slab    *util.Slab
}

// NewMatcher compiles query. Matching ignores case and leading or trailing
// whitespace.
func NewMatcher(query string) *Matcher {
	return &Matcher{
		pattern: []rune(strings.ToLower(strings.TrimSpace(query))),
		slab:    util.MakeSlab(100*1024, 2048),
	}
}

// Empty reports whether the query matches everything.
func (m *Matcher) Empty() bool {
	return len(m.pattern) == 0
}

// Score returns the fzf score of s and whether s matches at all.
func (m *Matcher) Score(s string) (int, bool) {
	if m.Empty() {
		return 0, true
	}

	chars := util.ToChars([]byte(s))

	res, _ := algo.FuzzyMatchV2(false, true, true, &chars, m.pattern, false, m.slab)
	if res.Start < 0 {
		return 0, false
	}

	return res.Score, true
}

// Rank returns the entries that match query, best first.
//
// An empty query returns every entry in input order with a zero score.
// Otherwise entries that match neither title nor any keyword are dropped and
// ties are broken by case-folded title, then by id.
func Rank(entries []registry.Entry, query string) []Match {
	m := NewMatcher(query)

	matches := make([]Match, 0, len(entries))

	for _, e := range entries {
		if m.Empty() {
			matches = append(matches, Match{Entry: e})

			continue
		}

		total, hit := 0, false

		if score, ok := m.Score(e.Record.Title); ok {
			total, hit = total+score, true
		}

		for _, k := range e.Record.Keywords {
			if score, ok := m.Score(k); ok {
				total, hit = total+score, true
			}
		}

		if hit {
			matches = append(matches, Match{Entry: e, Score: total})
		}
	}

	if m.Empty() {
		return matches
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		if c := strings.Compare(strings.ToLower(a.Record.Title), strings.ToLower(b.Record.Title)); c != 0 {
			return c
		}

		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return matches
}
