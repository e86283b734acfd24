package suggest

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Completion is the result of a prefix lookup.
// CommonStart is the longest prefix shared by every name in List, empty when List is empty.
type Completion struct {
	CommonStart string
	List        []string
}

// Ranker orders candidates by usage, falling back to name length.
// A nil usage ranks by length only.
type Ranker struct {
	usage Usage
	clock func() time.Time
}

// NewRanker creates a ranker. A nil clock means time.Now.
func NewRanker(usage Usage, clock func() time.Time) *Ranker {
	if clock == nil {
		clock = time.Now
	}
	return &Ranker{usage: usage, clock: clock}
}

// FuzzyFind returns every name containing query, ranked.
// An empty query matches the whole corpus.
func (r *Ranker) FuzzyFind(corpus *Corpus, query string) []string {
	matches := []string{}
	if corpus != nil {
		for _, name := range corpus.names {
			if strings.Contains(name, query) {
				matches = append(matches, name)
			}
		}
	}
	r.sort(matches)
	return matches
}

// Autocomplete returns every name starting with query, ranked, along with their common start.
func (r *Ranker) Autocomplete(corpus *Corpus, query string) Completion {
	if corpus == nil {
		return Completion{List: []string{}}
	}

	matches := corpus.withPrefix(query)

	// corpus order: the first match seeds the common start
	var common string
	for i, name := range matches {
		if i == 0 {
			common = name
			continue
		}
		common = commonPrefix(common, name)
	}

	r.sort(matches)
	return Completion{CommonStart: common, List: matches}
}

func (r *Ranker) sort(names []string) {
	now := r.clock()
	slices.SortStableFunc(names, func(a, b string) int {
		return compareNames(a, b, r.usage, now)
	})
}

// compareNames is the ranking rule. Recorded names come first and are ordered by score;
// unrecorded names are ordered by length.
func compareNames(a, b string, usage Usage, now time.Time) int {
	if usage == nil {
		return cmp.Compare(len(a), len(b))
	}

	hasA, hasB := usage.Has(a), usage.Has(b)
	switch {
	case hasA && hasB:
		return usage.Compare(a, b, now)
	case hasA:
		return -1
	case hasB:
		return 1
	default:
		return cmp.Compare(len(a), len(b))
	}
}

// commonPrefix returns the longest prefix of a shared with b, cut on rune boundaries.
func commonPrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) {
		_, sizeA := utf8.DecodeRuneInString(a[n:])
		_, sizeB := utf8.DecodeRuneInString(b[n:])
		if sizeA != sizeB || a[n:n+sizeA] != b[n:n+sizeB] {
			break
		}
		n += sizeA
	}
	return a[:n]
}
