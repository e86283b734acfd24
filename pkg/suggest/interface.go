// Package suggest is the candidate ranker: substring and prefix lookups over a corpus of
// command or project names, ordered by usage when a frequency store is available.
package suggest

import "time"

// Usage reports prior usage of candidate names.
// frequency.Store implements it.
type Usage interface {
	// Has reports whether name has a recorded entry.
	Has(name string) bool

	// Compare orders two recorded names, negative when a should be listed before b.
	Compare(a, b string, now time.Time) int
}

// Finder is the ranking surface an interpreter mode searches through.
type Finder interface {
	FuzzyFind(corpus *Corpus, query string) []string
	Autocomplete(corpus *Corpus, query string) Completion
}
