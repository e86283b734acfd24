/*
Package frequency keeps per-command usage counts and last-used times, and ranks
commands by a blend of the two.

A Store is loaded once per launcher session, handed to the interpreter tree for
ranking, and written back by the launcher after a command is resolved. There is
no package-level state; callers own the store value.

# Scoring

Both recorded commands are compared by

	score = count/maxCount/2 + 1.07^ageDays/2

where ageDays is the time since last use in days. Higher scores rank first.
maxCount is the largest count seen when the store was loaded.
*/
package frequency

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"time"
)

const secondsPerDay = 60 * 60 * 24

// recencyBase is the per-day growth of the recency term.
const recencyBase = 1.07

// Entry is the usage record of one command name.
type Entry struct {
	Count    uint16
	LastUsed uint64 // unix seconds
}

// Store maps command names to their usage. It is safe for concurrent use:
// the launcher records from a background command while the interpreter ranks.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	max     uint16
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Get returns the entry for name.
func (s *Store) Get(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	return e, ok
}

// Has reports whether name has been used before.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[name]
	return ok
}

// Set replaces the entry for name. Max is left untouched.
func (s *Store) Set(name string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = e
}

// Max returns the largest count seen at load time.
func (s *Store) Max() uint16 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.max
}

// Len returns the number of recorded names.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Names returns the recorded names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	s.mu.RUnlock()

	slices.Sort(names)
	return names
}

// RecordUse counts one more use of name at now.
// The count saturates at the largest uint16.
func (s *Store) RecordUse(name string, now time.Time) {
	stamp := unixSeconds(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		s.entries[name] = Entry{Count: 1, LastUsed: stamp}
		return
	}
	if e.Count < math.MaxUint16 {
		e.Count++
	}
	e.LastUsed = stamp
	s.entries[name] = e
}

// Score returns the ranking score of e at now.
func (s *Store) Score(e Entry, now time.Time) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score(e, now)
}

func (s *Store) score(e Entry, now time.Time) float64 {
	var countNorm float64
	if s.max > 0 {
		countNorm = float64(e.Count) / float64(s.max)
	}

	// signed so an entry stamped in the future does not wrap around
	ageDays := float64(now.Unix()-int64(e.LastUsed)) / secondsPerDay
	recencyNorm := math.Pow(recencyBase, ageDays)

	return countNorm/2 + recencyNorm/2
}

// Compare orders a before b when a scores higher.
// Names without an entry score as a zero entry; callers rank those separately.
func (s *Store) Compare(a, b string, now time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cmp.Compare(s.score(s.entries[b], now), s.score(s.entries[a], now))
}

// recomputeMax sets max to the largest count held. The caller owns s exclusively.
func (s *Store) recomputeMax() {
	s.max = 0
	for _, e := range s.entries {
		if e.Count > s.max {
			s.max = e.Count
		}
	}
}

func unixSeconds(t time.Time) uint64 {
	if sec := t.Unix(); sec > 0 {
		return uint64(sec)
	}
	return 0
}
