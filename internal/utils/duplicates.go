package utils

// DuplicateFilter remembers names it has seen so repeated entries can be dropped.
// Names are compared exactly; two PATH directories shipping the same binary yield one entry.
type DuplicateFilter struct {
	seen map[string]struct{}
}

// NewDuplicateFilter creates an empty filter.
func NewDuplicateFilter() *DuplicateFilter {
	return &DuplicateFilter{seen: make(map[string]struct{})}
}

// ShouldInclude reports whether name is new, and marks it as seen.
func (f *DuplicateFilter) ShouldInclude(name string) bool {
	if _, ok := f.seen[name]; ok {
		return false
	}
	f.seen[name] = struct{}{}
	return true
}
