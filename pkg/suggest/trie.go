package suggest

import (
	"slices"

	"github.com/bastiangx/cmdfinder/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Corpus is an ordered set of known names with a prefix index.
// The order is the order the names were listed in; it breaks ranking ties.
type Corpus struct {
	names []string
	index *patricia.Trie
}

// NewCorpus builds a corpus, dropping empty names and repeated names after their first occurrence.
func NewCorpus(names []string) *Corpus {
	c := &Corpus{
		names: make([]string, 0, len(names)),
		index: patricia.NewTrie(),
	}

	filter := utils.NewDuplicateFilter()
	for _, name := range names {
		if name == "" || !filter.ShouldInclude(name) {
			continue
		}
		c.index.Insert(patricia.Prefix(name), len(c.names))
		c.names = append(c.names, name)
	}
	return c
}

// Len returns the number of distinct names.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns the names in corpus order.
func (c *Corpus) Names() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.names)
}

// withPrefix returns every name starting with prefix, in corpus order.
func (c *Corpus) withPrefix(prefix string) []string {
	if c.Len() == 0 {
		return []string{}
	}
	if prefix == "" {
		return slices.Clone(c.names)
	}

	var positions []int
	err := c.index.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		pos, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for name %s", item, p)
			return nil
		}
		positions = append(positions, pos)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting corpus subtree: %v", err)
		return []string{}
	}

	slices.Sort(positions)
	matches := make([]string, len(positions))
	for i, pos := range positions {
		matches[i] = c.names[pos]
	}
	return matches
}
