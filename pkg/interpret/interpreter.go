/*
Package interpret turns the text typed into the launcher into ranked candidates
and, on confirmation, into a resolved command line.

An Interpreter handles one mode. The root is always a Default interpreter; when
the search starts with a recognised prefix (`sudo `, `killall `,
`open-project `, `!`) it creates a passthrough child for that mode, strips the
prefix and lets the child interpret the rest. Children never have children of
their own.

The caller feeds the whole search string on every keystroke:

	it := interpret.New(env)
	it.UpdateSearch("sudo vi")
	sel := it.Autocomplete() // sel.Text == "sudo vim" when vim is the only match
	res := it.Command()      // res.Line == "sudo vim", res.Kind == KindSudo

All operations are synchronous and never block. An Interpreter is not safe for
concurrent use.
*/
package interpret

import (
	"slices"
	"time"

	"github.com/bastiangx/cmdfinder/pkg/suggest"
)

// Sources supplies the corpora the modes search.
type Sources interface {
	Programs() *suggest.Corpus
	Projects() *suggest.Corpus
}

// Env is shared by every interpreter of a tree.
type Env struct {
	Sources Sources
	Usage   suggest.Usage    // nil ranks by length only
	Clock   func() time.Time // nil means time.Now
	Pinned  []string         // shown by Default while its search is empty
	Remote  RemoteHost
}

func (e *Env) ranker(usage suggest.Usage) *suggest.Ranker {
	return suggest.NewRanker(usage, e.Clock)
}

func (e *Env) programs() *suggest.Corpus {
	if e.Sources == nil {
		return nil
	}
	return e.Sources.Programs()
}

func (e *Env) projects() *suggest.Corpus {
	if e.Sources == nil {
		return nil
	}
	return e.Sources.Projects()
}

// ListMode selects which candidate list is shown and navigated.
type ListMode int

const (
	FuzzyFinder ListMode = iota
	Autocomplete
)

func (l ListMode) String() string {
	if l == Autocomplete {
		return "autocomplete"
	}
	return "fuzzy"
}

// Kind tells the launcher how a resolved command is executed.
type Kind int

const (
	KindNormal Kind = iota
	KindOpenProject
	KindSudo
)

func (k Kind) String() string {
	switch k {
	case KindOpenProject:
		return "open-project"
	case KindSudo:
		return "sudo"
	default:
		return "normal"
	}
}

// Resolution is a confirmed command.
type Resolution struct {
	Line   string // full command line, prefixes included
	Base   string // name recorded for ranking, empty for none
	Kind   Kind
	Target string // text of the innermost mode: the project name or the command run by sudo
}

// Selection is the outcome of a navigation or completion.
type Selection struct {
	Text    string // text to put back in the search box; feeding it to UpdateSearch is a no-op for mode detection
	Preview string // every ancestor's search followed by the local result, as it would run
	Item    string // bare candidate, for highlighting
}

const noSelection = -1

// Interpreter is the state of one mode.
type Interpreter struct {
	mode   Mode
	env    *Env
	ranker suggest.Finder
	corpus func() *suggest.Corpus // read on every search

	search     string
	listMode   ListMode
	selected   int
	fuzzy      []string
	completion *suggest.Completion

	child *Interpreter
}

// New creates the root interpreter.
func New(env *Env) *Interpreter {
	if env == nil {
		env = &Env{}
	}
	return Default.Create(env)
}

// Mode returns this interpreter's own mode.
func (it *Interpreter) Mode() Mode {
	return it.mode
}

// Child returns the active passthrough, or nil.
func (it *Interpreter) Child() *Interpreter {
	return it.child
}

// Preamble is the text this interpreter contributes to its parent's command line.
func (it *Interpreter) Preamble() string {
	return it.mode.preamble(it.env)
}

// Replacement is the text the parent strips from raw input for this interpreter.
func (it *Interpreter) Replacement() string {
	return it.mode.replacement(it.env)
}

// active returns the deepest interpreter of the chain.
func (it *Interpreter) active() *Interpreter {
	for it.child != nil {
		it = it.child
	}
	return it
}

// ActiveMode returns the mode of the deepest interpreter.
func (it *Interpreter) ActiveMode() Mode {
	return it.active().mode
}

// Search returns the deepest interpreter's own search text.
func (it *Interpreter) Search() string {
	return it.active().search
}

// Text returns the search as typed, prefixes included.
func (it *Interpreter) Text() string {
	if it.child != nil {
		return it.child.Replacement() + it.child.Text()
	}
	return it.search
}

// ActiveList returns the list mode shown by the deepest interpreter.
func (it *Interpreter) ActiveList() ListMode {
	a := it.active()
	if a.showsPinned() {
		return FuzzyFinder
	}
	return a.listMode
}

// List returns the candidates shown by the deepest interpreter, nil when none were computed.
func (it *Interpreter) List() []string {
	return slices.Clone(it.active().uiList())
}

// Completion returns the deepest interpreter's autocomplete result, if any.
func (it *Interpreter) Completion() (suggest.Completion, bool) {
	a := it.active()
	if a.completion == nil {
		return suggest.Completion{}, false
	}
	return suggest.Completion{
		CommonStart: a.completion.CommonStart,
		List:        slices.Clone(a.completion.List),
	}, true
}

// Selected returns the selected index in List.
func (it *Interpreter) Selected() (int, bool) {
	a := it.active()
	if a.selected == noSelection {
		return 0, false
	}
	return a.selected, true
}

// showsPinned reports whether the pinned list stands in for the search results.
func (it *Interpreter) showsPinned() bool {
	return it.mode == Default && it.search == ""
}

// uiList is the list selection moves through.
func (it *Interpreter) uiList() []string {
	if it.showsPinned() {
		return it.env.Pinned
	}
	if it.listMode == Autocomplete {
		if it.completion == nil {
			return nil
		}
		return it.completion.List
	}
	return it.fuzzy
}

// selectedItem returns the selected candidate, guarding against a stale index.
func (it *Interpreter) selectedItem() (string, bool) {
	list := it.uiList()
	if it.selected < 0 || it.selected >= len(list) {
		return "", false
	}
	return list[it.selected], true
}

// recompute refreshes both candidate lists for the current search.
func (it *Interpreter) recompute() {
	corpus := it.corpus()
	completion := it.ranker.Autocomplete(corpus, it.search)
	it.completion = &completion
	it.fuzzy = it.ranker.FuzzyFind(corpus, it.search)
}

func (it *Interpreter) updateLocal(search string) {
	it.search = search
	it.listMode = FuzzyFinder
	it.selected = noSelection
	it.recompute()
}

func (it *Interpreter) autocompleteLocal() Selection {
	it.listMode = Autocomplete
	if it.completion != nil {
		it.search = it.completion.CommonStart
	}
	it.recompute()
	it.selected = 0

	return Selection{Text: it.search, Preview: it.search, Item: it.search}
}

// moveLocal steps the selection through the shown list, wrapping at both ends.
func (it *Interpreter) moveLocal(forward bool) Selection {
	list := it.uiList()
	n := len(list)

	switch {
	case n == 0:
		it.selected = noSelection
		return Selection{}
	case it.selected < 0 || it.selected >= n:
		if forward {
			it.selected = 0
		} else {
			it.selected = n - 1
		}
	case forward:
		it.selected = (it.selected + 1) % n
	default:
		it.selected = (it.selected - 1 + n) % n
	}

	item := list[it.selected]
	if it.search != "" {
		it.search = item
	}
	return Selection{Text: item, Preview: item, Item: item}
}

func (it *Interpreter) commandLocal() Resolution {
	if it.search == "" {
		if item, ok := it.selectedItem(); ok {
			res := Resolution{Line: item, Kind: it.mode.kind(), Target: item}
			if it.mode == Default {
				res.Base = item
			} else {
				res.Base, _ = it.mode.baseName(item)
			}
			return res
		}
	}

	base, _ := it.mode.baseName(it.search)
	return Resolution{
		Line:   it.search,
		Base:   base,
		Kind:   it.mode.kind(),
		Target: it.search,
	}
}
