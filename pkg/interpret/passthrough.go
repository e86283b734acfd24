package interpret

import (
	"unicode/utf8"

	"github.com/bastiangx/cmdfinder/internal/utils"
	"github.com/charmbracelet/log"
)

// UpdateSearch interprets the whole text typed so far.
//
// A passthrough child is dropped as soon as the text stops selecting its mode,
// and a new one is created by the first child mode the text selects. While a
// child is active this interpreter's search is the child's preamble and the
// rest of the text, minus the child's replacement token, goes to the child.
// Otherwise the text is searched locally and the selection is cleared.
func (it *Interpreter) UpdateSearch(text string) {
	if it.child != nil && !it.child.mode.ShouldCreate(text) {
		log.Debugf("Leaving %s mode", it.child.mode)
		it.child = nil
	}

	if it.child == nil {
		for _, m := range it.mode.children() {
			if m.ShouldCreate(text) {
				log.Debugf("Entering %s mode", m)
				it.child = m.Create(it.env)
				break
			}
		}
	}

	if it.child == nil {
		it.updateLocal(text)
		return
	}

	rest := utils.DropRunes(text, utf8.RuneCountInString(it.child.Replacement()))
	it.search = it.child.Preamble()
	it.selected = noSelection
	it.child.UpdateSearch(rest)
}

// Autocomplete fills the search with the common start of the prefix matches
// and switches the shown list to them.
func (it *Interpreter) Autocomplete() Selection {
	if it.child != nil {
		return it.compose(it.child.Autocomplete())
	}
	return it.autocompleteLocal()
}

// SelectUp moves the selection one candidate forward, wrapping to the first.
func (it *Interpreter) SelectUp() Selection {
	if it.child != nil {
		return it.compose(it.child.SelectUp())
	}
	return it.moveLocal(true)
}

// SelectDown moves the selection one candidate back, wrapping to the last.
func (it *Interpreter) SelectDown() Selection {
	if it.child != nil {
		return it.compose(it.child.SelectDown())
	}
	return it.moveLocal(false)
}

// Command resolves the current search into a command line.
// A child's line is prefixed with this interpreter's search, which is the child's preamble.
func (it *Interpreter) Command() Resolution {
	if it.child == nil {
		return it.commandLocal()
	}

	res := it.child.Command()
	res.Line = it.search + res.Line
	if res.Base == "" {
		res.Base, _ = it.mode.baseName(it.search)
	}
	return res
}

// Reset drops any child and clears the search, as if the launcher was just opened.
func (it *Interpreter) Reset() {
	it.child = nil
	it.search = ""
	it.listMode = FuzzyFinder
	it.selected = noSelection
	it.fuzzy = nil
	it.completion = nil
}

// compose wraps a child's result. Text gets the child's replacement token back so it
// can be fed to UpdateSearch; Preview gets this interpreter's own search, the child's preamble.
func (it *Interpreter) compose(sel Selection) Selection {
	return Selection{
		Text:    it.child.Replacement() + sel.Text,
		Preview: it.search + sel.Preview,
		Item:    sel.Item,
	}
}
