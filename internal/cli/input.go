// Package cli is a line-based front end for debugging the interpreter.
// Each line is a full search string; lines starting with ':' drive the other operations.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/cmdfinder/internal/logger"
	"github.com/bastiangx/cmdfinder/pkg/interpret"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	candidateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	modeStyle      = lipgloss.NewStyle().Faint(true)
)

// InputHandler reads searches and directives from a reader and prints the interpreter state.
type InputHandler struct {
	interp *interpret.Interpreter
	limit  int
	in     io.Reader
	out    *log.Logger
}

// NewInputHandler creates a handler over interp. A limit below 1 prints every candidate.
func NewInputHandler(interp *interpret.Interpreter, limit int, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		interp: interp,
		limit:  limit,
		in:     in,
		out:    logger.NewWithConfig(out, "", log.InfoLevel, false, log.TextFormatter),
	}
}

// Start runs the loop until the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("cmdfinder CLI")
	h.out.Print("type a search and press Enter; :tab :up :down :cmd :reset drive the rest (Ctrl+D to exit)")

	scanner := bufio.NewScanner(h.in)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		h.handleInput(strings.TrimRight(scanner.Text(), "\r"))
	}
}

// handleInput applies one line to the interpreter and prints the result.
func (h *InputHandler) handleInput(line string) {
	start := time.Now()

	switch line {
	case ":tab":
		h.printSelection(h.interp.Autocomplete())
	case ":up":
		h.printSelection(h.interp.SelectUp())
	case ":down":
		h.printSelection(h.interp.SelectDown())
	case ":reset":
		h.interp.Reset()
	case ":cmd":
		res := h.interp.Command()
		h.out.Printf("command: %q", res.Line)
		h.out.Print("", "kind", res.Kind, "base", res.Base, "target", res.Target)
		return
	default:
		h.interp.UpdateSearch(line)
	}

	log.Debugf("Took [ %v ] for %q", time.Since(start), line)
	h.printList()
}

func (h *InputHandler) printSelection(sel interpret.Selection) {
	h.out.Printf("text: %q", sel.Text)
	if sel.Preview != sel.Text {
		h.out.Printf("preview: %q", sel.Preview)
	}
}

func (h *InputHandler) printList() {
	list := h.interp.List()
	mode := modeStyle.Render(fmt.Sprintf("[%s, %s]", h.interp.ActiveMode(), h.interp.ActiveList()))

	if len(list) == 0 {
		h.out.Printf("%s no candidates for %q", mode, h.interp.Search())
		return
	}

	if h.limit > 0 && len(list) > h.limit {
		list = list[:h.limit]
	}
	selected, hasSelection := h.interp.Selected()

	h.out.Printf("%s %d candidates:", mode, len(list))
	for i, name := range list {
		marker, style := " ", candidateStyle
		if hasSelection && i == selected {
			marker, style = ">", selectedStyle
		}
		h.out.Printf("%s %2d. %s", marker, i+1, style.Render(name))
	}
}
