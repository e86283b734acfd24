package tui

import (
	"fmt"
	"strings"

	"github.com/bastiangx/cmdfinder/pkg/interpret"
)

// chromeRows is the number of rows View uses besides the list.
const chromeRows = 4

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	if m.view == viewPassword {
		b.WriteString(modeStyle.Render("sudo " + m.pending.Target))
		b.WriteString("\n")
		b.WriteString(m.password.View())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.search.View())
	b.WriteString("\n")

	selected, hasSelection := m.interp.Selected()
	for i, item := range m.visibleItems() {
		line := item
		if m.width > 0 {
			line = truncate(item, m.width-2)
		}
		if hasSelection && i == selected {
			b.WriteString(selectedStyle.Render(">" + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.modeLine())
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	default:
		b.WriteString(statusStyle.Render(m.keymap.helpLine()))
	}
	b.WriteString("\n")
	return b.String()
}

// visibleItems returns the head of the active list that fits the window and limit.
func (m Model) visibleItems() []string {
	items := m.interp.List()
	rows := len(items)
	if m.limit > 0 && rows > m.limit {
		rows = m.limit
	}
	if m.height > chromeRows && rows > m.height-chromeRows {
		rows = m.height - chromeRows
	}
	return items[:rows]
}

func (m Model) modeLine() string {
	mode := m.interp.ActiveMode()
	line := fmt.Sprintf("%s · %s · %d", mode, m.interp.ActiveList(), len(m.interp.List()))
	switch {
	case m.preview != "" && m.preview != m.search.Value():
		line += " · " + m.preview
	case mode != interpret.Default:
		line += " · " + strings.TrimSpace(m.interp.Text())
	}
	if m.width > 0 {
		line = truncate(line, m.width)
	}
	return modeStyle.Render(line)
}
