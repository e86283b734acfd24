// Package tui is the interactive terminal front end of the launcher.
package tui

// Key represents a key binding.
type Key struct {
	Key  string
	Help string
}

// Keymap contains all key bindings of the launcher.
type Keymap struct {
	Autocomplete Key
	Next         Key // moves the highlight down the list
	Previous     Key
	Launch       Key
	Copy         Key
	Quit         Key
	Cancel       Key
}

// DefaultKeymap returns the default key bindings.
// The list grows downward, so the down arrow steps the selection forward.
func DefaultKeymap() Keymap {
	return Keymap{
		Autocomplete: Key{Key: "tab", Help: "complete"},
		Next:         Key{Key: "down", Help: "next"},
		Previous:     Key{Key: "up", Help: "previous"},
		Launch:       Key{Key: "enter", Help: "launch"},
		Copy:         Key{Key: "ctrl+y", Help: "copy"},
		Quit:         Key{Key: "esc", Help: "quit"},
		Cancel:       Key{Key: "ctrl+c", Help: "quit"},
	}
}

// helpLine renders the bindings shown under the list.
func (k Keymap) helpLine() string {
	keys := []Key{k.Autocomplete, k.Next, k.Previous, k.Launch, k.Copy, k.Quit}
	line := ""
	for i, key := range keys {
		if i > 0 {
			line += "  "
		}
		line += key.Key + " " + key.Help
	}
	return line
}
