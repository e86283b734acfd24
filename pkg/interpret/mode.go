package interpret

import (
	"fmt"
	"strings"

	"github.com/bastiangx/cmdfinder/internal/utils"
)

// Mode identifies which interpreter a search string belongs to.
type Mode int

const (
	Default Mode = iota
	Sudo
	Killall
	OpenProject
	RemoteForward
)

const (
	sudoWord        = "sudo"
	killallWord     = "killall"
	openProjectWord = "open-project"
	remoteToken     = "!"
)

// defaultChildren are the modes a Default interpreter hands a search to, in priority order.
var defaultChildren = []Mode{OpenProject, Sudo, Killall, RemoteForward}

func (m Mode) String() string {
	switch m {
	case Default:
		return "default"
	case Sudo:
		return "sudo"
	case Killall:
		return "killall"
	case OpenProject:
		return "open-project"
	case RemoteForward:
		return "remote-forward"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ShouldCreate reports whether the raw search selects this mode.
func (m Mode) ShouldCreate(search string) bool {
	switch m {
	case Default:
		return search == ""
	case Sudo:
		return utils.HasPrefixAndMore(search, sudoWord)
	case Killall:
		return utils.HasPrefixAndMore(search, killallWord)
	case OpenProject:
		return utils.HasPrefixAndMore(search, openProjectWord)
	case RemoteForward:
		return strings.HasPrefix(search, remoteToken)
	default:
		return false
	}
}

// Create builds a fresh interpreter for the mode. Its lists stay absent until the first search.
func (m Mode) Create(env *Env) *Interpreter {
	it := &Interpreter{
		mode:     m,
		env:      env,
		listMode: FuzzyFinder,
		selected: noSelection,
	}

	switch m {
	case OpenProject:
		// projects are never recorded, so they rank by length only
		it.ranker = env.ranker(nil)
		it.corpus = env.projects
	default:
		it.ranker = env.ranker(env.Usage)
		it.corpus = env.programs
	}
	return it
}

// children returns the modes this mode may hand a search to.
func (m Mode) children() []Mode {
	if m == Default {
		return defaultChildren
	}
	return nil
}

// preamble is the text this mode puts in front of the resolved command of its parent.
func (m Mode) preamble(env *Env) string {
	switch m {
	case Sudo:
		return sudoWord + " "
	case Killall:
		return killallWord + " "
	case OpenProject:
		return openProjectWord + " "
	case RemoteForward:
		return env.Remote.Preamble()
	default:
		return ""
	}
}

// replacement is the text the parent strips from raw input before handing the rest over.
func (m Mode) replacement(env *Env) string {
	if m == RemoteForward {
		return remoteToken
	}
	return m.preamble(env)
}

// baseName is the name recorded for frequency ranking when a resolution does not supply one.
func (m Mode) baseName(search string) (string, bool) {
	switch m {
	case Default:
		return utils.FirstWord(search), true
	case Sudo:
		return sudoWord, true
	case Killall:
		return killallWord, true
	case RemoteForward:
		return utils.FirstWord(strings.TrimPrefix(search, remoteToken)), true
	default:
		return "", false
	}
}

func (m Mode) kind() Kind {
	switch m {
	case Sudo:
		return KindSudo
	case OpenProject:
		return KindOpenProject
	default:
		return KindNormal
	}
}

// RemoteHost describes the ssh target RemoteForward commands run on.
type RemoteHost struct {
	User     string
	Host     string
	Fallback string // used when Host does not answer a single ping
	Flags    string
}

// Preamble renders the ssh prefix of a remote command.
func (r RemoteHost) Preamble() string {
	var b strings.Builder
	b.WriteString("ssh ")
	if r.Flags != "" {
		b.WriteString(r.Flags)
		b.WriteByte(' ')
	}
	if r.User != "" {
		b.WriteString(r.User)
		b.WriteByte('@')
	}

	if r.Fallback == "" {
		b.WriteString(r.Host)
	} else {
		fmt.Fprintf(&b, `$(ping %s -c 1 -q -W 1 | grep -q "1 received" && echo "%s" || echo "%s")`,
			r.Host, r.Host, r.Fallback)
	}
	b.WriteByte(' ')
	return b.String()
}
