package interpret

import (
	"slices"
	"testing"
	"time"

	"github.com/bastiangx/cmdfinder/pkg/suggest"
)

type staticSources struct {
	programs *suggest.Corpus
	projects *suggest.Corpus
}

func (s staticSources) Programs() *suggest.Corpus { return s.programs }
func (s staticSources) Projects() *suggest.Corpus { return s.projects }

func newTestEnv(programs, projects []string) *Env {
	return &Env{
		Sources: staticSources{
			programs: suggest.NewCorpus(programs),
			projects: suggest.NewCorpus(projects),
		},
		Clock:  func() time.Time { return time.Unix(1_700_000_000, 0) },
		Pinned: []string{"open-project", "gitkraken", "okular"},
		Remote: RemoteHost{User: "me", Host: "bansheestation", Fallback: "bansheestation-alt"},
	}
}

var (
	testPrograms = []string{"vim", "vimdiff", "htop", "top", "sudoedit", "firefox", "killall"}
	testProjects = []string{"bansheefinder", "bansheestation", "cmdfinder"}
)

func TestModeShouldCreate(t *testing.T) {
	tests := []struct {
		mode   Mode
		search string
		want   bool
	}{
		{Default, "", true},
		{Default, "v", false},
		{Sudo, "sudo", false},
		{Sudo, "sudo ", true},
		{Sudo, "sudoedit", true},
		{Sudo, "sud", false},
		{Killall, "killall", false},
		{Killall, "killall f", true},
		{OpenProject, "open-project", false},
		{OpenProject, "open-project b", true},
		{RemoteForward, "!", true},
		{RemoteForward, "!htop", true},
		{RemoteForward, "a!", false},
		{RemoteForward, "", false},
	}

	for _, tt := range tests {
		if got := tt.mode.ShouldCreate(tt.search); got != tt.want {
			t.Errorf("%s.ShouldCreate(%q) = %v, want %v", tt.mode, tt.search, got, tt.want)
		}
	}
}

func TestSudoResolution(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("sudo vim")

	if it.ActiveMode() != Sudo {
		t.Fatalf("ActiveMode() = %s, want sudo", it.ActiveMode())
	}
	if got := it.Child().search; got != "vim" {
		t.Errorf("child search = %q, want %q", got, "vim")
	}

	res := it.Command()
	want := Resolution{Line: "sudo vim", Base: "sudo", Kind: KindSudo, Target: "vim"}
	if res != want {
		t.Errorf("Command() = %+v, want %+v", res, want)
	}
}

func TestOpenProjectAutocomplete(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("open-project bans")

	comp, ok := it.Completion()
	if !ok {
		t.Fatal("no completion computed")
	}
	if comp.CommonStart != "banshee" {
		t.Errorf("CommonStart = %q, want %q", comp.CommonStart, "banshee")
	}

	sel := it.Autocomplete()
	if sel.Text != "open-project banshee" {
		t.Errorf("Autocomplete().Text = %q", sel.Text)
	}
	if it.ActiveList() != Autocomplete {
		t.Errorf("ActiveList() = %s, want autocomplete", it.ActiveList())
	}

	// autocomplete selected the head; one step forward is the second project
	it.SelectUp()
	res := it.Command()
	want := Resolution{Line: "open-project bansheestation", Base: "open-project", Kind: KindOpenProject, Target: "bansheestation"}
	if res != want {
		t.Errorf("Command() = %+v, want %+v", res, want)
	}
}

func TestLeavingPassthrough(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("sudo ")
	if it.ActiveMode() != Sudo {
		t.Fatalf("ActiveMode() = %s, want sudo", it.ActiveMode())
	}

	it.UpdateSearch("sudo")
	it.UpdateSearch("sud")
	if it.Child() != nil {
		t.Fatal("sudo passthrough still active")
	}
	if it.Search() != "sud" {
		t.Errorf("Search() = %q, want %q", it.Search(), "sud")
	}
	if got := it.List(); !slices.Equal(got, []string{"sudoedit"}) {
		t.Errorf("List() = %v, want [sudoedit]", got)
	}
}

func TestPassthroughIsNotResumed(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("killall fire")
	it.SelectUp()
	if _, ok := it.Selected(); !ok {
		t.Fatal("expected a selection")
	}

	it.UpdateSearch("killal")
	it.UpdateSearch("killall ")
	if _, ok := it.Selected(); ok {
		t.Error("selection survived leaving the mode")
	}
	if it.Search() != "" {
		t.Errorf("Search() = %q, want empty", it.Search())
	}
}

func TestSelectRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		search string
	}{
		{"two candidates", "top"},
		{"several candidates", "i"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := New(newTestEnv(testPrograms, testProjects))
			it.UpdateSearch(tt.search)
			if n := len(it.List()); n < 2 {
				t.Fatalf("need at least two candidates, got %d", n)
			}

			it.SelectUp()
			start, _ := it.Selected()

			it.SelectUp()
			it.SelectDown()
			if got, _ := it.Selected(); got != start {
				t.Errorf("up then down: selected %d, want %d", got, start)
			}

			it.SelectDown()
			it.SelectUp()
			if got, _ := it.Selected(); got != start {
				t.Errorf("down then up: selected %d, want %d", got, start)
			}
		})
	}
}

func TestSelectWraps(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("top")
	// fuzzy list: top, htop

	steps := []struct {
		name  string
		move  func() Selection
		index int
		text  string
	}{
		{"first up selects head", it.SelectUp, 0, "top"},
		{"up advances", it.SelectUp, 1, "htop"},
		{"up wraps to head", it.SelectUp, 0, "top"},
		{"down wraps to tail", it.SelectDown, 1, "htop"},
		{"down goes back", it.SelectDown, 0, "top"},
	}

	for _, step := range steps {
		sel := step.move()
		idx, ok := it.Selected()
		if !ok || idx != step.index {
			t.Errorf("%s: Selected() = %d, %v; want %d", step.name, idx, ok, step.index)
		}
		if sel.Text != step.text || it.Search() != step.text {
			t.Errorf("%s: text %q, search %q; want %q", step.name, sel.Text, it.Search(), step.text)
		}
	}

	// the list is kept while previewing
	if got := it.List(); !slices.Equal(got, []string{"top", "htop"}) {
		t.Errorf("List() = %v", got)
	}
}

func TestSelectOnEmptyList(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("zzz")

	if sel := it.SelectUp(); sel != (Selection{}) {
		t.Errorf("SelectUp() = %+v, want empty", sel)
	}
	if _, ok := it.Selected(); ok {
		t.Error("selection on empty list")
	}
	if it.Search() != "zzz" {
		t.Errorf("Search() = %q, want unchanged", it.Search())
	}
}

func TestSelectBeforeAnySearch(t *testing.T) {
	env := newTestEnv(testPrograms, testProjects)
	env.Pinned = nil
	it := New(env)

	if sel := it.SelectDown(); sel != (Selection{}) {
		t.Errorf("SelectDown() = %+v, want empty", sel)
	}
	if it.List() != nil {
		t.Errorf("List() = %v, want nil", it.List())
	}
}

func TestPinnedList(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("")

	if got := it.List(); !slices.Equal(got, []string{"open-project", "gitkraken", "okular"}) {
		t.Fatalf("List() = %v, want pinned list", got)
	}

	it.SelectDown()
	sel := it.SelectDown()
	if sel.Item != "gitkraken" {
		t.Errorf("SelectDown().Item = %q, want gitkraken", sel.Item)
	}
	if it.Search() != "" {
		t.Errorf("Search() = %q, want empty while browsing pinned", it.Search())
	}

	res := it.Command()
	want := Resolution{Line: "gitkraken", Base: "gitkraken", Kind: KindNormal, Target: "gitkraken"}
	if res != want {
		t.Errorf("Command() = %+v, want %+v", res, want)
	}
}

func TestAutocompleteLocal(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("vi")

	sel := it.Autocomplete()
	if sel.Text != "vim" {
		t.Errorf("Autocomplete().Text = %q, want vim", sel.Text)
	}
	if idx, ok := it.Selected(); !ok || idx != 0 {
		t.Errorf("Selected() = %d, %v; want 0", idx, ok)
	}
	if got := it.List(); !slices.Equal(got, []string{"vim", "vimdiff"}) {
		t.Errorf("List() = %v", got)
	}
}

func TestAutocompleteWithoutMatches(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("xyz")

	sel := it.Autocomplete()
	if sel.Text != "" || it.Search() != "" {
		t.Errorf("text %q, search %q; want both cleared", sel.Text, it.Search())
	}
}

func TestRemoteForward(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("!ht")

	if it.ActiveMode() != RemoteForward {
		t.Fatalf("ActiveMode() = %s, want remote-forward", it.ActiveMode())
	}
	if it.Search() != "ht" {
		t.Errorf("Search() = %q, want ht", it.Search())
	}

	sel := it.Autocomplete()
	if sel.Text != "!htop" || sel.Item != "htop" {
		t.Errorf("Autocomplete() = %+v", sel)
	}
	if it.Text() != "!htop" {
		t.Errorf("Text() = %q, want !htop", it.Text())
	}

	res := it.Command()
	wantLine := `ssh me@$(ping bansheestation -c 1 -q -W 1 | grep -q "1 received" && echo "bansheestation" || echo "bansheestation-alt") htop`
	if res.Line != wantLine {
		t.Errorf("Line = %q, want %q", res.Line, wantLine)
	}
	if res.Base != "htop" || res.Kind != KindNormal {
		t.Errorf("Base = %q, Kind = %s", res.Base, res.Kind)
	}
}

func TestComposedPreview(t *testing.T) {
	remoteLine := `ssh me@$(ping bansheestation -c 1 -q -W 1 | grep -q "1 received" && echo "bansheestation" || echo "bansheestation-alt") htop`

	tests := []struct {
		name        string
		search      string
		wantText    string
		wantPreview string
		wantNext    string // preview after one SelectUp
	}{
		{"remote forward", "!ht", "!htop", remoteLine, remoteLine},
		{"sudo", "sudo vi", "sudo vim", "sudo vim", "sudo vimdiff"},
		{"local", "fire", "firefox", "firefox", "firefox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := New(newTestEnv(testPrograms, testProjects))
			it.UpdateSearch(tt.search)

			sel := it.Autocomplete()
			if sel.Text != tt.wantText || sel.Preview != tt.wantPreview {
				t.Errorf("Autocomplete() = %+v, want text %q preview %q", sel, tt.wantText, tt.wantPreview)
			}

			if sel = it.SelectUp(); sel.Preview != tt.wantNext {
				t.Errorf("SelectUp().Preview = %q, want %q", sel.Preview, tt.wantNext)
			}
		})
	}
}

func TestRemotePreambleWithoutFallback(t *testing.T) {
	r := RemoteHost{User: "me", Host: "box", Flags: "-X"}
	if got := r.Preamble(); got != "ssh -X me@box " {
		t.Errorf("Preamble() = %q", got)
	}
}

func TestKillallCommand(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("killall firefox")

	want := Resolution{Line: "killall firefox", Base: "killall", Kind: KindNormal, Target: "firefox"}
	if res := it.Command(); res != want {
		t.Errorf("Command() = %+v, want %+v", res, want)
	}
}

func TestDefaultCommand(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("vim notes.txt")

	want := Resolution{Line: "vim notes.txt", Base: "vim", Kind: KindNormal, Target: "vim notes.txt"}
	if res := it.Command(); res != want {
		t.Errorf("Command() = %+v, want %+v", res, want)
	}
}

func TestComposedTextRoundTrips(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("sudo vi")

	sel := it.SelectUp()
	if sel.Text != "sudo vim" {
		t.Fatalf("SelectUp().Text = %q, want %q", sel.Text, "sudo vim")
	}

	it.UpdateSearch(sel.Text)
	if it.ActiveMode() != Sudo || it.Search() != "vim" {
		t.Errorf("after feeding back: mode %s, search %q", it.ActiveMode(), it.Search())
	}
}

func TestOpenProjectRanksByLength(t *testing.T) {
	env := newTestEnv(testPrograms, []string{"longer-project", "short"})
	env.Usage = usageOf("longer-project")
	it := New(env)
	it.UpdateSearch("open-project ")

	if got := it.List(); !slices.Equal(got, []string{"short", "longer-project"}) {
		t.Errorf("List() = %v", got)
	}
}

func TestReset(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	it.UpdateSearch("sudo vim")
	it.Reset()

	if it.Child() != nil || it.Search() != "" || it.ActiveMode() != Default {
		t.Errorf("Reset left mode %s, search %q", it.ActiveMode(), it.Search())
	}
}

// usageOf records every name with the same score.
type usageOf string

func (u usageOf) Has(name string) bool                 { return name == string(u) }
func (u usageOf) Compare(_, _ string, _ time.Time) int { return 0 }

// recordingFinder returns fixed lists and remembers the queries it was asked.
type recordingFinder struct {
	queries []string
}

func (f *recordingFinder) FuzzyFind(_ *suggest.Corpus, query string) []string {
	f.queries = append(f.queries, query)
	return []string{"zsh", "bash"}
}

func (f *recordingFinder) Autocomplete(_ *suggest.Corpus, query string) suggest.Completion {
	return suggest.Completion{CommonStart: query, List: []string{query}}
}

func TestInterpreterSearchesThroughFinder(t *testing.T) {
	it := New(newTestEnv(testPrograms, testProjects))
	finder := &recordingFinder{}
	it.ranker = finder

	it.UpdateSearch("sh")

	if !slices.Equal(finder.queries, []string{"sh"}) {
		t.Errorf("queries = %v, want [sh]", finder.queries)
	}
	if got := it.List(); !slices.Equal(got, []string{"zsh", "bash"}) {
		t.Errorf("List() = %v, want the finder's order", got)
	}
}
