package utils

import (
	"slices"
	"testing"
)

func TestFirstWord(t *testing.T) {
	tests := []struct{ in, want string }{
		{"vim notes.txt", "vim"},
		{"htop", "htop"},
		{"", ""},
		{" leading", ""},
	}
	for _, tt := range tests {
		if got := FirstWord(tt.in); got != tt.want {
			t.Errorf("FirstWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDropRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"sudo vim", 5, "vim"},
		{"!htop", 1, "htop"},
		{"ab", 5, ""},
		{"héllo", 2, "llo"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := DropRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("DropRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestHasPrefixAndMore(t *testing.T) {
	tests := []struct {
		s, prefix string
		want      bool
	}{
		{"sudo", "sudo", false},
		{"sudo ", "sudo", true},
		{"sud", "sudo", false},
		{"xsudo ", "sudo", false},
	}
	for _, tt := range tests {
		if got := HasPrefixAndMore(tt.s, tt.prefix); got != tt.want {
			t.Errorf("HasPrefixAndMore(%q, %q) = %v, want %v", tt.s, tt.prefix, got, tt.want)
		}
	}
}

func TestDuplicateFilter(t *testing.T) {
	f := NewDuplicateFilter()
	var kept []string
	for _, name := range []string{"ls", "vim", "ls", "cat", "vim"} {
		if f.ShouldInclude(name) {
			kept = append(kept, name)
		}
	}
	if want := []string{"ls", "vim", "cat"}; !slices.Equal(kept, want) {
		t.Errorf("kept %v, want %v", kept, want)
	}
}

func TestCreateRankList(t *testing.T) {
	if got := CreateRankList(3); !slices.Equal(got, []uint16{1, 2, 3}) {
		t.Errorf("CreateRankList(3) = %v", got)
	}
	if got := CreateRankList(0); len(got) != 0 {
		t.Errorf("CreateRankList(0) = %v", got)
	}
	big := CreateRankList(70000)
	if big[65534] != 65535 || big[69999] != 0xFFFF {
		t.Errorf("ranks do not saturate: %d %d", big[65534], big[69999])
	}
}
