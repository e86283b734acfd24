package sources

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListPrograms(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	touch(t, first, "vim", "htop")
	touch(t, second, "vim", "top")
	if err := os.Mkdir(filepath.Join(first, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	pathEnv := strings.Join([]string{first, filepath.Join(first, "missing"), "", second}, string(os.PathListSeparator))
	got := ListPrograms(pathEnv)

	want := []string{"htop", "vim", "top", "vim"}
	if !slices.Equal(got, want) {
		t.Errorf("ListPrograms() = %v, want %v", got, want)
	}
}

func TestListProgramsEmptyPath(t *testing.T) {
	if got := ListPrograms(""); len(got) != 0 {
		t.Errorf("ListPrograms(\"\") = %v", got)
	}
}

func TestListProjects(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bansheefinder", "bansheestation"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	if got := ListProjects(dir); !slices.Equal(got, []string{"bansheefinder", "bansheestation"}) {
		t.Errorf("ListProjects() = %v", got)
	}
	if got := ListProjects(filepath.Join(dir, "missing")); got != nil {
		t.Errorf("ListProjects(missing) = %v, want nil", got)
	}
}

func TestCatalogCachesUntilInvalidated(t *testing.T) {
	bin := t.TempDir()
	touch(t, bin, "vim")
	c := NewCatalog(bin, "")

	first := c.Programs()
	if first.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", first.Len())
	}

	touch(t, bin, "htop")
	if c.Programs() != first {
		t.Error("corpus rebuilt without invalidation")
	}

	c.Invalidate()
	if got := c.Programs().Len(); got != 2 {
		t.Errorf("Len() after Invalidate = %d, want 2", got)
	}
	if c.Projects().Len() != 0 {
		t.Error("projects without a directory should be empty")
	}
}

func TestCatalogWatch(t *testing.T) {
	bin, projects := t.TempDir(), t.TempDir()
	touch(t, bin, "vim")
	c := NewCatalog(bin, projects)

	if err := c.Watch(context.Background()); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer c.Close()

	if c.Projects().Len() != 0 {
		t.Fatal("expected no projects yet")
	}
	if err := os.Mkdir(filepath.Join(projects, "cmdfinder"), 0o755); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for c.Projects().Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("projects corpus was not refreshed")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestCatalogCloseWithoutWatch(t *testing.T) {
	if err := NewCatalog("", "").Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
