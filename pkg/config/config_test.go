package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig() error = %v", err)
	}
	if cfg.Launch.Wrapper != "i3-msg exec" || cfg.Search.Limit != 24 {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !slices.Equal(reloaded.Search.Pinned, cfg.Search.Pinned) {
		t.Errorf("pinned = %v, want %v", reloaded.Search.Pinned, cfg.Search.Pinned)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[search]
limit = 5

[remote]
user = "me"
host = "bansheestation"
fallback_host = "bansheestation-alt"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Search.Limit != 5 {
		t.Errorf("limit = %d, want 5", cfg.Search.Limit)
	}
	if cfg.Remote.Host != "bansheestation" || cfg.Remote.FallbackHost != "bansheestation-alt" {
		t.Errorf("remote = %+v", cfg.Remote)
	}
	if cfg.Launch.Shell != "sh" {
		t.Errorf("untouched section lost its default: shell = %q", cfg.Launch.Shell)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// limit has the wrong type, so strict decoding fails
	path := writeConfig(t, `
[search]
limit = "many"
pinned = ["steam"]

[launch]
wrapper = ""
notify = false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Search.Limit != 24 {
		t.Errorf("limit = %d, want default 24", cfg.Search.Limit)
	}
	if !slices.Equal(cfg.Search.Pinned, []string{"steam"}) {
		t.Errorf("pinned = %v", cfg.Search.Pinned)
	}
	if cfg.Launch.Wrapper != "" || cfg.Launch.Notify {
		t.Errorf("launch = %+v", cfg.Launch)
	}
}

func TestLoadConfigUnparseable(t *testing.T) {
	path := writeConfig(t, "this is [not toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Launch.OpenProject != "code {path}" {
		t.Errorf("expected defaults, got %+v", cfg.Launch)
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[launch]\nshell = \"bash\"\n")

	cfg, used, err := LoadConfigWithPriority(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPriority() error = %v", err)
	}
	if used != path || cfg.Launch.Shell != "bash" {
		t.Errorf("used %q, shell %q", used, cfg.Launch.Shell)
	}
}
