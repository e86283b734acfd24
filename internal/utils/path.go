package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// AppName names the config and data directories.
const AppName = "cmdfinder"

// PathResolver locates the config and data directories of the launcher.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
	dataDir       string
}

// NewPathResolver creates a resolver for the current user.
func NewPathResolver() (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     getConfigDir(homeDir),
		dataDir:       getDataDir(homeDir),
	}

	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s, dataDir=%s",
		execDir, pr.configDir, pr.dataDir)

	return pr, nil
}

// getConfigDir returns the platform config directory.
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	}
}

// getDataDir returns the platform data directory, where usage statistics and the lock live.
func getDataDir(homeDir string) string {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Local", AppName)
	default:
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			return filepath.Join(dataHome, AppName)
		}
		return filepath.Join(homeDir, ".local", "share", AppName)
	}
}

// GetConfigPath returns the full path for a config file.
// It falls back to other writable locations when the config dir is read-only.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	return pr.writablePath(pr.configDir, filename), nil
}

// GetDataPath returns the full path for a data file, with the same fallbacks as GetConfigPath.
func (pr *PathResolver) GetDataPath(filename string) (string, error) {
	return pr.writablePath(pr.dataDir, filename), nil
}

func (pr *PathResolver) writablePath(preferred, filename string) string {
	if pr.ensureDir(preferred) {
		return filepath.Join(preferred, filename)
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+AppName),
		filepath.Join(os.TempDir(), AppName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if pr.ensureDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback location: %s", path)
			return path
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary file: %s", tempPath)
	return tempPath
}

// ensureDir creates dir if needed and reports whether it is writable.
func (pr *PathResolver) ensureDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return false
	}
	return testWriteAccess(dir)
}

// ExpandHome resolves a leading ~ against the user's home directory.
func (pr *PathResolver) ExpandHome(path string) string {
	return expandHome(path, pr.homeDir)
}

// ExpandHome resolves a leading ~ against the current user's home directory.
func ExpandHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return expandHome(path, home)
}

func expandHome(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	default:
		return path
	}
}

// GetRuntimeInfo returns debug information about the current runtime environment.
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_dir": pr.executableDir,
		"current_dir":    cwd,
		"home_dir":       pr.homeDir,
		"config_dir":     pr.configDir,
		"data_dir":       pr.dataDir,
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
	}

	envVars := []string{"HOME", "XDG_CONFIG_HOME", "XDG_DATA_HOME", "SHELL", "PATH"}
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}

	return info
}
