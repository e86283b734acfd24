package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// SaveTOMLFile saves a struct to a TOML file
func SaveTOMLFile(data any, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	encoder := toml.NewEncoder(file)
	return encoder.Encode(data)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}

	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			return absPath
		}
	}
	return path
}

// testWriteAccess tests if a directory can be written to
func testWriteAccess(dirPath string) bool {
	testFile := filepath.Join(dirPath, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		log.Debugf("Cannot write to directory %s: %v", dirPath, err)
		return false
	}
	file.Close()
	os.Remove(testFile)
	return true
}

// GetExecutableDir returns the directory of the current executable, symlinks resolved.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return filepath.Dir(execPath), nil
}
