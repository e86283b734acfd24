package frequency

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/renameio/v2"
)

// Load reads the store saved at path.
// A missing file is an empty store; any other failure is returned.
func Load(path string) (*Store, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("No frequency file at %s, starting empty", path)
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open frequency file %s: %w", path, err)
	}
	defer file.Close()

	s, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequency file %s: %w", path, err)
	}

	log.Debugf("Loaded %d frequency entries from %s (max count %d)", s.Len(), path, s.Max())
	return s, nil
}

// Save writes s to path, replacing the previous file atomically.
// Missing parent directories are created.
func Save(path string, s *Store) error {
	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create frequency directory: %w", err)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save frequency file %s: %w", path, err)
	}
	return nil
}
