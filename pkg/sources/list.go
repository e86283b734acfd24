// Package sources lists the names the launcher searches: programs on the
// executable search path and entries of the projects directory.
package sources

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// ListPrograms returns the names found in every directory of pathEnv, in path order.
// Unreadable directories are skipped. Repeated names are kept; the corpus drops them.
func ListPrograms(pathEnv string) []string {
	var names []string
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Debugf("Skipping path entry %s: %v", dir, err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			names = append(names, entry.Name())
		}
	}
	return names
}

// ListProjects returns the entries of dir. An unreadable dir yields no projects.
func ListProjects(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warnf("Failed to read projects directory %s: %v", dir, err)
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
