package sources

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/bastiangx/cmdfinder/internal/logger"
	"github.com/bastiangx/cmdfinder/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Catalog caches the program and project corpora and rebuilds them after their directories change.
// It is safe for concurrent use.
type Catalog struct {
	pathEnv     string
	projectsDir string
	logger      *log.Logger

	mu       sync.Mutex
	programs *suggest.Corpus
	projects *suggest.Corpus

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewCatalog creates a catalog over the given search path and projects directory.
// Nothing is read until a corpus is first asked for.
func NewCatalog(pathEnv, projectsDir string) *Catalog {
	return &Catalog{
		pathEnv:     pathEnv,
		projectsDir: projectsDir,
		logger:      logger.New("catalog"),
	}
}

// Programs returns the program corpus.
func (c *Catalog) Programs() *suggest.Corpus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = suggest.NewCorpus(ListPrograms(c.pathEnv))
		c.logger.Debugf("Indexed %d programs", c.programs.Len())
	}
	return c.programs
}

// Projects returns the project corpus.
func (c *Catalog) Projects() *suggest.Corpus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projects == nil {
		c.projects = suggest.NewCorpus(ListProjects(c.projectsDir))
		c.logger.Debugf("Indexed %d projects", c.projects.Len())
	}
	return c.projects
}

// Invalidate drops both corpora so the next request reads the directories again.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.programs = nil
	c.projects = nil
	c.mu.Unlock()
}

// Watch invalidates the matching corpus whenever a watched directory changes, until ctx is done or Close is called.
// Directories that cannot be watched are skipped.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	watched := 0
	for _, dir := range filepath.SplitList(c.pathEnv) {
		if dir == "" {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			c.logger.Debugf("Not watching %s: %v", dir, err)
			continue
		}
		watched++
	}
	if c.projectsDir != "" {
		if err := watcher.Add(c.projectsDir); err != nil {
			c.logger.Debugf("Not watching %s: %v", c.projectsDir, err)
		} else {
			watched++
		}
	}
	c.logger.Debugf("Watching %d directories", watched)

	ctx, cancel := context.WithCancel(ctx)
	c.watcher = watcher
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.processEvents(ctx)
	return nil
}

func (c *Catalog) processEvents(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			c.handleChange(filepath.Dir(event.Name))

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warnf("Watcher error: %v", err)
		}
	}
}

func (c *Catalog) handleChange(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dir == filepath.Clean(c.projectsDir) {
		c.projects = nil
		c.logger.Debugf("Projects changed in %s", dir)
		return
	}
	c.programs = nil
	c.logger.Debugf("Programs changed in %s", dir)
}

// Close stops watching. It is a no-op when Watch was never called.
func (c *Catalog) Close() error {
	if c.watcher == nil {
		return nil
	}
	c.cancel()
	err := c.watcher.Close()
	<-c.done
	return err
}
