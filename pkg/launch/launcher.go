/*
Package launch runs resolved commands and records their use.

Normal commands run through the configured shell behind an optional wrapper,
`sh -c "i3-msg exec <line>"` by default. Sudo commands run under `sudo -S` with
the password written to its stdin. Project resolutions become an argv built
from the open_project template and run without a shell.
*/
package launch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/cmdfinder/internal/logger"
	"github.com/bastiangx/cmdfinder/pkg/frequency"
	"github.com/bastiangx/cmdfinder/pkg/interpret"
	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
	"github.com/google/shlex"
)

var (
	// ErrEmpty is returned when there is nothing to run.
	ErrEmpty = errors.New("empty command")

	// ErrNotSaved marks a launch whose usage could not be persisted.
	ErrNotSaved = errors.New("usage not saved")

	// ErrFailed marks a command that could not be run or exited with an error.
	ErrFailed = errors.New("launch failed")
)

// Options configures a Launcher.
type Options struct {
	Shell         string
	Wrapper       string // prepended to every shell command line
	OpenProject   string // argv template; {path} and {name} are substituted
	ProjectsDir   string
	FrequencyPath string // empty disables saving
	Notify        bool
}

// Launcher records and executes resolutions.
type Launcher struct {
	opts        Options
	wrapper     []string
	openProject []string

	store  *frequency.Store
	runner Runner
	clock  func() time.Time
	notify func(title, message string) error
	logger *log.Logger
}

// New creates a launcher. A nil runner executes real processes.
func New(opts Options, store *frequency.Store, runner Runner) (*Launcher, error) {
	if opts.Shell == "" {
		opts.Shell = "sh"
	}

	wrapper, err := shlex.Split(opts.Wrapper)
	if err != nil {
		return nil, fmt.Errorf("invalid launch wrapper %q: %w", opts.Wrapper, err)
	}
	openProject, err := shlex.Split(opts.OpenProject)
	if err != nil {
		return nil, fmt.Errorf("invalid open_project template %q: %w", opts.OpenProject, err)
	}
	if len(openProject) == 0 {
		openProject = []string{"xdg-open", "{path}"}
	}

	if store == nil {
		store = frequency.NewStore()
	}
	if runner == nil {
		runner = ExecRunner{}
	}

	return &Launcher{
		opts:        opts,
		wrapper:     wrapper,
		openProject: openProject,
		store:       store,
		runner:      runner,
		clock:       time.Now,
		notify:      notifyDesktop,
		logger:      logger.New("launch"),
	}, nil
}

// Store returns the frequency store the launcher records into.
func (l *Launcher) Store() *frequency.Store {
	return l.store
}

// Plan returns the process a resolution runs as, without running it.
func (l *Launcher) Plan(res interpret.Resolution, password string) (Command, error) {
	switch res.Kind {
	case interpret.KindOpenProject:
		name := strings.TrimSpace(res.Target)
		if name == "" {
			return Command{}, ErrEmpty
		}
		path := filepath.Join(l.opts.ProjectsDir, name)
		args := make([]string, len(l.openProject))
		for i, field := range l.openProject {
			field = strings.ReplaceAll(field, "{path}", path)
			args[i] = strings.ReplaceAll(field, "{name}", name)
		}
		return Command{Args: args}, nil

	case interpret.KindSudo:
		target := strings.TrimSpace(res.Target)
		if target == "" {
			return Command{}, ErrEmpty
		}
		return Command{
			Args:  []string{"sudo", "-S", "-p", "", l.opts.Shell, "-c", target},
			Stdin: password + "\n",
		}, nil

	default:
		line := strings.TrimSpace(res.Line)
		if line == "" {
			return Command{}, ErrEmpty
		}
		if len(l.wrapper) > 0 {
			line = strings.Join(l.wrapper, " ") + " " + line
		}
		return Command{Args: []string{l.opts.Shell, "-c", line}}, nil
	}
}

// Launch records the resolution's base command, saves the store and runs the command.
// A failed save is returned alongside the run result but does not stop the launch.
func (l *Launcher) Launch(ctx context.Context, res interpret.Resolution, password string) error {
	cmd, err := l.Plan(res, password)
	if err != nil {
		return err
	}

	var saveErr error
	if res.Base != "" {
		l.store.RecordUse(res.Base, l.clock())
		saveErr = l.save()
	}

	l.logger.Debugf("Launching %s command: %s", res.Kind, cmd)
	runErr := l.runner.Run(ctx, cmd)
	if runErr != nil {
		runErr = fmt.Errorf("%w: %q: %w", ErrFailed, res.Line, runErr)
		l.logger.Errorf("%v", runErr)
		l.sendNotification(runErr)
	}

	return errors.Join(saveErr, runErr)
}

func (l *Launcher) save() error {
	if l.opts.FrequencyPath == "" {
		return nil
	}
	if err := frequency.Save(l.opts.FrequencyPath, l.store); err != nil {
		l.logger.Warnf("Usage not saved: %v", err)
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return nil
}

func (l *Launcher) sendNotification(err error) {
	if !l.opts.Notify || l.notify == nil {
		return
	}
	if nerr := l.notify("cmdfinder", err.Error()); nerr != nil {
		l.logger.Debugf("Notification failed: %v", nerr)
	}
}

func notifyDesktop(title, message string) error {
	return beeep.Notify(title, message, "")
}
