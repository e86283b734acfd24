// Copyright 2025 The CmdFinder Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the cmdfinder launcher.

cmdfinder is a keyboard driven command launcher. Typing searches the programs
on PATH; a few prefixes switch the search into a dedicated mode:

	sudo <cmd>            run <cmd> as root, asking for the password
	killall <name>        kill processes by name
	open-project <name>   open a directory under the projects dir
	!<cmd>                run <cmd> on the remote host over ssh -X

Candidates are ranked by how often and how recently they were launched. The
usage statistics live in a small binary file in the data directory.

# Usage

Open the launcher in the terminal:

	cmdfinder

Run the line based debug loop:

	cmdfinder -c

Serve the launcher over MessagePack on stdin/stdout, for a graphical front end:

	cmdfinder -ipc

# Configuration

The TOML config is created with defaults on first start:

	[search]
	pinned = ["open-project", "firefox"]
	limit = 24

	[launch]
	shell = "sh"
	wrapper = "i3-msg exec"
	open_project = "code {path}"
	notify = true

	[remote]
	user = "me"
	host = "workstation"
	fallback_host = "workstation.vpn"

In IPC mode the config is reloaded when the file changes.

# Command Line Flags

	-config string
	    Path to a custom config file
	-d  Enable debug logging
	-c  Run the line based CLI
	-ipc
	    Serve MessagePack requests on stdin/stdout
	-limit int
	    Number of candidates shown (default from config)

Only one launcher runs at a time; a second instance exits right away.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/bastiangx/cmdfinder/internal/cli"
	"github.com/bastiangx/cmdfinder/internal/logger"
	"github.com/bastiangx/cmdfinder/internal/tui"
	"github.com/bastiangx/cmdfinder/internal/utils"
	"github.com/bastiangx/cmdfinder/pkg/config"
	"github.com/bastiangx/cmdfinder/pkg/frequency"
	"github.com/bastiangx/cmdfinder/pkg/interpret"
	"github.com/bastiangx/cmdfinder/pkg/launch"
	"github.com/bastiangx/cmdfinder/pkg/server"
	"github.com/bastiangx/cmdfinder/pkg/sources"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"golang.org/x/term"
)

const (
	Version  = "0.3.0"
	gh       = "https://github.com/bastiangx/cmdfinder"
	lockName = "cmdfinder.lock"
)

// sigHandler cancels ctx on SIGINT or SIGTERM.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
	}()
}

// options are the parsed command line flags.
type options struct {
	configFile string
	debug      bool
	cli        bool
	ipc        bool
	limit      int
}

// frontEnd is the interface the launcher is driven through.
type frontEnd int

const (
	frontTUI frontEnd = iota
	frontCLI
	frontIPC
)

// pickFrontEnd honours -c, then -ipc, and otherwise serves IPC when stdin is not a terminal.
func pickFrontEnd(opts options, stdinIsTerminal bool) frontEnd {
	switch {
	case opts.cli:
		return frontCLI
	case opts.ipc || !stdinIsTerminal:
		return frontIPC
	default:
		return frontTUI
	}
}

// main parses flags and leaves the flow to run.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	ipcMode := flag.Bool("ipc", false, "Serve MessagePack requests on stdin/stdout")
	limit := flag.Int("limit", 0, "Number of candidates shown (0 uses the config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	// run must return, not exit, for its deferred cleanup to happen
	err := run(options{
		configFile: *configFile,
		debug:      *debugMode,
		cli:        *cliMode,
		ipc:        *ipcMode,
		limit:      *limit,
	})
	if err != nil {
		log.Fatal(err)
	}
}

// acquireLock takes the single-instance lock at path.
// ok is false when another launcher holds it.
func acquireLock(path string) (unlock func() error, ok bool, err error) {
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	if !locked {
		return nil, false, nil
	}
	return lock.Unlock, true, nil
}

// run wires the packages together and drives the chosen front end until it ends.
func run(opts options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		return fmt.Errorf("failed to initialize path resolver: %w", err)
	}
	if opts.debug {
		showStartupInfo(pathResolver)
	}

	cfg, configPath, err := config.LoadConfigWithPriority(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))
	if opts.limit > 0 {
		cfg.Search.Limit = opts.limit
	}

	lockPath, err := pathResolver.GetDataPath(lockName)
	if err != nil {
		return fmt.Errorf("failed to resolve lock file: %w", err)
	}
	unlock, locked, err := acquireLock(lockPath)
	if err != nil {
		return err
	}
	if !locked {
		fmt.Fprintln(os.Stderr, "cmdfinder is already open")
		return nil
	}
	defer unlock()

	frequencyPath, err := cfg.FrequencyPath(pathResolver)
	if err != nil {
		return fmt.Errorf("failed to resolve frequency file: %w", err)
	}
	store, err := frequency.Load(frequencyPath)
	if err != nil {
		return fmt.Errorf("failed to load usage statistics: %w", err)
	}
	log.Debugf("Loaded %d usage entries from %s", store.Len(), frequencyPath)

	catalog := sources.NewCatalog(os.Getenv("PATH"), cfg.ProjectsDir())
	if err := catalog.Watch(ctx); err != nil {
		log.Warnf("Not watching PATH for changes: %v", err)
	}
	defer catalog.Close()

	env := &interpret.Env{
		Sources: catalog,
		Usage:   store,
		Pinned:  cfg.Search.Pinned,
		Remote: interpret.RemoteHost{
			User:     cfg.Remote.User,
			Host:     cfg.Remote.Host,
			Fallback: cfg.Remote.FallbackHost,
			Flags:    cfg.Remote.SSHFlags,
		},
	}

	launcher, err := launch.New(launch.Options{
		Shell:         cfg.Launch.Shell,
		Wrapper:       cfg.Launch.Wrapper,
		OpenProject:   cfg.Launch.OpenProject,
		ProjectsDir:   cfg.ProjectsDir(),
		FrequencyPath: frequencyPath,
		Notify:        cfg.Launch.Notify,
	}, store, nil)
	if err != nil {
		return fmt.Errorf("invalid launch settings: %w", err)
	}

	switch pickFrontEnd(opts, term.IsTerminal(int(os.Stdin.Fd()))) {
	case frontCLI:
		log.Debug("Input info:", "limit", cfg.Search.Limit)
		handler := cli.NewInputHandler(interpret.New(env), cfg.Search.Limit, os.Stdin, os.Stdout)
		if err := handler.Start(); err != nil {
			return fmt.Errorf("CLI error: %w", err)
		}

	case frontIPC:
		log.Debug("spawning IPC")
		srv := server.NewServer(env, launcher, cfg.Search.Limit)
		if err := srv.WatchConfig(ctx, configPath); err != nil {
			log.Warnf("Not watching config for changes: %v", err)
		}
		// Start blocks on stdin, so a signal has to end it from here
		done := make(chan error, 1)
		go func() { done <- srv.Start(ctx) }()
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("server error: %w", err)
			}
		case <-ctx.Done():
		}

	default:
		model := tui.NewModel(tui.Options{
			Interpreter: interpret.New(env),
			Launcher:    launcher,
			Limit:       cfg.Search.Limit,
		})
		if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("TUI error: %w", err)
		}
	}
	return nil
}

// printVersion shows the version banner.
func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ cmdfinder ] Finds and launches commands")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo logs the resolved directories and environment.
func showStartupInfo(pr *utils.PathResolver) {
	info := pr.GetRuntimeInfo()
	log.Debugf("cmdfinder %s, pid %d", Version, os.Getpid())
	for _, key := range slices.Sorted(maps.Keys(info)) {
		log.Debug("runtime", key, info[key])
	}
}
