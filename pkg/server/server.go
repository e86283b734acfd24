package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bastiangx/cmdfinder/internal/logger"
	"github.com/bastiangx/cmdfinder/internal/utils"
	"github.com/bastiangx/cmdfinder/pkg/config"
	"github.com/bastiangx/cmdfinder/pkg/interpret"
	"github.com/bastiangx/cmdfinder/pkg/launch"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Launcher runs resolved commands.
type Launcher interface {
	Launch(ctx context.Context, res interpret.Resolution, password string) error
}

// Server handles launcher IPC over a pair of streams.
type Server struct {
	env      *interpret.Env
	interp   *interpret.Interpreter
	launcher Launcher
	limit    int
	session  string

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	logger  *log.Logger

	// mu serializes request handling against config reloads
	mu sync.Mutex
}

// NewServer creates a server on stdin and stdout.
func NewServer(env *interpret.Env, launcher Launcher, limit int) *Server {
	return NewServerWithIO(os.Stdin, os.Stdout, env, launcher, limit)
}

// NewServerWithIO creates a server on the given streams.
func NewServerWithIO(r io.Reader, w io.Writer, env *interpret.Env, launcher Launcher, limit int) *Server {
	if env == nil {
		env = &interpret.Env{}
	}
	return &Server{
		env:      env,
		interp:   interpret.New(env),
		launcher: launcher,
		limit:    limit,
		session:  uuid.NewString(),
		decoder:  msgpack.NewDecoder(r),
		encoder:  msgpack.NewEncoder(w),
		logger:   logger.New("ipc"),
	}
}

// Session returns the id sent in the ready message.
func (s *Server) Session() string {
	return s.session
}

// Start sends the ready message and serves requests until the input ends or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debugf("Starting IPC server, session %s", s.session)

	if err := s.send(StatusResponse{Status: "ready", Session: s.session}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, stopping")
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			return fmt.Errorf("failed to decode request: %w", err)
		}

		s.mu.Lock()
		s.handleRequest(ctx, req)
		s.mu.Unlock()
	}
}

// handleRequest dispatches one request by op.
func (s *Server) handleRequest(ctx context.Context, req Request) {
	start := time.Now()

	switch req.Op {
	case "search":
		s.interp.UpdateSearch(req.Text)
		s.sendState(req, interpret.Selection{Text: s.interp.Text()}, start)
	case "autocomplete":
		s.sendState(req, s.interp.Autocomplete(), start)
	case "up":
		s.sendState(req, s.interp.SelectUp(), start)
	case "down":
		s.sendState(req, s.interp.SelectDown(), start)
	case "reset":
		s.interp.Reset()
		s.sendState(req, interpret.Selection{}, start)
	case "resolve":
		s.sendResolution(req)
	case "launch":
		s.handleLaunch(ctx, req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %s", req.Op), 400)
	}
}

func (s *Server) sendState(req Request, sel interpret.Selection, start time.Time) {
	limit := req.Limit
	if limit < 1 {
		limit = s.limit
	}

	list := s.interp.List()
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	ranks := utils.CreateRankList(len(list))
	candidates := make([]Candidate, len(list))
	for i, name := range list {
		candidates[i] = Candidate{Name: name, Rank: ranks[i]}
	}

	selected := -1
	if idx, ok := s.interp.Selected(); ok {
		selected = idx
	}

	s.send(StateResponse{
		ID:         req.ID,
		Text:       sel.Text,
		Preview:    sel.Preview,
		Item:       sel.Item,
		Mode:       s.interp.ActiveMode().String(),
		ListMode:   s.interp.ActiveList().String(),
		Candidates: candidates,
		Count:      len(candidates),
		Selected:   selected,
		TimeTaken:  time.Since(start).Microseconds(),
	})
}

func (s *Server) sendResolution(req Request) {
	res := s.interp.Command()
	s.send(ResolveResponse{
		ID:     req.ID,
		Line:   res.Line,
		Base:   res.Base,
		Kind:   res.Kind.String(),
		Target: res.Target,
	})
}

func (s *Server) handleLaunch(ctx context.Context, req Request) {
	if s.launcher == nil {
		s.sendError(req.ID, "Launching is disabled", 501)
		return
	}

	res := s.interp.Command()
	if res.Kind == interpret.KindSudo && req.Password == "" {
		s.sendError(req.ID, "Password required", 401)
		return
	}

	err := s.launcher.Launch(ctx, res, req.Password)
	switch {
	case err == nil:
		s.send(StatusResponse{ID: req.ID, Status: "launched"})
	case errors.Is(err, launch.ErrEmpty):
		s.sendError(req.ID, "Nothing to launch", 400)
	case errors.Is(err, launch.ErrFailed):
		s.sendError(req.ID, err.Error(), 500)
	default:
		// ran, but usage was not saved
		s.send(StatusResponse{ID: req.ID, Status: "launched", Error: err.Error()})
	}
}

// send encodes one response.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// ApplyConfig updates the settings that can change without a restart.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.limit = cfg.Search.Limit
	s.env.Pinned = cfg.Search.Pinned
	s.env.Remote = interpret.RemoteHost{
		User:     cfg.Remote.User,
		Host:     cfg.Remote.Host,
		Fallback: cfg.Remote.FallbackHost,
		Flags:    cfg.Remote.SSHFlags,
	}
	s.logger.Debugf("Config applied: limit=%d, pinned=%d", s.limit, len(s.env.Pinned))
}

// WatchConfig reloads the config file whenever it is written, until ctx is done.
func (s *Server) WatchConfig(ctx context.Context, configPath string) error {
	if configPath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// editors replace files on save, so watch the directory
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(configPath) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					s.logger.Warnf("Config reload failed: %v", err)
					continue
				}
				s.ApplyConfig(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warnf("Config watcher error: %v", err)
			}
		}
	}()
	return nil
}
