package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"go-pairs/internal/config"
	"go-pairs/internal/engine"
	"go-pairs/internal/fx"
	"go-pairs/internal/storage"
)

// ServerConfig holds configuration for the SSH server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.config/pairs/host_key.
	HostKeyPath string

	// DBPath is the path to the shared best-score database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:     ":23235",
		DBPath:      storage.DefaultPath,
		IdleTimeout: 30 * time.Minute,
	}
}

// Server serves the game over SSH via Wish. Every connection gets its
// own engine, clock, and effects; only the best-score store is shared,
// like a cabinet everyone walks up to.
type Server struct {
	cfg    ServerConfig
	game   config.Config
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewServer creates an SSH server hosting the given game rules.
func NewServer(game config.Config, cfg ServerConfig) (*Server, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pairs-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open score database", "error", err)
		// Continue without persistence
	}

	srv := &Server{
		cfg:    cfg,
		game:   game,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".config", "pairs", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler builds an isolated game session for each SSH connection.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	muted := false
	if s.store != nil {
		if v, ok, err := s.store.Setting("muted"); err == nil && ok {
			muted = v == "1"
		}
	}
	bell := fx.NewBell(sess, muted)
	sparks := fx.NewSparks(nil)

	deps := engine.Deps{Audio: bell, Particles: sparks}
	if s.store != nil {
		deps.Scores = s.store
	}
	eng := engine.New(s.game, deps, s.logger.With("user", sess.User()), nil)

	model := NewModel(eng, sparks, bell, s.store, s.game, pty.Window.Width, pty.Window.Height)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *Server) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.cfg.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.cfg.Address
}
