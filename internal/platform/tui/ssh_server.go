package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// SSHServerConfig configures remote play.
type SSHServerConfig struct {
	Address     string // host:port, e.g. ":23234"
	HostKeyPath string // empty = ~/.dodge/host_key, generated on first start
	DBPath      string
	IdleTimeout time.Duration
	TickRate    int
	Game        config.DodgeConfig // config of every new connection
}

// DefaultSSHServerConfig listens on :23234 and keeps scores in ~/.dodge.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.dodge/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Game:        config.DefaultDodgeConfig(),
	}
}

// SSHServer gives every connection its own menu and game. All connections
// play against one store, so a record set by one player becomes the high
// score every other player sees when their next game ends.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	store   *storage.Store // nil when the database could not be opened
	logger  *log.Logger
	players atomic.Int32
}

// NewSSHServer opens the shared store and prepares the wish server.
// A database that fails to open is logged; players then start from 0.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "dodge-ssh"})
	}

	keyPath, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{config: cfg, logger: logger}
	if store, err := storage.Open(cfg.DBPath); err != nil {
		logger.Warn("scores will not be saved", "db", cfg.DBPath, "error", err)
	} else {
		srv.store = store
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.trackPlayers,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// resolveHostKey defaults the key to ~/.dodge/host_key and makes sure its
// directory exists.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".dodge", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "dodge needs a terminal; connect with ssh -t")
		return nil, nil
	}

	app := s.newPlayerApp(sess.User(), pty.Window.Width, pty.Window.Height)
	return app, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}

// newPlayerApp builds the app of one connection on the shared store.
func (s *SSHServer) newPlayerApp(user string, width, height int) AppModel {
	return NewAppModel(Options{
		Store:  s.store,
		Config: s.config.Game,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: s.config.TickRate,
		},
		Logger: s.logger.With("user", user),
	})
}

// trackPlayers logs connections with the number of players online.
func (s *SSHServer) trackPlayers(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		remote := sess.RemoteAddr().String()
		s.logger.Info("player joined", "user", sess.User(), "remote", remote, "online", s.players.Add(1))
		next(sess)
		s.logger.Info("player left", "user", sess.User(), "remote", remote, "online", s.players.Add(-1))
	}
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("listening", "address", s.config.Address, "high_score", s.sharedHighScore())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server stopped", "error", err)
		}
	}()

	<-stop
	s.logger.Info("shutting down", "online", s.players.Load())
	return s.Shutdown()
}

// Shutdown waits up to 10s for connections to close, then closes the store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	return err
}

// sharedHighScore is the record all players compete for; 0 without a store.
func (s *SSHServer) sharedHighScore() int {
	if s.store == nil {
		return 0
	}
	high, err := s.store.HighScore()
	if err != nil {
		s.logger.Warn("could not read high score", "error", err)
		return 0
	}
	return high
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
