package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/cellmachine/internal/config"
	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/render"
	"github.com/vovakirdan/cellmachine/internal/storage"
	"github.com/vovakirdan/cellmachine/internal/telemetry"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Address     string        // host:port to listen on
	HostKeyPath string        // Generated on first start; ~/.cellmachine/host_key when empty
	DBPath      string        // Shared run history; sessions run without history if it cannot be opened
	IdleTimeout time.Duration // Idle connections are closed after this long

	// Items are the levels offered by the picker. Builtin levels when empty.
	Items []LevelItem

	// Viewer settings shared by every session.
	Sleep    time.Duration
	Nerd     bool
	HUD      bool
	Renderer *render.Renderer

	Logger *log.Logger
	Tracer trace.Tracer
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DBPath:      filepath.Join(config.DataDir(), "runs.db"),
		IdleTimeout: 30 * time.Minute,
		Sleep:       config.Sleep(config.DefaultViewerConfig().TickMS),
		HUD:         true,
	}
}

// SSHServer serves a level picker and viewer to every SSH session.
// Each session runs its own grids; only the run history is shared.
type SSHServer struct {
	cfg    SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	tracer trace.Tracer
}

// NewSSHServer creates a server. It does not listen until ListenAndServe.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "cellmachine-ssh",
		})
	}
	if cfg.Tracer == nil {
		cfg.Tracer = telemetry.NoopTracer()
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(render.Unicode, nil)
	}
	if len(cfg.Items) == 0 {
		cfg.Items = BuiltinItems()
	}
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = filepath.Join(config.DataDir(), "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.HostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: host key directory: %w", err)
	}

	s := &SSHServer{cfg: cfg, logger: cfg.Logger, tracer: cfg.Tracer}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		s.logger.Warn("could not open runs database, history disabled", "path", cfg.DBPath, "error", err)
	} else {
		s.store = store
	}

	// Middleware runs last to first: sessions are logged, then terminals
	// are checked, then the program starts.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			activeterm.Middleware(),
			s.sessionLog,
		),
	)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("ssh: create server: %w", err)
	}
	s.server = server
	return s, nil
}

// teaHandler builds the session model for a connection with a terminal.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	ctx, span := s.tracer.Start(sess.Context(), "ssh.session", trace.WithAttributes(
		attribute.String("ssh.user", sess.User()),
		attribute.Int("term.width", pty.Window.Width),
		attribute.Int("term.height", pty.Window.Height),
	))
	go func() {
		<-ctx.Done()
		span.End()
	}()

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		Sleep:   s.cfg.Sleep,
		Nerd:    s.cfg.Nerd,
		HUD:     s.cfg.HUD,
	}
	model := NewSessionModel(s.cfg.Items, s.store, cfg, ViewerOptions{
		Context:  ctx,
		Renderer: s.cfg.Renderer,
		Store:    s.store,
		Backend:  "ssh",
		Logger:   s.logger.With("user", sess.User()),
		Tracer:   s.tracer,
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) sessionLog(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		remote := sess.RemoteAddr().String()
		s.logger.Info("session started", "user", sess.User(), "remote", remote)
		next(sess)
		s.logger.Info("session ended", "user", sess.User(), "remote", remote,
			"duration", time.Since(start).Round(time.Second))
	}
}

// ListenAndServe accepts connections until ctx is cancelled, then shuts
// the server down and waits up to ten seconds for sessions to close.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.cfg.Address, "levels", len(s.cfg.Items))

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	return s.Shutdown()
}

// Shutdown stops the server and closes the run history.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.cfg.Address
}
