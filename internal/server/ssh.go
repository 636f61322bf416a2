package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/activeterm"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/ssh"

	"github.com/bittlabs/chatdock/internal/app"
)

// ShutdownTimeout bounds how long a server waits for sessions to drain.
const ShutdownTimeout = 10 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host        string
	Port        string
	HostKeyPath string
	// IdleTimeout disconnects quiet sessions. Zero disables it.
	IdleTimeout time.Duration
	Version     string
}

// Addr returns the listen address.
func (c *SSHServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewSSHServer builds the wish server without starting it.
func NewSSHServer(cfg *SSHServerConfig, sessions *Sessions) (*ssh.Server, error) {
	opts := []ssh.Option{
		wish.WithAddress(cfg.Addr()),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		// the last middleware runs first
		wish.WithMiddleware(
			bubbletea.MiddlewareWithProgramHandler(sessions.sshProgram),
			sessions.releaseAfterRun,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(sessions.Logger, log.InfoLevel),
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.Version != "" {
		opts = append(opts, wish.WithVersion("chatdock-"+cfg.Version))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	return s, nil
}

// StartSSHServer serves SSH sessions until ctx is cancelled, then shuts
// down gracefully.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig, sessions *Sessions) error {
	s, err := NewSSHServer(cfg, sessions)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		sessions.Logger.Info("starting SSH server", "addr", cfg.Addr())
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("SSH server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sessions.Logger.Info("stopping SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	err = s.Shutdown(shutdownCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		// dropping the connections ends the sessions, which quits their programs
		sessions.Logger.Warn("sessions still open, closing connections")
		err = s.Close()
	}
	if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("SSH shutdown: %w", err)
	}
	return nil
}

type sessionModelKey struct{}

// sshProgram creates the model and program for one SSH session. The
// session's context carries the model until releaseAfterRun unmounts it.
func (s *Sessions) sshProgram(sess ssh.Session) *tea.Program {
	pty, _, _ := sess.Pty()
	m := s.Open(sess.User(), pty.Window.Width, pty.Window.Height)
	sess.Context().SetValue(sessionModelKey{}, m)
	return tea.NewProgram(m, append(bubbletea.MakeOptions(sess), hostOptions()...)...)
}

// releaseAfterRun wraps the bubbletea middleware, which returns only after
// the session's program has, and releases the session's model.
func (s *Sessions) releaseAfterRun(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		next(sess)
		if m, ok := sess.Context().Value(sessionModelKey{}).(*app.Model); ok {
			s.Release(m)
			s.Logger.Info("session closed", "user", sess.User())
		}
	}
}
