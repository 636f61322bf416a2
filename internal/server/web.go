package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/sip"
)

// WebServerConfig holds configuration for the browser terminal server.
// Empty fields use sip's defaults.
type WebServerConfig struct {
	Host string
	Port string
}

func (c *WebServerConfig) sipConfig() sip.Config {
	sc := sip.DefaultConfig()
	if c == nil {
		return sc
	}
	if c.Host != "" {
		sc.Host = c.Host
	}
	if c.Port != "" {
		sc.Port = c.Port
	}
	return sc
}

// Addr returns the listen address.
func (c *WebServerConfig) Addr() string {
	sc := c.sipConfig()
	return net.JoinHostPort(sc.Host, sc.Port)
}

// StartWebServer serves the widget in the browser until ctx is cancelled.
// Web sessions post as "web".
func StartWebServer(ctx context.Context, cfg *WebServerConfig, sessions *Sessions) error {
	sessions.Logger.Info("starting web server", "addr", cfg.Addr())
	srv := sip.NewServer(cfg.sipConfig())
	err := srv.ServeWithProgram(ctx, sessions.webProgram)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("web server error: %w", err)
	}
	return nil
}

// webProgram creates the model and program for one browser session. sip
// runs the program itself, so the model is detached rather than released
// once the session ends.
func (s *Sessions) webProgram(sess sip.Session) *tea.Program {
	pty := sess.Pty()
	m := s.Open("web", pty.Width, pty.Height)
	go func() {
		<-sess.Context().Done()
		s.Logger.Info("web session closed")
		s.Detach(m)
	}()
	return tea.NewProgram(m, append(sip.MakeOptions(sess), hostOptions()...)...)
}
