package server

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Serve runs the SSH and web servers side by side. A nil config skips that
// server. The first failure stops the other; open sessions are detached
// once both have returned.
func Serve(ctx context.Context, sshCfg *SSHServerConfig, webCfg *WebServerConfig, sessions *Sessions) error {
	defer sessions.Close()

	g, ctx := errgroup.WithContext(ctx)
	if sshCfg != nil {
		g.Go(func() error { return StartSSHServer(ctx, sshCfg, sessions) })
	}
	if webCfg != nil {
		g.Go(func() error { return StartWebServer(ctx, webCfg, sessions) })
	}
	return g.Wait()
}
