package main

import (
	"github.com/spf13/cobra"
)

func addSSHFlags(cmd *cobra.Command, f *serveFlags) {
	cmd.Flags().StringVar(&f.port, "port", "", "SSH server port (default: from config or 2222)")
	cmd.Flags().StringVar(&f.host, "host", "", "SSH server host (default: from config or localhost)")
	cmd.Flags().StringVar(&f.keyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
}

func addWebFlags(cmd *cobra.Command, f *serveFlags, prefix string) {
	cmd.Flags().StringVar(&f.webPort, prefix+"port", "", "Web server port (default: 7681)")
	cmd.Flags().StringVar(&f.webHost, prefix+"host", "", "Web server host (default: localhost)")
}

func newSSHCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Run chatdock as SSH server",
		Long: `Run chatdock as an SSH server

Every SSH connection gets its own widget in one shared room. The SSH user
name is used as the nickname. The server will generate a host key
automatically if not specified.`,
		Example: `  # Start SSH server on default port
  chatdock ssh

  # Start on custom port
  chatdock ssh --port 2222

  # Specify custom host key
  chatdock ssh --key-path /path/to/host_key`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServers(f, true, false)
		},
	}
	addSSHFlags(cmd, &f)
	return cmd
}

func newWebCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve chatdock in the browser",
		Long: `Serve chatdock through a browser terminal

Every browser tab gets its own widget in one shared room.`,
		Example: `  # Serve on localhost:7681
  chatdock web

  # Listen on all interfaces
  chatdock web --host 0.0.0.0 --port 8080`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServers(f, false, true)
		},
	}
	addWebFlags(cmd, &f, "")
	return cmd
}

func newServeCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one room over SSH and the web",
		Long: `Run the SSH and web servers side by side over one shared room

SSH and browser users see each other's messages. If either server fails
the other is stopped.`,
		Example: `  chatdock serve --port 2222 --web-port 8080`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServers(f, true, true)
		},
	}
	addSSHFlags(cmd, &f)
	addWebFlags(cmd, &f, "web-")
	return cmd
}
