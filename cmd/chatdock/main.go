// Package main implements chatdock, a draggable chat widget that docks to
// the nearest terminal edge. It runs locally, over SSH or in the browser.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	tint "github.com/lrstanley/bubbletint/v2"
	"github.com/spf13/cobra"

	"github.com/bittlabs/chatdock/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode     bool
	asciiOnly     bool
	themeName     string
	listThemes    bool
	borderStyle   string
	nickname      string
	language      string
	storeKind     string
	databasePath  string
	edgeThreshold int
	dragThreshold int
	dragMetric    string
	noTooltip     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chatdock",
		Short: "A chat widget that docks to the nearest edge",
		Long: `chatdock - a draggable chat widget for the terminal

Drag the anchor anywhere on screen; the chat popup opens on whichever side
has room. Widgets connected to the same room see the same messages.`,
		Example: `  # Run locally
  chatdock

  # Run with a theme and a nickname
  chatdock --theme dracula --nickname alice

  # Keep history in SQLite
  chatdock --store sqlite

  # Host a shared room over SSH and the web
  chatdock serve

  # Check where the popup would dock
  chatdock classify --x 100 --y 5 --viewport 120x40

  # Replay a gesture script
  chatdock tape run demo.tape`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listThemes {
				if err := theme.Initialize("default"); err != nil {
					return fmt.Errorf("failed to initialize themes: %w", err)
				}
				for _, t := range tint.TintIDs() {
					fmt.Println(t)
				}
				return nil
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debugMode, "debug", false, "Write debug logs to the XDG state directory")
	flags.BoolVar(&asciiOnly, "ascii-only", false, "Use ASCII characters instead of emoji and box drawing")
	flags.StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty to use standard terminal colors")
	flags.BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	flags.StringVar(&borderStyle, "border-style", "", "Popup border style: rounded, normal, thick, double, hidden, ascii (default: from config or rounded)")
	flags.StringVar(&nickname, "nickname", "", "Author name for sent messages (default: from config or $USER)")
	flags.StringVar(&language, "lang", "", "Language tag for sending and history (default: from config or en)")
	flags.StringVar(&storeKind, "store", "", "Message store: memory or sqlite (default: from config or memory)")
	flags.StringVar(&databasePath, "db", "", "SQLite database path (default: $XDG_DATA_HOME/chatdock/chat.db)")
	flags.IntVar(&edgeThreshold, "edge-threshold", -1, "Cells from an edge below which the popup docks away from it (default: from config or 8)")
	flags.IntVar(&dragThreshold, "drag-threshold", -1, "Largest pointer displacement still treated as a click (default: from config or 1)")
	flags.StringVar(&dragMetric, "drag-metric", "", "Displacement metric: euclidean or max-axis (default: from config or euclidean)")
	flags.BoolVar(&noTooltip, "no-tooltip", false, "Hide the anchor tooltip")

	rootCmd.AddCommand(newSSHCmd(), newWebCmd(), newServeCmd())
	rootCmd.AddCommand(newClassifyCmd(), newConfigCmd(), newKeybindsCmd(), newTapeCmd())

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
