package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bittlabs/chatdock/internal/config"
	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/widget"
)

var errBadSize = errors.New("size must look like WIDTHxHEIGHT")

// parseSize parses "120x40".
func parseSize(s string) (dock.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	w, werr := strconv.Atoi(ws)
	h, herr := strconv.Atoi(hs)
	if !ok || werr != nil || herr != nil || w <= 0 || h <= 0 {
		return dock.Size{}, fmt.Errorf("%w: %q", errBadSize, s)
	}
	return dock.Size{Width: w, Height: h}, nil
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() dock.Size {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return dock.Size{Width: 80, Height: 24}
	}
	return dock.Size{Width: w, Height: h}
}

type classifyArgs struct {
	x, y     int
	viewport string
	anchor   string
	popup    string
}

// classification is the outcome of a classify run.
type classification struct {
	Position dock.Point
	Side     dock.Side
	Popup    dock.Size
	Viewport dock.Size
	X, Y     int
}

func classify(cfg *config.UserConfig, a classifyArgs) (classification, error) {
	wc := cfg.WidgetSettings()

	viewport := terminalSize()
	if a.viewport != "" {
		v, err := parseSize(a.viewport)
		if err != nil {
			return classification{}, err
		}
		viewport = v
	}

	anchor := wc.Anchor
	if a.anchor != "" {
		s, err := parseSize(a.anchor)
		if err != nil {
			return classification{}, err
		}
		anchor = s
	}

	popup := widget.PopupSizeFor(wc, viewport)
	if a.popup != "" {
		s, err := parseSize(a.popup)
		if err != nil {
			return classification{}, err
		}
		popup = s
	}

	pos := dock.ClampPoint(dock.Point{X: a.x, Y: a.y}, anchor, viewport)
	side := dock.Classifier{EdgeThreshold: wc.EdgeThreshold}.Classify(pos, anchor, popup, viewport)
	rect := dock.Placement(side, dock.AnchorRect(pos, anchor), popup, wc.Gap)
	return classification{
		Position: pos,
		Side:     side,
		Popup:    popup,
		Viewport: viewport,
		X:        rect.Min.X,
		Y:        rect.Min.Y,
	}, nil
}

func printClassification(w io.Writer, c classification) {
	fmt.Fprintf(w, "side:     %s\n", c.Side)
	fmt.Fprintf(w, "anchor:   %d,%d\n", c.Position.X, c.Position.Y)
	fmt.Fprintf(w, "popup:    %dx%d at %d,%d\n", c.Popup.Width, c.Popup.Height, c.X, c.Y)
	fmt.Fprintf(w, "viewport: %dx%d\n", c.Viewport.Width, c.Viewport.Height)
}

func newClassifyCmd() *cobra.Command {
	var a classifyArgs
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the dock side for an anchor position",
		Long: `Print which side of the anchor the popup would open on

The position is clamped into the viewport first, the way dragging does.
Sizes default to the config and the current terminal.`,
		Example: `  chatdock classify --x 110 --y 5 --viewport 120x40
  chatdock classify --x 0 --y 0 --edge-threshold 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userConfig, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := classify(userConfig, a)
			if err != nil {
				return err
			}
			printClassification(cmd.OutOrStdout(), c)
			return nil
		},
	}
	cmd.Flags().IntVar(&a.x, "x", 0, "Anchor column")
	cmd.Flags().IntVar(&a.y, "y", 0, "Anchor row")
	cmd.Flags().StringVar(&a.viewport, "viewport", "", "Viewport size as WxH (default: current terminal)")
	cmd.Flags().StringVar(&a.anchor, "anchor", "", "Anchor size as WxH (default: from config)")
	cmd.Flags().StringVar(&a.popup, "popup", "", "Popup size as WxH (default: derived from the viewport)")
	return cmd
}
