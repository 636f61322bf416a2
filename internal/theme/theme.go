// Package theme maps the active bubbletint palette onto the chat widget's
// colors. With no theme selected every accessor returns a fixed fallback.
package theme

import (
	"fmt"
	"hash/fnv"
	"image/color"

	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize selects themeName from the bubbletint registry plus any custom
// themes in the user's themes directory. An empty name disables theming.
// Unknown names fall back to bubbletint's default tint.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Warn("error loading custom themes", "err", err)
		}
	}

	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q", themeName)
	}
	return nil
}

// IsEnabled reports whether a theme is active.
func IsEnabled() bool {
	return enabled
}

// Current returns the active tint, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

func pick(fallback string, f func(t *tint.Tint) color.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	return f(t)
}

// Backdrop returns the color of the host backdrop pattern.
func Backdrop() color.Color {
	return pick("#3a3a4a", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// AnchorBg returns the anchor fill.
func AnchorBg() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) color.Color { return t.Blue })
}

// AnchorFg returns the anchor glyph color.
func AnchorFg() color.Color {
	return pick("#ffffff", func(t *tint.Tint) color.Color { return t.BrightWhite })
}

// AnchorDragging returns the anchor fill while it is being dragged.
func AnchorDragging() color.Color {
	return pick("#cd00cd", func(t *tint.Tint) color.Color { return t.Purple })
}

// TooltipBg and TooltipFg color the hover hint next to the anchor.
func TooltipBg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.White })
}

func TooltipFg() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Black })
}

// PopupBg returns the message area background.
func PopupBg() color.Color {
	return pick("#1e1e2e", func(t *tint.Tint) color.Color { return t.Bg })
}

// PopupFg returns the message text color.
func PopupFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.Fg })
}

// HeaderBg returns the header bar (drag handle) background.
func HeaderBg() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) color.Color { return t.Blue })
}

// HeaderFg returns the header title color.
func HeaderFg() color.Color {
	return pick("#ffffff", func(t *tint.Tint) color.Color { return t.BrightWhite })
}

// InputBg returns the compose row background.
func InputBg() color.Color {
	return pick("#2a2a3e", func(t *tint.Tint) color.Color { return t.Black })
}

// Placeholder returns the dimmed placeholder text color.
func Placeholder() color.Color {
	return pick("#7f7f7f", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// SendBg returns the send button color; SendPending while a send is in flight.
func SendBg() color.Color {
	return pick("#00cd00", func(t *tint.Tint) color.Color { return t.Green })
}

func SendPending() color.Color {
	return pick("#7f7f7f", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// PickerBg returns the emoji picker background.
func PickerBg() color.Color {
	return pick("#2a2a3e", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// Timestamp returns the color for message times.
func Timestamp() color.Color {
	return pick("#7f7f7f", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// AuthorColor returns a stable color for an author name.
func AuthorColor(name string) color.Color {
	palette := authorPalette()
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return palette[h.Sum32()%uint32(len(palette))]
}

func authorPalette() []color.Color {
	t := Current()
	if t == nil {
		return []color.Color{
			lipgloss.Color("#ff5f87"), lipgloss.Color("#5fd7ff"), lipgloss.Color("#87d75f"),
			lipgloss.Color("#ffd75f"), lipgloss.Color("#af87ff"), lipgloss.Color("#ff875f"),
		}
	}
	return []color.Color{t.BrightRed, t.BrightCyan, t.BrightGreen, t.BrightYellow, t.BrightPurple, t.BrightBlue}
}

// NotificationError returns the color for error notifications.
func NotificationError() color.Color {
	return pick("#cd0000", func(t *tint.Tint) color.Color { return t.Red })
}

// NotificationWarning returns the color for warning notifications.
func NotificationWarning() color.Color {
	return pick("#cdcd00", func(t *tint.Tint) color.Color { return t.Yellow })
}

// NotificationSuccess returns the color for success notifications.
func NotificationSuccess() color.Color {
	return pick("#00cd00", func(t *tint.Tint) color.Color { return t.Green })
}

// NotificationInfo returns the color for info notifications.
func NotificationInfo() color.Color {
	return pick("#0000ee", func(t *tint.Tint) color.Color { return t.Blue })
}

// NotificationFg returns the notification text color.
func NotificationFg() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Bg })
}

// CLITableHeader, CLITableKey and CLITableDim color the keybinds listing.
func CLITableHeader() color.Color {
	return pick("#5fd7ff", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

func CLITableKey() color.Color {
	return pick("#ffd75f", func(t *tint.Tint) color.Color { return t.BrightYellow })
}

func CLITableDim() color.Color {
	return pick("#7f7f7f", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// ColorToString converts a color to a #rrggbb hex string.
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
