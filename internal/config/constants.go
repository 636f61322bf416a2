// Package config provides configuration constants, keybinding management, and user settings.
package config

import (
	"time"

	"charm.land/lipgloss/v2"
)

// =============================================================================
// Timing
// =============================================================================

const (
	// NotificationDuration is how long a notification stays visible
	NotificationDuration = 4 * time.Second

	// NotificationTick is the interval at which expired notifications are pruned
	NotificationTick = 250 * time.Millisecond

	// SendTimeout bounds a single send
	SendTimeout = 10 * time.Second

	// HistoryTimeout bounds a history refresh
	HistoryTimeout = 5 * time.Second

	// NormalFPS is the renderer frame rate
	NormalFPS = 60
)

// =============================================================================
// Limits
// =============================================================================

const (
	// MaxNotifications is the number of notifications shown at once
	MaxNotifications = 3

	// NotificationWidth is the maximum notification width in cells
	NotificationWidth = 40

	// FeedBuffer is the per-widget buffer for messages pushed by the room
	FeedBuffer = 128
)

// =============================================================================
// Layer order
// =============================================================================

const (
	ZIndexBackdrop      = 0
	ZIndexPopup         = 10
	ZIndexPicker        = 20
	ZIndexAnchor        = 30
	ZIndexTooltip       = 40
	ZIndexHelp          = 50
	ZIndexNotifications = 60
)

// =============================================================================
// Runtime settings (set by ApplyOverrides)
// =============================================================================

// UseASCIIOnly replaces emoji and box drawing with ASCII
var UseASCIIOnly = false

// BorderStyle is the popup border style
var BorderStyle = "rounded"

// ShowTooltip controls the anchor hover tooltip
var ShowTooltip = true

// TimestampFormat is the Go time layout for message times
var TimestampFormat = "15:04"

// Backdrop selects the host backdrop pattern: dots, grid, none
var Backdrop = "dots"

// =============================================================================
// Glyphs
// =============================================================================

const (
	// AnchorIcon is drawn in the middle of the anchor.
	AnchorIcon = "💬"
	// AnchorIconASCII is the ASCII fallback.
	AnchorIconASCII = "<>"

	// EmojiToggleIcon opens the picker.
	EmojiToggleIcon = "☺"
	// EmojiToggleIconASCII is the ASCII fallback.
	EmojiToggleIconASCII = ":)"

	BackdropDot  = "·"
	BackdropGrid = "┼"
)

// GetAnchorIcon returns the anchor glyph for the current mode.
func GetAnchorIcon() string {
	if UseASCIIOnly {
		return AnchorIconASCII
	}
	return AnchorIcon
}

// GetEmojiToggleIcon returns the picker toggle glyph for the current mode.
func GetEmojiToggleIcon() string {
	if UseASCIIOnly {
		return EmojiToggleIconASCII
	}
	return EmojiToggleIcon
}

// GetBackdropGlyph returns the backdrop cell glyph, or "" for none.
func GetBackdropGlyph() string {
	switch Backdrop {
	case "none":
		return ""
	case "grid":
		if UseASCIIOnly {
			return "+"
		}
		return BackdropGrid
	default:
		if UseASCIIOnly {
			return "."
		}
		return BackdropDot
	}
}

// GetBorderForStyle returns the lipgloss Border for the current style
func GetBorderForStyle() lipgloss.Border {
	if UseASCIIOnly || BorderStyle == "ascii" {
		return lipgloss.ASCIIBorder()
	}
	switch BorderStyle {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}
