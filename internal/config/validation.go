package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bittlabs/chatdock/internal/gesture"
)

// ErrInvalidConfig is returned when validation finds errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationIssue is one problem found in the config.
type ValidationIssue struct {
	Field   string // section name
	Key     string
	Message string
}

// ValidationResult collects errors (fatal) and warnings (printed).
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether any fatal issue was found.
func (v *ValidationResult) HasErrors() bool { return len(v.Errors) > 0 }

// HasWarnings reports whether any warning was found.
func (v *ValidationResult) HasWarnings() bool { return len(v.Warnings) > 0 }

func (v *ValidationResult) errorf(field, key, format string, args ...any) {
	v.Errors = append(v.Errors, ValidationIssue{Field: field, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (v *ValidationResult) warnf(field, key, format string, args ...any) {
	v.Warnings = append(v.Warnings, ValidationIssue{Field: field, Key: key, Message: fmt.Sprintf(format, args...)})
}

var validBorderStyles = map[string]bool{
	"rounded": true, "normal": true, "thick": true, "double": true, "hidden": true, "ascii": true,
}

var validBackdrops = map[string]bool{"dots": true, "grid": true, "none": true}

// ValidateConfig checks a filled config.
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	v := &ValidationResult{}

	w := cfg.Widget
	if w.PopupHeightRatio <= 0 || w.PopupHeightRatio > 1 {
		v.errorf("widget", "popup_height_ratio", "must be in (0, 1], got %g", w.PopupHeightRatio)
	}
	if _, err := gesture.ParseMetric(w.DragMetric); err != nil {
		v.errorf("widget", "drag_metric", "%v", err)
	}
	for key, p := range map[string]*int{
		"gap": w.Gap, "margin_x": w.MarginX, "margin_y": w.MarginY,
		"edge_threshold": w.EdgeThreshold, "drag_threshold": w.DragThreshold,
	} {
		if p != nil && *p < 0 {
			v.errorf("widget", key, "must not be negative, got %d", *p)
		}
	}
	if w.AnchorWidth > w.PopupWidth {
		v.warnf("widget", "anchor_width", "anchor (%d) is wider than the popup (%d)", w.AnchorWidth, w.PopupWidth)
	}
	if w.DragThreshold != nil && w.EdgeThreshold != nil && *w.DragThreshold > *w.EdgeThreshold && *w.EdgeThreshold > 0 {
		v.warnf("widget", "drag_threshold", "larger than edge_threshold; short drags near an edge will register as clicks")
	}

	a := cfg.Appearance
	if !validBorderStyles[a.BorderStyle] {
		v.warnf("appearance", "border_style", "unknown style %q, using rounded", a.BorderStyle)
	}
	if !validBackdrops[a.Backdrop] {
		v.warnf("appearance", "backdrop", "unknown backdrop %q, using dots", a.Backdrop)
	}

	c := cfg.Chat
	if c.Store != "memory" && c.Store != "sqlite" {
		v.errorf("chat", "store", "must be memory or sqlite, got %q", c.Store)
	}
	if c.MaxLength > 10000 {
		v.warnf("chat", "max_length", "%d runes is unusually long", c.MaxLength)
	}

	s := cfg.Server
	if port, err := strconv.Atoi(s.Port); err != nil || port < 1 || port > 65535 {
		v.errorf("server", "port", "invalid port %q", s.Port)
	}
	if _, err := time.ParseDuration(s.IdleTimeout); err != nil {
		v.errorf("server", "idle_timeout", "invalid duration %q", s.IdleTimeout)
	}

	validateKeybinds(v, "widget", cfg.Keybindings.Widget)
	validateKeybinds(v, "system", cfg.Keybindings.System)
	return v
}

func validateKeybinds(v *ValidationResult, section string, binds map[string][]string) {
	known := knownActions[section]
	for action, keys := range binds {
		if !known[action] {
			v.warnf("keybindings."+section, action, "unknown action")
		}
		if len(keys) == 0 {
			v.warnf("keybindings."+section, action, "no keys bound")
		}
	}
}
