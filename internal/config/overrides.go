package config

import (
	"os"
	"strconv"
	"strings"

	"charm.land/log/v2"
	"github.com/joho/godotenv"

	"github.com/bittlabs/chatdock/internal/theme"
)

// Overrides contains CLI flag values that can override user config.
// Zero values (and -1 for thresholds) mean the flag was not set.
type Overrides struct {
	// ASCIIOnly uses ASCII glyphs instead of emoji and box drawing
	ASCIIOnly bool

	// BorderStyle overrides the popup border style
	BorderStyle string

	// ThemeName is the theme to load
	ThemeName string

	Nickname string
	Language string

	// EdgeThreshold overrides [widget] edge_threshold (-1 means unset)
	EdgeThreshold int

	// DragThreshold overrides [widget] drag_threshold (-1 means unset)
	DragThreshold int

	DragMetric string

	// NoTooltip hides the anchor tooltip
	NoTooltip bool

	// Store and DatabasePath override [chat] store settings
	Store        string
	DatabasePath string
}

// NoOverrides returns an Overrides with every field unset.
func NoOverrides() Overrides {
	return Overrides{EdgeThreshold: -1, DragThreshold: -1}
}

// LoadDotEnv loads .env from the working directory if present.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to load .env", "err", err)
	}
}

// ApplyEnv applies CHATDOCK_* variables on top of the file config.
func ApplyEnv(cfg *UserConfig, lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst **int) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			log.Warn("ignoring non-numeric env override", "var", key, "value", v)
			return
		}
		*dst = &n
	}

	str("CHATDOCK_NICKNAME", &cfg.Chat.Nickname)
	str("CHATDOCK_LANG", &cfg.Chat.Language)
	str("CHATDOCK_ORIGIN", &cfg.Chat.Origin)
	str("CHATDOCK_THEME", &cfg.Appearance.Theme)
	str("CHATDOCK_STORE", &cfg.Chat.Store)
	str("CHATDOCK_DB", &cfg.Chat.DatabasePath)
	str("CHATDOCK_SSH_HOST", &cfg.Server.Host)
	str("CHATDOCK_SSH_PORT", &cfg.Server.Port)
	str("CHATDOCK_DRAG_METRIC", &cfg.Widget.DragMetric)
	num("CHATDOCK_EDGE_THRESHOLD", &cfg.Widget.EdgeThreshold)
	num("CHATDOCK_DRAG_THRESHOLD", &cfg.Widget.DragThreshold)
}

// ApplyOverrides applies CLI flag overrides to userConfig and the package
// globals, then initializes the theme. If userConfig is nil, only flag
// values are applied to the globals.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	if overrides.ASCIIOnly {
		UseASCIIOnly = true
	}

	if overrides.BorderStyle != "" {
		BorderStyle = overrides.BorderStyle
	} else if userConfig != nil && userConfig.Appearance.BorderStyle != "" {
		BorderStyle = userConfig.Appearance.BorderStyle
	}

	ShowTooltip = !overrides.NoTooltip
	if userConfig != nil && userConfig.Appearance.ShowTooltip != nil {
		ShowTooltip = ShowTooltip && *userConfig.Appearance.ShowTooltip
	}

	if userConfig != nil {
		if userConfig.Appearance.TimestampFormat != "" {
			TimestampFormat = userConfig.Appearance.TimestampFormat
		}
		if userConfig.Appearance.Backdrop != "" {
			Backdrop = userConfig.Appearance.Backdrop
		}
		applyChatOverrides(overrides, userConfig)
	}

	themeName := overrides.ThemeName
	if themeName == "" && userConfig != nil {
		themeName = userConfig.Appearance.Theme
	}
	if err := theme.Initialize(themeName); err != nil {
		log.Warn("failed to load theme", "theme", themeName, "err", err)
	}
}

func applyChatOverrides(o Overrides, cfg *UserConfig) {
	if o.Nickname != "" {
		cfg.Chat.Nickname = o.Nickname
	}
	if o.Language != "" {
		cfg.Chat.Language = o.Language
	}
	if o.Store != "" {
		cfg.Chat.Store = o.Store
	}
	if o.DatabasePath != "" {
		cfg.Chat.DatabasePath = o.DatabasePath
	}
	if o.EdgeThreshold >= 0 {
		cfg.Widget.EdgeThreshold = intPtr(o.EdgeThreshold)
	}
	if o.DragThreshold >= 0 {
		cfg.Widget.DragThreshold = intPtr(o.DragThreshold)
	}
	if o.DragMetric != "" {
		cfg.Widget.DragMetric = o.DragMetric
	}
}
