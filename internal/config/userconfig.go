package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/gesture"
	"github.com/bittlabs/chatdock/internal/widget"
)

const configRelPath = "chatdock/config.toml"

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Widget      WidgetConfig      `toml:"widget"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Chat        ChatConfig        `toml:"chat"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Server      ServerConfig      `toml:"server"`
}

// WidgetConfig holds the widget geometry and gesture thresholds, in cells.
// Pointer fields distinguish "unset" from an explicit zero.
type WidgetConfig struct {
	AnchorWidth      int     `toml:"anchor_width"`       // Anchor width (default: 6)
	AnchorHeight     int     `toml:"anchor_height"`      // Anchor height (default: 3)
	PopupWidth       int     `toml:"popup_width"`        // Popup width (default: 36)
	PopupHeightRatio float64 `toml:"popup_height_ratio"` // Popup height as a fraction of the viewport (default: 0.4)
	Gap              *int    `toml:"gap"`                // Cells between anchor and popup (default: 1)
	MarginX          *int    `toml:"margin_x"`           // Initial distance from the right edge (default: 12)
	MarginY          *int    `toml:"margin_y"`           // Initial distance from the bottom edge (default: 9)
	EdgeThreshold    *int    `toml:"edge_threshold"`     // Edge proximity threshold (default: 8)
	DragThreshold    *int    `toml:"drag_threshold"`     // Largest displacement still treated as a click (default: 1)
	DragMetric       string  `toml:"drag_metric"`        // euclidean or max-axis (default: euclidean)
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	Theme           string `toml:"theme"`            // Color theme name (e.g., dracula, nord, my-custom-theme)
	BorderStyle     string `toml:"border_style"`     // Popup border style: rounded, normal, thick, double, ascii
	ShowTooltip     *bool  `toml:"show_tooltip"`     // Show the hover tooltip on the anchor (default: true)
	TimestampFormat string `toml:"timestamp_format"` // Go time layout for message times (default: 15:04)
	Backdrop        string `toml:"backdrop"`         // Host backdrop: dots, grid, none (default: dots)
}

// ChatConfig holds chat room settings
type ChatConfig struct {
	Nickname     string `toml:"nickname"`      // Display name (default: $USER)
	Language     string `toml:"language"`      // Language tag used for sending and history (default: en)
	Origin       string `toml:"origin"`        // Origin tag attached to sent messages (default: en)
	MaxLength    int    `toml:"max_length"`    // Message length limit in runes (default: 500)
	HistoryLimit int    `toml:"history_limit"` // Messages loaded as history (default: 200)
	Store        string `toml:"store"`         // memory or sqlite (default: memory)
	DatabasePath string `toml:"database_path"` // SQLite path (default: $XDG_DATA_HOME/chatdock/chat.db)
}

// ServerConfig holds remote hosting settings
type ServerConfig struct {
	Host        string `toml:"host"`         // SSH listen host (default: localhost)
	Port        string `toml:"port"`         // SSH listen port (default: 2222)
	HostKeyPath string `toml:"host_key_path"` // SSH host key (default: $XDG_DATA_HOME/chatdock/host_key)
	IdleTimeout string `toml:"idle_timeout"` // Disconnect idle SSH sessions after this duration (default: 30m)
}

// KeybindingsConfig maps actions to keys
type KeybindingsConfig struct {
	Widget map[string][]string `toml:"widget"`
	System map[string][]string `toml:"system"`
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	wc := widget.DefaultConfig()
	return &UserConfig{
		Widget: WidgetConfig{
			AnchorWidth:      wc.Anchor.Width,
			AnchorHeight:     wc.Anchor.Height,
			PopupWidth:       wc.PopupWidth,
			PopupHeightRatio: wc.PopupHeightRatio,
			Gap:              intPtr(wc.Gap),
			MarginX:          intPtr(wc.Margin.X),
			MarginY:          intPtr(wc.Margin.Y),
			EdgeThreshold:    intPtr(wc.EdgeThreshold),
			DragThreshold:    intPtr(wc.DragThreshold),
			DragMetric:       wc.Metric.String(),
		},
		Appearance: AppearanceConfig{
			BorderStyle:     "rounded",
			ShowTooltip:     boolPtr(true),
			TimestampFormat: "15:04",
			Backdrop:        "dots",
		},
		Chat: ChatConfig{
			Nickname:     defaultNickname(),
			Language:     "en",
			Origin:       "en",
			MaxLength:    500,
			HistoryLimit: 200,
			Store:        "memory",
		},
		Keybindings: KeybindingsConfig{
			Widget: map[string][]string{
				"toggle_chat":  {"ctrl+o"},
				"close":        {"esc"},
				"send":         {"enter"},
				"toggle_emoji": {"ctrl+e"},
				"scroll_up":    {"pgup", "ctrl+up"},
				"scroll_down":  {"pgdown", "ctrl+down"},
			},
			System: map[string][]string{
				"quit":        {"ctrl+c", "ctrl+q"},
				"toggle_help": {"f1"},
			},
		},
		Server: ServerConfig{
			Host:        "localhost",
			Port:        "2222",
			IdleTimeout: "30m",
		},
	}
}

func defaultNickname() string {
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "Anonymous"
}

// WidgetSettings converts the [widget] section into widget.Config.
// Call it on a filled and validated config.
func (c *UserConfig) WidgetSettings() widget.Config {
	metric, _ := gesture.ParseMetric(c.Widget.DragMetric)
	return widget.Config{
		Anchor:           dock.Size{Width: c.Widget.AnchorWidth, Height: c.Widget.AnchorHeight},
		PopupWidth:       c.Widget.PopupWidth,
		PopupHeightRatio: c.Widget.PopupHeightRatio,
		Gap:              deref(c.Widget.Gap),
		Margin:           dock.Point{X: deref(c.Widget.MarginX), Y: deref(c.Widget.MarginY)},
		EdgeThreshold:    deref(c.Widget.EdgeThreshold),
		DragThreshold:    deref(c.Widget.DragThreshold),
		Metric:           metric,
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// LoadUserConfig loads the user configuration from XDG config directory,
// creating a commented default file when none exists.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		return createDefaultConfig()
	}
	return LoadUserConfigFile(configPath)
}

// LoadUserConfigFile parses, fills and validates the config at path.
func LoadUserConfigFile(configPath string) (*UserConfig, error) {
	// #nosec G304 - reading the user's own config file is intentional
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	FillMissing(&cfg)

	validation := ValidateConfig(&cfg)
	if validation.HasErrors() {
		for _, e := range validation.Errors {
			log.Error("config error", "section", e.Field, "key", e.Key, "msg", e.Message)
		}
		return nil, fmt.Errorf("%w: %d error(s), please fix and restart", ErrInvalidConfig, len(validation.Errors))
	}
	for _, w := range validation.Warnings {
		log.Warn("config warning", "section", w.Field, "key", w.Key, "msg", w.Message)
	}

	return &cfg, nil
}

// FillMissing replaces unset fields with defaults.
func FillMissing(cfg *UserConfig) {
	def := DefaultConfig()
	fillMissingWidget(cfg, def)
	fillMissingAppearance(cfg, def)
	fillMissingChat(cfg, def)
	fillMissingServer(cfg, def)
	fillMissingKeybinds(cfg, def)
}

// createDefaultConfig creates a default config file in the user's config directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()
	configPath, err := xdg.ConfigFile(configRelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := WriteDefaultConfig(configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefaultConfig writes the commented default configuration to path,
// overwriting any existing file.
func WriteDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# chatdock configuration\n")
	sb.WriteString("#\n")
	sb.WriteString("# Location: " + configPath + "\n")
	sb.WriteString("# For keybindings, run: chatdock keybinds list\n\n")
	sb.WriteString("# [widget] sizes and thresholds are in terminal cells.\n")
	sb.WriteString("#   edge_threshold: how close to an edge the anchor must be before the\n")
	sb.WriteString("#     popup docks away from it.\n")
	sb.WriteString("#   drag_threshold: a press that moves at most this far is a click.\n")
	sb.WriteString("#   drag_metric: euclidean or max-axis.\n")
	sb.WriteString("#\n")
	sb.WriteString("# [appearance] theme: bubbletint theme ID, empty for terminal colors.\n")
	sb.WriteString("#   Custom themes: ~/.config/chatdock/themes/*.json\n")
	sb.WriteString("#\n")
	sb.WriteString("# [chat] store: memory or sqlite.\n\n")
	sb.Write(data)

	if err := os.WriteFile(configPath, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fillMissingWidget(cfg, def *UserConfig) {
	w, d := &cfg.Widget, &def.Widget
	if w.AnchorWidth <= 0 {
		w.AnchorWidth = d.AnchorWidth
	}
	if w.AnchorHeight <= 0 {
		w.AnchorHeight = d.AnchorHeight
	}
	if w.PopupWidth <= 0 {
		w.PopupWidth = d.PopupWidth
	}
	if w.PopupHeightRatio == 0 {
		w.PopupHeightRatio = d.PopupHeightRatio
	}
	for _, f := range []struct{ dst, src **int }{
		{&w.Gap, &d.Gap},
		{&w.MarginX, &d.MarginX},
		{&w.MarginY, &d.MarginY},
		{&w.EdgeThreshold, &d.EdgeThreshold},
		{&w.DragThreshold, &d.DragThreshold},
	} {
		if *f.dst == nil {
			*f.dst = *f.src
		}
	}
	if w.DragMetric == "" {
		w.DragMetric = d.DragMetric
	}
}

func fillMissingAppearance(cfg, def *UserConfig) {
	a := &cfg.Appearance
	if a.BorderStyle == "" {
		a.BorderStyle = def.Appearance.BorderStyle
	}
	if a.ShowTooltip == nil {
		a.ShowTooltip = def.Appearance.ShowTooltip
	}
	if a.TimestampFormat == "" {
		a.TimestampFormat = def.Appearance.TimestampFormat
	}
	if a.Backdrop == "" {
		a.Backdrop = def.Appearance.Backdrop
	}
}

func fillMissingChat(cfg, def *UserConfig) {
	c := &cfg.Chat
	if strings.TrimSpace(c.Nickname) == "" {
		c.Nickname = def.Chat.Nickname
	}
	if c.Language == "" {
		c.Language = def.Chat.Language
	}
	if c.Origin == "" {
		c.Origin = def.Chat.Origin
	}
	if c.MaxLength <= 0 {
		c.MaxLength = def.Chat.MaxLength
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = def.Chat.HistoryLimit
	}
	if c.Store == "" {
		c.Store = def.Chat.Store
	}
}

func fillMissingServer(cfg, def *UserConfig) {
	s := &cfg.Server
	if s.Host == "" {
		s.Host = def.Server.Host
	}
	if s.Port == "" {
		s.Port = def.Server.Port
	}
	if s.IdleTimeout == "" {
		s.IdleTimeout = def.Server.IdleTimeout
	}
}

// IdleTimeout returns the parsed [server] idle_timeout. Call it on a
// validated config.
func (c *UserConfig) IdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.IdleTimeout)
	return d
}

func fillMissingKeybinds(cfg, def *UserConfig) {
	if cfg.Keybindings.Widget == nil {
		cfg.Keybindings.Widget = make(map[string][]string)
	}
	if cfg.Keybindings.System == nil {
		cfg.Keybindings.System = make(map[string][]string)
	}
	fillMapDefaults(cfg.Keybindings.Widget, def.Keybindings.Widget)
	fillMapDefaults(cfg.Keybindings.System, def.Keybindings.System)
}

func fillMapDefaults(target, defaults map[string][]string) {
	for k, v := range defaults {
		if _, exists := target[k]; !exists {
			target[k] = v
		}
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		return xdg.ConfigFile(configRelPath)
	}
	return path, nil
}

// DatabasePath returns the SQLite path, defaulting to the XDG data directory.
func (c *UserConfig) DatabasePath() (string, error) {
	if c.Chat.DatabasePath != "" {
		return c.Chat.DatabasePath, nil
	}
	return xdg.DataFile("chatdock/chat.db")
}

// HostKeyPath returns the SSH host key path, defaulting to the XDG data directory.
func (c *UserConfig) HostKeyPath() (string, error) {
	if c.Server.HostKeyPath != "" {
		return c.Server.HostKeyPath, nil
	}
	return xdg.DataFile("chatdock/host_key")
}
