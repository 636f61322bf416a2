// Package chatdock provides a draggable, edge-docking chat widget that can
// be embedded in other Bubble Tea applications or run as a standalone TUI.
//
// # Basic Usage
//
// Create a widget bound to a fresh in-memory room:
//
//	model := chatdock.New(chatdock.WithNickname("alice"))
//	p := tea.NewProgram(model, chatdock.ProgramOptions()...)
//	if _, err := p.Run(); err != nil {
//		log.Fatal(err)
//	}
//	model.Cleanup()
//
// # Sharing a Room
//
// Every widget attached to the same room sees the same ordered messages:
//
//	room, _ := chatdock.NewRoom()
//	a := chatdock.New(chatdock.WithRoom(room), chatdock.WithNickname("alice"))
//	b := chatdock.New(chatdock.WithRoom(room), chatdock.WithNickname("bob"))
//
// # Using with sip (Web Terminal)
//
//	server := sip.NewServer(sip.DefaultConfig())
//	server.Serve(ctx, func(sess sip.Session) (tea.Model, []tea.ProgramOption) {
//		pty := sess.Pty()
//		m := chatdock.New(chatdock.WithRoom(room), chatdock.WithSize(pty.Width, pty.Height))
//		return m, chatdock.ProgramOptions()
//	})
//
// Without a size the anchor is placed on the first tea.WindowSizeMsg.
package chatdock

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/bittlabs/chatdock/internal/app"
	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/config"
	"github.com/bittlabs/chatdock/internal/input"
	"github.com/bittlabs/chatdock/internal/theme"
)

// Model is the chatdock model that implements tea.Model.
type Model = app.Model

// Room is a shared chat room.
type Room = chat.Room

// Message is a single chat line.
type Message = chat.Message

// NewRoom opens an in-memory room.
func NewRoom() (*Room, error) {
	return chat.NewRoom(context.Background(), nil, chat.RoomOptions{})
}

// OpenRoom opens a room persisted in the SQLite database at path.
func OpenRoom(path string) (*Room, error) {
	store, err := chat.OpenSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	room, err := chat.NewRoom(context.Background(), store, chat.RoomOptions{})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return room, nil
}

// Options configures a chatdock instance.
type Options struct {
	// Theme is the color theme name (e.g., "dracula", "nord").
	// Empty uses standard terminal colors.
	Theme string

	// ASCIIOnly uses ASCII glyphs instead of emoji and box drawing.
	ASCIIOnly bool

	// Nickname is the author name for sent messages.
	Nickname string

	// Language tags sent messages and filters history.
	Language string

	// Room is the room to join. If nil, a private in-memory room is used.
	Room *Room

	// Width is the initial width (set automatically if 0).
	Width int

	// Height is the initial height (set automatically if 0).
	Height int

	// UserConfig is a custom user configuration. If nil, defaults are used.
	UserConfig *config.UserConfig
}

// Option is a functional option for configuring chatdock.
type Option func(*Options)

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Theme = name
	}
}

// WithASCIIOnly enables ASCII-only glyphs.
func WithASCIIOnly(enabled bool) Option {
	return func(o *Options) {
		o.ASCIIOnly = enabled
	}
}

// WithNickname sets the author name.
func WithNickname(name string) Option {
	return func(o *Options) {
		o.Nickname = name
	}
}

// WithLanguage sets the message language.
func WithLanguage(lang string) Option {
	return func(o *Options) {
		o.Language = lang
	}
}

// WithRoom joins an existing room.
func WithRoom(room *Room) Option {
	return func(o *Options) {
		o.Room = room
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(o *Options) {
		o.UserConfig = cfg
	}
}

// New creates a chatdock model with the given options.
func New(opts ...Option) *Model {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	return newModel(options)
}

// PTY reports a terminal size.
type PTY interface {
	Width() int
	Height() int
}

// NewForPTY creates a model sized for a PTY session.
func NewForPTY(pty PTY, opts ...Option) *Model {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	options.Width = pty.Width()
	options.Height = pty.Height()
	return newModel(options)
}

func newModel(options Options) *Model {
	app.SetInputHandler(input.HandleInput)

	userConfig := options.UserConfig
	if userConfig == nil {
		userConfig = config.DefaultConfig()
	}
	config.FillMissing(userConfig)
	if options.ASCIIOnly {
		config.UseASCIIOnly = true
	}
	if options.Theme != "" {
		_ = theme.Initialize(options.Theme)
	}

	nickname := userConfig.Chat.Nickname
	if options.Nickname != "" {
		nickname = options.Nickname
	}
	lang := userConfig.Chat.Language
	if options.Language != "" {
		lang = options.Language
	}

	room := options.Room
	if room == nil {
		// an in-memory room with no store cannot fail to open
		room, _ = NewRoom()
	}

	return app.New(app.Options{
		Widget: userConfig.WidgetSettings(),
		Room:   room.Client(chat.Identity{Nickname: nickname, Origin: userConfig.Chat.Origin}),
		Keys:   config.NewKeybindRegistry(userConfig),
		Lang:   lang,
		Width:  options.Width,
		Height: options.Height,
	})
}

// ProgramOptions returns recommended tea.ProgramOption values for running
// chatdock:
//
//	p := tea.NewProgram(model, chatdock.ProgramOptions()...)
func ProgramOptions() []tea.ProgramOption {
	return app.ProgramOptions()
}

// FilterMouseMotion is a tea.WithFilter function that drops mouse motion
// unless a drag is in progress or the pointer crosses the anchor.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	return app.FilterMouseMotion(model, msg)
}

// Config re-exports the config package for customization.
var Config = struct {
	// LoadUserConfig loads the user's configuration file.
	LoadUserConfig func() (*config.UserConfig, error)
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.UserConfig
	// GetConfigPath returns the path to the configuration file.
	GetConfigPath func() (string, error)
}{
	LoadUserConfig: config.LoadUserConfig,
	DefaultConfig:  config.DefaultConfig,
	GetConfigPath:  config.GetConfigPath,
}
