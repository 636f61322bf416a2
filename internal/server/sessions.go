// Package server hosts chatdock for remote clients over SSH and the web.
// Every connection gets its own widget bound to one shared room.
package server

import (
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/google/uuid"

	"github.com/bittlabs/chatdock/internal/app"
	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/config"
)

// Sessions builds per-connection models over a shared room and tracks the
// live ones so they can be unmounted on shutdown.
type Sessions struct {
	Room   *chat.Room
	Config *config.UserConfig
	Keys   *config.KeybindRegistry
	Logger *log.Logger

	mu   sync.Mutex
	live map[*app.Model]struct{}
}

// NewSessions creates a session factory. A nil cfg uses the defaults.
func NewSessions(room *chat.Room, cfg *config.UserConfig, logger *log.Logger) *Sessions {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Sessions{
		Room:   room,
		Config: cfg,
		Keys:   config.NewKeybindRegistry(cfg),
		Logger: logger,
		live:   make(map[*app.Model]struct{}),
	}
}

// Open creates a model for a new connection. An empty nickname posts as
// the anonymous author.
func (s *Sessions) Open(nickname string, width, height int) *app.Model {
	id := chat.Identity{
		ID:       uuid.NewString(),
		Nickname: nickname,
		Origin:   s.Config.Chat.Origin,
	}
	m := app.New(app.Options{
		Widget: s.Config.WidgetSettings(),
		Room:   s.Room.Client(id),
		Keys:   s.Keys,
		Lang:   s.Config.Chat.Language,
		Width:  width,
		Height: height,
		Logger: s.Logger.With("session", id.ID),
	})

	s.mu.Lock()
	s.live[m] = struct{}{}
	s.mu.Unlock()

	s.Logger.Info("session opened", "session", id.ID, "nickname", nickname, "width", width, "height", height)
	return m
}

// Release unmounts m and forgets it. The program driving m must have
// returned. Releasing twice is a no-op.
func (s *Sessions) Release(m *app.Model) {
	if s.forget(m) {
		m.Cleanup()
	}
}

// Detach unsubscribes m from the room and forgets it without touching its
// widget, so it is safe while m's program may still be running.
func (s *Sessions) Detach(m *app.Model) {
	if s.forget(m) {
		m.Detach()
	}
}

func (s *Sessions) forget(m *app.Model) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[m]
	delete(s.live, m)
	return ok
}

// Live returns the number of open sessions.
func (s *Sessions) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close detaches every open session. Programs still running at shutdown
// keep their widgets until they return.
func (s *Sessions) Close() {
	s.mu.Lock()
	models := make([]*app.Model, 0, len(s.live))
	for m := range s.live {
		models = append(models, m)
	}
	s.mu.Unlock()

	for _, m := range models {
		s.Detach(m)
	}
}

// hostOptions go after the transport's own options: the motion filter
// replaces theirs, so it keeps their suspend handling.
func hostOptions() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithFilter(filterHosted)}
}

// filterHosted turns suspend into resume, since a remote client has no
// shell to suspend to, and drops idle motion.
func filterHosted(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.SuspendMsg); ok {
		return tea.ResumeMsg{}
	}
	return app.FilterMouseMotion(model, msg)
}
