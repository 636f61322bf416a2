// Package app implements the chatdock bubbletea model: a host screen with
// the docking chat widget floating over it.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"charm.land/log/v2"
	"github.com/google/uuid"

	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/config"
	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/i18n"
	"github.com/bittlabs/chatdock/internal/tape"
	"github.com/bittlabs/chatdock/internal/widget"
)

// Room is the chat backend the model talks to.
type Room interface {
	chat.Feed
	chat.Sender
	chat.History
}

// Notification types.
const (
	NotifyError   = "error"
	NotifyWarning = "warning"
	NotifySuccess = "success"
	NotifyInfo    = "info"
)

// Notification represents a temporary notification message.
type Notification struct {
	ID        string
	Message   string
	Type      string
	StartTime time.Time
	Duration  time.Duration
}

// Options configures a Model.
type Options struct {
	Widget     widget.Config
	Room       Room
	Keys       *config.KeybindRegistry
	Translator i18n.Translator
	// Lang tags sent messages and filters history and live arrivals.
	// Empty accepts every language.
	Lang   string
	Width  int
	Height int
	Logger *log.Logger
	// Now is the clock used for notifications.
	Now func() time.Time
}

// Model is the chatdock application state.
type Model struct {
	Widget *widget.Widget
	Room   Room
	Keys   *config.KeybindRegistry
	T      i18n.Translator
	Lang   string

	Width  int
	Height int

	Notifications []Notification
	ShowHelp      bool

	Logger *log.Logger

	capture     *captureEffects
	feed        chan chat.Message
	resync      atomic.Bool
	unsubscribe func()
	detachOnce  sync.Once
	tickRunning bool
	tapeCmds    []tape.Command
	tapeIndex   int
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// captureEffects stands in for window-level move/up listeners: while a drag
// is active every motion event is let through the program filter.
type captureEffects struct {
	on atomic.Bool
}

func (c *captureEffects) Acquire() { c.on.Store(true) }
func (c *captureEffects) Release() { c.on.Store(false) }

// New creates the model and subscribes it to the room. Messages posted
// before Init are buffered.
func New(opts Options) *Model {
	if opts.Keys == nil {
		opts.Keys = config.NewKeybindRegistry(config.DefaultConfig())
	}
	if opts.Translator == nil {
		opts.Translator = i18n.Default().Translator(opts.Lang)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Room == nil {
		room, _ := chat.NewRoom(context.Background(), nil, chat.RoomOptions{Logger: opts.Logger})
		opts.Room = room.Client(chat.Identity{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	capture := &captureEffects{}
	m := &Model{
		Widget:  widget.New(opts.Widget, dock.Size{Width: opts.Width, Height: opts.Height}, capture),
		Room:    opts.Room,
		Keys:    opts.Keys,
		T:       opts.Translator,
		Lang:    opts.Lang,
		Width:   opts.Width,
		Height:  opts.Height,
		Logger:  opts.Logger.With("component", "app"),
		capture: capture,
		feed:    make(chan chat.Message, config.FeedBuffer),
		now:     opts.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
	m.Widget.SetMessages(m.filter(opts.Room.Messages()))
	m.unsubscribe = opts.Room.Subscribe(m.deliver)
	return m
}

// deliver runs on the posting goroutine. It never blocks: when the buffer
// is full the message is dropped and a history reload is requested.
func (m *Model) deliver(msg chat.Message) {
	select {
	case m.feed <- msg:
	default:
		m.resync.Store(true)
		m.Logger.Debug("feed buffer full, scheduling resync", "id", msg.ID)
	}
}

func (m *Model) filter(msgs []chat.Message) []chat.Message {
	if m.Lang == "" {
		return msgs
	}
	out := msgs[:0:0]
	for _, msg := range msgs {
		if m.accepts(msg) {
			out = append(out, msg)
		}
	}
	return out
}

func (m *Model) accepts(msg chat.Message) bool {
	return m.Lang == "" || msg.Normalize().Lang == m.Lang
}

// Capturing reports whether a drag currently holds the pointer.
func (m *Model) Capturing() bool {
	return m.capture.on.Load()
}

// WantsMotion reports whether a motion event at p should reach Update:
// during a drag, or when it changes the anchor hover state.
func (m *Model) WantsMotion(p dock.Point) bool {
	if m.Capturing() {
		return true
	}
	return p.In(m.Widget.Anchor()) != m.Widget.Hovered()
}

// ShowNotification displays a temporary notification.
func (m *Model) ShowNotification(message, notifType string, duration time.Duration) {
	m.Notifications = append(m.Notifications, Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Type:      notifType,
		StartTime: m.now(),
		Duration:  duration,
	})

	switch notifType {
	case NotifyError:
		m.Logger.Error(message)
	case NotifyWarning:
		m.Logger.Warn(message)
	default:
		m.Logger.Info(message)
	}
}

// CleanupNotifications removes expired notifications.
func (m *Model) CleanupNotifications() {
	now := m.now()
	var active []Notification
	for _, notif := range m.Notifications {
		if now.Sub(notif.StartTime) < notif.Duration {
			active = append(active, notif)
		}
	}
	m.Notifications = active
}

// Cleanup unmounts the widget: any drag in flight is cancelled and its
// pointer capture released, the room subscription is dropped and pending
// commands are cancelled. It writes widget state, so it must run on the
// event loop or after the program has returned. It is safe to call more
// than once.
func (m *Model) Cleanup() {
	m.Widget.Close()
	m.Detach()
}

// Detach drops the room subscription, cancels pending commands and lets
// the program filter drop motion again. It leaves the widget alone and may
// be called from any goroutine, also while the program is running.
func (m *Model) Detach() {
	m.detachOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		m.cancel()
	})
	m.capture.Release()
}
