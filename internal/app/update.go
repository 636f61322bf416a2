package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/config"
	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/i18n"
)

// MessageArrivedMsg carries a message pushed by the room subscription.
type MessageArrivedMsg struct {
	Message chat.Message
}

// SendResultMsg reports the outcome of a send.
type SendResultMsg struct {
	Text string
	Err  error
}

// HistoryLoadedMsg carries a history refresh.
type HistoryLoadedMsg struct {
	Messages []chat.Message
	Err      error
}

// NotificationTickMsg prunes expired notifications.
type NotificationTickMsg time.Time

// InputHandler is a function type for handling input messages.
type InputHandler func(msg tea.Msg, m *Model) (tea.Model, tea.Cmd)

// inputHandler is the registered input handler function.
// This is set by the input package to avoid circular imports.
var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called before starting the application.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Init starts listening on the room subscription and loads history.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForMessages(m.ctx, m.feed),
		HistoryCmd(m.ctx, m.Room, m.Lang),
	)
}

// ListenForMessages creates a command that waits for the next message from
// the room subscription. It returns nil once ctx is done.
func ListenForMessages(ctx context.Context, feed <-chan chat.Message) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-feed:
			if !ok {
				return nil
			}
			return MessageArrivedMsg{Message: msg}
		case <-ctx.Done():
			return nil
		}
	}
}

// SendCmd sends text through the room with a timeout.
func SendCmd(ctx context.Context, sender chat.Sender, text, lang string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, config.SendTimeout)
		defer cancel()
		return SendResultMsg{Text: text, Err: sender.Send(ctx, text, lang, nil)}
	}
}

// HistoryCmd reloads history for lang with a timeout.
func HistoryCmd(ctx context.Context, history chat.History, lang string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, config.HistoryTimeout)
		defer cancel()
		msgs, err := history.History(ctx, lang)
		return HistoryLoadedMsg{Messages: msgs, Err: err}
	}
}

// NotificationTickCmd schedules the next notification prune.
func NotificationTickCmd() tea.Cmd {
	return tea.Tick(config.NotificationTick, func(t time.Time) tea.Msg {
		return NotificationTickMsg(t)
	})
}

// Update handles all incoming messages and updates the application state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Widget.Resize(dock.Size{Width: msg.Width, Height: msg.Height})
		return m, nil

	case MessageArrivedMsg:
		cmds := []tea.Cmd{ListenForMessages(m.ctx, m.feed)}
		if m.resync.Swap(false) {
			cmds = append(cmds, HistoryCmd(m.ctx, m.Room, m.Lang))
		}
		if m.accepts(msg.Message) {
			m.Widget.AddMessage(msg.Message)
		}
		return m, tea.Batch(cmds...)

	case SendResultMsg:
		m.Widget.CompleteSend(msg.Err)
		if msg.Err != nil {
			return m, m.Notify(m.T(i18n.KeySendFailed)+": "+msg.Err.Error(), NotifyError)
		}
		return m, HistoryCmd(m.ctx, m.Room, m.Lang)

	case HistoryLoadedMsg:
		if msg.Err != nil {
			return m, m.Notify(m.T(i18n.KeyHistoryFailed)+": "+msg.Err.Error(), NotifyWarning)
		}
		m.Widget.SetMessages(msg.Messages)
		return m, nil

	case TapeStepMsg:
		return m, m.stepTape()

	case NotificationTickMsg:
		m.CleanupNotifications()
		if len(m.Notifications) == 0 {
			m.tickRunning = false
			return m, nil
		}
		return m, NotificationTickCmd()
	}

	if inputHandler != nil {
		return inputHandler(msg, m)
	}
	return m, nil
}

// Notify shows a notification and makes sure the prune tick is running.
func (m *Model) Notify(message, notifType string) tea.Cmd {
	m.ShowNotification(message, notifType, config.NotificationDuration)
	if m.tickRunning {
		return nil
	}
	m.tickRunning = true
	return NotificationTickCmd()
}

// SubmitCompose takes the compose text for sending, if there is any.
func (m *Model) SubmitCompose() tea.Cmd {
	text, ok := m.Widget.Submit()
	if !ok {
		return nil
	}
	return m.SendText(text)
}

// SendText returns the command that delivers text already accepted by
// Widget.Submit.
func (m *Model) SendText(text string) tea.Cmd {
	return SendCmd(m.ctx, m.Room, text, m.Lang)
}
