package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/bittlabs/chatdock/internal/app"
	"github.com/bittlabs/chatdock/internal/config"
)

// HandleKeyPress resolves the key through the keybinding registry. Keys
// without an action are typed into the compose field while the popup is
// open.
func HandleKeyPress(msg tea.KeyPressMsg, m *app.Model) (*app.Model, tea.Cmd) {
	key := msg.String()
	action := m.Keys.GetAction(key)

	if action == config.ActionQuit {
		m.Cleanup()
		return m, tea.Quit
	}

	if m.ShowHelp {
		if action == config.ActionToggleHelp || action == config.ActionClose {
			m.ShowHelp = false
		}
		return m, nil
	}

	switch action {
	case config.ActionToggleHelp:
		m.ShowHelp = true
		return m, nil
	case config.ActionToggleChat:
		m.Widget.Toggle()
		return m, nil
	case config.ActionClose:
		if !m.Widget.ClosePicker() {
			m.Widget.SetOpen(false)
		}
		return m, nil
	}

	if !m.Widget.Open() {
		return m, nil
	}

	switch action {
	case config.ActionSend:
		return m, m.SubmitCompose()
	case config.ActionToggleEmoji:
		m.Widget.TogglePicker()
		return m, nil
	case config.ActionScrollUp:
		m.Widget.ScrollBy(1)
		return m, nil
	case config.ActionScrollDown:
		m.Widget.ScrollBy(-1)
		return m, nil
	}

	if key == "backspace" {
		m.Widget.Backspace()
		return m, nil
	}
	if msg.Text != "" && msg.Mod&^tea.ModShift == 0 {
		m.Widget.InsertText(msg.Text)
	}
	return m, nil
}
