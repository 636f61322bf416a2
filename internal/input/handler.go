// Package input routes keyboard and mouse messages to the chat widget.
package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/bittlabs/chatdock/internal/app"
)

// HandleInput is the input coordinator registered with app.SetInputHandler.
func HandleInput(msg tea.Msg, m *app.Model) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return HandleKeyPress(msg, m)
	case tea.PasteMsg:
		if m.Widget.Open() {
			m.Widget.InsertText(msg.Content)
		}
		return m, nil
	case tea.MouseClickMsg:
		return handleMouseClick(msg, m)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, m)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, m)
	case tea.MouseWheelMsg:
		return handleMouseWheel(msg, m)
	}
	return m, nil
}
