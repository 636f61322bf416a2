package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/bittlabs/chatdock/internal/app"
	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/pointer"
)

func point(mouse tea.Mouse) dock.Point {
	return dock.Point{X: mouse.X, Y: mouse.Y}
}

func handleMouseClick(msg tea.MouseClickMsg, m *app.Model) (*app.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return m, nil
	}
	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}
	m.Widget.PointerDown(pointer.Mouse, point(mouse))
	return m, nil
}

func handleMouseMotion(msg tea.MouseMotionMsg, m *app.Model) (*app.Model, tea.Cmd) {
	p := point(msg.Mouse())
	m.Widget.PointerMove(p)
	m.Widget.Hover(p)
	return m, nil
}

func handleMouseRelease(msg tea.MouseReleaseMsg, m *app.Model) (*app.Model, tea.Cmd) {
	p := point(msg.Mouse())
	out := m.Widget.PointerUp(p)
	if !out.Handled {
		m.Logger.Debug("pointer up without a press", "x", p.X, "y", p.Y)
		return m, nil
	}
	m.Widget.Hover(p)
	if out.Submitted {
		return m, m.SendText(out.Submit)
	}
	return m, nil
}

func handleMouseWheel(msg tea.MouseWheelMsg, m *app.Model) (*app.Model, tea.Cmd) {
	mouse := msg.Mouse()
	delta := 0
	switch mouse.Button {
	case tea.MouseWheelUp:
		delta = 1
	case tea.MouseWheelDown:
		delta = -1
	default:
		return m, nil
	}
	m.Widget.Wheel(point(mouse), delta)
	return m, nil
}
