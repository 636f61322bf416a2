package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/bittlabs/chatdock/internal/dock"
)

// FilterMouseMotion drops motion events that cannot change anything: they
// only reach Update while a drag holds the pointer or when they cross the
// anchor edge. Use it with tea.WithFilter.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	motion, ok := msg.(tea.MouseMotionMsg)
	if !ok {
		return msg
	}

	m, ok := model.(*Model)
	if !ok {
		return msg
	}

	mouse := motion.Mouse()
	if m.WantsMotion(dock.Point{X: mouse.X, Y: mouse.Y}) {
		return msg
	}
	return nil
}

// ProgramOptions returns the program options a chatdock model expects.
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithFilter(FilterMouseMotion),
	}
}
