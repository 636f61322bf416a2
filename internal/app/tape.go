package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/pointer"
	"github.com/bittlabs/chatdock/internal/tape"
)

// TapeStepMsg advances a playing tape.
type TapeStepMsg struct{}

// TapeDelay is the pause between tape commands during playback.
const TapeDelay = 150 * time.Millisecond

// tapeExecutor applies tape commands to the live model. Commands produced
// along the way (sends) are collected and returned with the step.
type tapeExecutor struct {
	m    *Model
	cmds []tea.Cmd
}

func (e *tapeExecutor) Resize(width, height int) error {
	_, cmd := e.m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	e.cmds = append(e.cmds, cmd)
	return nil
}

func (e *tapeExecutor) PointerDown(src pointer.Source, p dock.Point) error {
	e.m.Widget.PointerDown(src, p)
	return nil
}

func (e *tapeExecutor) PointerMove(p dock.Point) error {
	e.m.Widget.PointerMove(p)
	e.m.Widget.Hover(p)
	return nil
}

func (e *tapeExecutor) PointerUp(p dock.Point) error {
	if out := e.m.Widget.PointerUp(p); out.Submitted {
		e.cmds = append(e.cmds, e.m.SendText(out.Submit))
	}
	return nil
}

func (e *tapeExecutor) Wheel(p dock.Point, delta int) error {
	e.m.Widget.Wheel(p, delta)
	return nil
}

func (e *tapeExecutor) Type(text string) error {
	if e.m.Widget.Open() {
		e.m.Widget.InsertText(text)
	}
	return nil
}

func (e *tapeExecutor) Enter() error {
	if e.m.Widget.Open() {
		e.cmds = append(e.cmds, e.m.SubmitCompose())
	}
	return nil
}

func (e *tapeExecutor) Backspace() error {
	e.m.Widget.Backspace()
	return nil
}

func (e *tapeExecutor) Escape() error {
	if !e.m.Widget.ClosePicker() {
		e.m.Widget.SetOpen(false)
	}
	return nil
}

func (e *tapeExecutor) State() tape.State {
	return tape.StateOf(e.m.Widget)
}

// PlayTape starts playing cmds inside the program loop, one command per
// step with Sleep honored.
func (m *Model) PlayTape(cmds []tape.Command) tea.Cmd {
	m.tapeCmds = cmds
	m.tapeIndex = 0
	return stepAfter(0)
}

// TapePlaying reports whether a tape is in progress.
func (m *Model) TapePlaying() bool {
	return m.tapeIndex < len(m.tapeCmds)
}

func stepAfter(d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return TapeStepMsg{} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return TapeStepMsg{} })
}

func (m *Model) stepTape() tea.Cmd {
	if m.tapeCmds == nil {
		return nil
	}
	if !m.TapePlaying() {
		m.tapeCmds, m.tapeIndex = nil, 0
		return m.Notify("tape finished", NotifySuccess)
	}
	cmd := m.tapeCmds[m.tapeIndex]
	m.tapeIndex++

	if cmd.Type == tape.CommandTypeSleep {
		return stepAfter(cmd.Duration)
	}

	exec := &tapeExecutor{m: m}
	if err := tape.NewCommandExecutor(exec).Execute(&cmd); err != nil {
		m.tapeCmds, m.tapeIndex = nil, 0
		exec.cmds = append(exec.cmds, m.Notify(fmt.Sprintf("tape line %d: %v", cmd.Line, err), NotifyError))
		return tea.Batch(exec.cmds...)
	}
	exec.cmds = append(exec.cmds, stepAfter(TapeDelay))
	return tea.Batch(exec.cmds...)
}

var _ tape.Executor = (*tapeExecutor)(nil)
