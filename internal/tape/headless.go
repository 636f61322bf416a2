package tape

import (
	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/pointer"
	"github.com/bittlabs/chatdock/internal/widget"
)

// WidgetExecutor drives a widget directly, with no terminal or program.
// Sends succeed unless SendFunc says otherwise.
type WidgetExecutor struct {
	Widget *widget.Widget
	// SendFunc is called with each submitted text. Nil accepts everything.
	SendFunc func(text string) error
	// Sent records every text handed to SendFunc.
	Sent []string
}

// NewWidgetExecutor creates a headless executor over a fresh widget.
func NewWidgetExecutor(cfg widget.Config, viewport dock.Size) *WidgetExecutor {
	return &WidgetExecutor{Widget: widget.New(cfg, viewport, nil)}
}

func (h *WidgetExecutor) Resize(width, height int) error {
	h.Widget.Resize(dock.Size{Width: width, Height: height})
	return nil
}

func (h *WidgetExecutor) PointerDown(src pointer.Source, p dock.Point) error {
	h.Widget.PointerDown(src, p)
	return nil
}

func (h *WidgetExecutor) PointerMove(p dock.Point) error {
	h.Widget.PointerMove(p)
	h.Widget.Hover(p)
	return nil
}

func (h *WidgetExecutor) PointerUp(p dock.Point) error {
	out := h.Widget.PointerUp(p)
	if out.Submitted {
		h.send(out.Submit)
	}
	return nil
}

func (h *WidgetExecutor) Wheel(p dock.Point, delta int) error {
	h.Widget.Wheel(p, delta)
	return nil
}

func (h *WidgetExecutor) Type(text string) error {
	if h.Widget.Open() {
		h.Widget.InsertText(text)
	}
	return nil
}

func (h *WidgetExecutor) Enter() error {
	if !h.Widget.Open() {
		return nil
	}
	if text, ok := h.Widget.Submit(); ok {
		h.send(text)
	}
	return nil
}

func (h *WidgetExecutor) Backspace() error {
	h.Widget.Backspace()
	return nil
}

func (h *WidgetExecutor) Escape() error {
	if !h.Widget.ClosePicker() {
		h.Widget.SetOpen(false)
	}
	return nil
}

func (h *WidgetExecutor) State() State {
	return StateOf(h.Widget)
}

// StateOf snapshots the checked fields of w.
func StateOf(w *widget.Widget) State {
	return State{
		Open:     w.Open(),
		Side:     w.Side(),
		Position: w.Position(),
		Picker:   w.PickerOpen(),
		Input:    w.Input(),
	}
}

func (h *WidgetExecutor) send(text string) {
	h.Sent = append(h.Sent, text)
	var err error
	if h.SendFunc != nil {
		err = h.SendFunc(text)
	}
	h.Widget.CompleteSend(err)
}

var _ Executor = (*WidgetExecutor)(nil)
