// Package widget is the docking chat widget: it owns the anchor position and
// the open state, feeds pointer events through the drag tracker and the
// click classifier, and keeps the popup docked on the side the edge
// classifier picks.
package widget

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/dock"
	"github.com/bittlabs/chatdock/internal/gesture"
	"github.com/bittlabs/chatdock/internal/pointer"
)

// Config holds the widget geometry and gesture tunables. All values are in
// terminal cells.
type Config struct {
	Anchor           dock.Size
	PopupWidth       int
	PopupHeightRatio float64
	// Gap separates the popup from the anchor.
	Gap int
	// Margin is the initial distance of the anchor from the bottom-right corner.
	Margin        dock.Point
	EdgeThreshold int
	DragThreshold int
	Metric        gesture.Metric
}

// DefaultConfig returns the stock geometry.
func DefaultConfig() Config {
	return Config{
		Anchor:           dock.Size{Width: 6, Height: 3},
		PopupWidth:       36,
		PopupHeightRatio: 0.4,
		Gap:              1,
		Margin:           dock.Point{X: 12, Y: 9},
		EdgeThreshold:    dock.DefaultEdgeThreshold,
		DragThreshold:    gesture.DefaultThreshold,
		Metric:           gesture.Euclidean,
	}
}

// MinPopupHeight fits the header, one body row and the input row.
const MinPopupHeight = 3

type press struct {
	active bool
	source pointer.Source
	target Target
	start  dock.Point
}

// Outcome describes what a pointer-up did.
type Outcome struct {
	// Handled is false for an up with no matching down.
	Handled bool
	Target  Target
	Gesture gesture.Result
	Toggled bool
	// Submitted is set when the send button accepted the compose text.
	Submitted bool
	Submit    string
	Emoji     string
}

// Widget is the docking widget state. It is not safe for concurrent use;
// the host drives it from a single event loop.
type Widget struct {
	cfg        Config
	classifier dock.Classifier
	tracker    *pointer.Tracker

	viewport dock.Size
	// placed is false until the anchor has had a non-empty viewport to be
	// placed in.
	placed   bool
	position dock.Point
	side     dock.Side
	open     bool

	press   press
	hovered bool

	pickerOpen bool

	input   []rune
	pending bool

	// submitted is the compose field as it was at the pending Submit.
	submitted []rune

	messages []chat.Message
	seen     map[string]struct{}
	scroll   int
}

// New creates a closed widget with the anchor placed Margin cells in from
// the bottom-right corner of the viewport. An empty viewport defers the
// placement to the first Resize. The pointer effects are run on drag start
// and end; nil means none.
func New(cfg Config, viewport dock.Size, effects pointer.Effects) *Widget {
	w := &Widget{
		cfg:        cfg,
		classifier: dock.Classifier{EdgeThreshold: cfg.EdgeThreshold},
		tracker:    pointer.New(effects),
		viewport:   viewport,
		seen:       make(map[string]struct{}),
	}
	w.place()
	return w
}

// place puts the anchor at its initial position, or at the origin while the
// viewport is still empty.
func (w *Widget) place() {
	if w.viewport.Width <= 0 || w.viewport.Height <= 0 {
		w.setPosition(dock.Point{})
		return
	}
	w.placed = true
	w.setPosition(dock.Point{
		X: w.viewport.Width - w.cfg.Anchor.Width - w.cfg.Margin.X,
		Y: w.viewport.Height - w.cfg.Anchor.Height - w.cfg.Margin.Y,
	})
}

// Config returns the widget configuration.
func (w *Widget) Config() Config { return w.cfg }

// Viewport returns the current viewport size.
func (w *Widget) Viewport() dock.Size { return w.viewport }

// Position returns the anchor's top-left corner.
func (w *Widget) Position() dock.Point { return w.position }

// Side returns the current dock side.
func (w *Widget) Side() dock.Side { return w.side }

// Open reports whether the popup is open.
func (w *Widget) Open() bool { return w.open }

// Dragging reports whether a drag session is active.
func (w *Widget) Dragging() bool { return w.tracker.Active() }

// PickerOpen reports whether the emoji picker is showing.
func (w *Widget) PickerOpen() bool { return w.pickerOpen }

// SetOpen opens or closes the popup. It is ignored during a drag.
func (w *Widget) SetOpen(open bool) {
	if w.tracker.Active() || w.open == open {
		return
	}
	w.open = open
	if open {
		w.scroll = 0
		return
	}
	w.pickerOpen = false
}

// Toggle flips the open state. It is ignored during a drag.
func (w *Widget) Toggle() bool {
	if w.tracker.Active() {
		return false
	}
	w.SetOpen(!w.open)
	return true
}

// TogglePicker shows or hides the emoji picker of the open popup.
func (w *Widget) TogglePicker() bool {
	if !w.open {
		return false
	}
	w.pickerOpen = !w.pickerOpen
	return true
}

// ClosePicker hides the emoji picker. It reports whether it was open.
func (w *Widget) ClosePicker() bool {
	was := w.pickerOpen
	w.pickerOpen = false
	return was
}

// Anchor returns the anchor rectangle.
func (w *Widget) Anchor() uv.Rectangle {
	return dock.AnchorRect(w.position, w.cfg.Anchor)
}

// PopupSize returns the popup size for the current viewport.
func (w *Widget) PopupSize() dock.Size {
	return PopupSizeFor(w.cfg, w.viewport)
}

// PopupSizeFor returns the popup size cfg gives in viewport, never shorter
// than MinPopupHeight.
func PopupSizeFor(cfg Config, viewport dock.Size) dock.Size {
	s := dock.PopupSize(viewport, cfg.PopupWidth, cfg.PopupHeightRatio)
	s.Height = max(s.Height, MinPopupHeight)
	return s
}

// Popup returns the popup rectangle docked on the current side. It is
// computed whether or not the popup is open.
func (w *Widget) Popup() uv.Rectangle {
	return dock.Placement(w.side, w.Anchor(), w.PopupSize(), w.cfg.Gap)
}

// PointerDown handles a press at p and returns the target it hit. A press
// outside the picker and its toggle closes the picker.
func (w *Widget) PointerDown(src pointer.Source, p dock.Point) Target {
	if w.press.active {
		return TargetNone
	}
	target := w.HitTest(p)
	if w.pickerOpen && target != TargetEmojiPicker && target != TargetEmojiToggle {
		w.pickerOpen = false
	}
	w.press = press{active: true, source: src, target: target, start: p}
	if target == TargetAnchor || target == TargetHeader {
		w.tracker.Down(src, p, w.position, true)
	}
	return target
}

// PointerMove applies a move during a drag. It reports whether the position
// changed; moves without an active drag are ignored.
func (w *Widget) PointerMove(p dock.Point) bool {
	pos, ok := w.tracker.Move(p, w.cfg.Anchor, w.viewport)
	if !ok || pos == w.position {
		return false
	}
	w.setPosition(pos)
	return true
}

// PointerUp ends the gesture started by the last PointerDown. A click
// activates the target the gesture started on; a drag only repositions.
func (w *Widget) PointerUp(p dock.Point) Outcome {
	if !w.press.active {
		return Outcome{}
	}
	pr := w.press
	w.press = press{}
	w.tracker.Up(p)

	out := Outcome{
		Handled: true,
		Target:  pr.target,
		Gesture: gesture.Classify(pr.start, p, w.cfg.DragThreshold, w.cfg.Metric),
	}
	if out.Gesture.IsClick {
		w.activate(pr, &out)
	}
	return out
}

func (w *Widget) activate(pr press, out *Outcome) {
	switch pr.target {
	case TargetAnchor:
		out.Toggled = w.Toggle()
	case TargetSend:
		out.Submit, out.Submitted = w.Submit()
	case TargetEmojiToggle:
		w.TogglePicker()
	case TargetEmojiPicker:
		if e, ok := w.EmojiAt(pr.start); ok {
			w.InsertText(e)
			w.pickerOpen = false
			out.Emoji = e
		}
	}
}

// Resize records a new viewport, re-clamps the anchor and re-classifies.
// The first non-empty viewport of a widget created without one places the
// anchor at its initial position instead. The open state is kept.
func (w *Widget) Resize(viewport dock.Size) {
	w.viewport = viewport
	if !w.placed && !w.tracker.Active() {
		w.place()
		return
	}
	w.setPosition(w.position)
}

// Hover records the pointer position outside of a drag. It reports whether
// the hover state changed.
func (w *Widget) Hover(p dock.Point) bool {
	h := p.In(w.Anchor())
	if h == w.hovered {
		return false
	}
	w.hovered = h
	return true
}

// Hovered reports whether the last hover position was over the anchor.
func (w *Widget) Hovered() bool { return w.hovered }

// Tooltip reports whether the anchor tooltip should show.
func (w *Widget) Tooltip() bool {
	return w.hovered && !w.open && !w.tracker.Active()
}

// Close tears down any gesture in flight and releases pointer effects.
func (w *Widget) Close() {
	w.tracker.Cancel()
	w.press = press{}
	w.hovered = false
}

func (w *Widget) setPosition(p dock.Point) {
	w.position = dock.ClampPoint(p, w.cfg.Anchor, w.viewport)
	w.side = w.classifier.Classify(w.position, w.cfg.Anchor, w.PopupSize(), w.viewport)
}
