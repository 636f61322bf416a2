// Package pointer turns pointer-down/move/up events from mouse or touch into
// a continuous, clamped position for a draggable element.
package pointer

import "github.com/bittlabs/chatdock/internal/dock"

// Source identifies where a pointer event came from. Both sources drive the
// same state machine.
type Source int

const (
	// Mouse events.
	Mouse Source = iota
	// Touch events.
	Touch
)

func (s Source) String() string {
	if s == Touch {
		return "touch"
	}
	return "mouse"
}

// State of the tracker.
type State int

const (
	// Idle means no drag is in progress.
	Idle State = iota
	// Dragging means a session is active.
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Effects are run when the tracker enters and leaves the Dragging state.
// Acquire attaches the move/up listeners and locks text selection; Release
// undoes both. Each session calls Acquire once and Release once.
type Effects interface {
	Acquire()
	Release()
}

// NopEffects does nothing.
type NopEffects struct{}

// Acquire implements Effects.
func (NopEffects) Acquire() {}

// Release implements Effects.
func (NopEffects) Release() {}

// Session records one drag gesture. Start is where the pointer went down and
// Origin is the pointer offset from the element's top-left corner.
type Session struct {
	Source Source
	Start  dock.Point
	Origin dock.Point
}

// Tracker owns the drag session. The zero value is not usable; call New.
type Tracker struct {
	state   State
	session Session
	effects Effects
}

// New returns an idle tracker. A nil effects value is replaced with NopEffects.
func New(effects Effects) *Tracker {
	if effects == nil {
		effects = NopEffects{}
	}
	return &Tracker{effects: effects}
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Active reports whether a drag session is in progress.
func (t *Tracker) Active() bool { return t.state == Dragging }

// Session returns a copy of the current session. It is meaningful only
// while Active.
func (t *Tracker) Session() Session { return t.session }

// Down starts a session when the pointer lands on a draggable target.
// It returns false when the event did not start a session, either because
// the target is not draggable or because a session is already running.
func (t *Tracker) Down(src Source, p, topLeft dock.Point, draggable bool) bool {
	if !draggable || t.state == Dragging {
		return false
	}
	t.session = Session{
		Source: src,
		Start:  p,
		Origin: p.Sub(topLeft),
	}
	t.enter()
	return true
}

// Move computes the element's new top-left for pointer p, clamped to the
// viewport. It returns false for a move without an active session; the
// caller must leave the element where it is.
func (t *Tracker) Move(p dock.Point, element, viewport dock.Size) (dock.Point, bool) {
	if t.state != Dragging {
		return dock.Point{}, false
	}
	return dock.ClampPoint(p.Sub(t.session.Origin), element, viewport), true
}

// Up ends the session and returns it. It returns false for an up with no
// matching down.
func (t *Tracker) Up(dock.Point) (Session, bool) {
	if t.state != Dragging {
		return Session{}, false
	}
	s := t.session
	t.exit()
	return s, true
}

// Cancel drops the session without reporting it. Used when the host tears
// the widget down mid-drag.
func (t *Tracker) Cancel() {
	if t.state == Dragging {
		t.exit()
	}
}

func (t *Tracker) enter() {
	t.state = Dragging
	t.effects.Acquire()
}

func (t *Tracker) exit() {
	t.state = Idle
	t.session = Session{}
	t.effects.Release()
}
