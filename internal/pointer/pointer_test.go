package pointer

import (
	"testing"

	"github.com/bittlabs/chatdock/internal/dock"
)

type countingEffects struct {
	acquired int
	released int
}

func (c *countingEffects) Acquire() { c.acquired++ }
func (c *countingEffects) Release() { c.released++ }

func (c *countingEffects) held() bool { return c.acquired > c.released }

var (
	element  = dock.Size{Width: 6, Height: 3}
	viewport = dock.Size{Width: 80, Height: 24}
)

func TestDragLifecycle(t *testing.T) {
	fx := &countingEffects{}
	tr := New(fx)

	if !tr.Down(Mouse, dock.Point{X: 12, Y: 11}, dock.Point{X: 10, Y: 10}, true) {
		t.Fatal("Down on a draggable target should start a session")
	}
	if !tr.Active() || !fx.held() {
		t.Fatal("expected active session with effects held")
	}
	if got := tr.Session().Origin; got != (dock.Point{X: 2, Y: 1}) {
		t.Fatalf("origin offset = %v, want {2 1}", got)
	}

	pos, ok := tr.Move(dock.Point{X: 32, Y: 16}, element, viewport)
	if !ok || pos != (dock.Point{X: 30, Y: 15}) {
		t.Fatalf("Move = %v, %v; want {30 15}, true", pos, ok)
	}

	s, ok := tr.Up(dock.Point{X: 32, Y: 16})
	if !ok || s.Start != (dock.Point{X: 12, Y: 11}) {
		t.Fatalf("Up = %+v, %v", s, ok)
	}
	if tr.Active() || fx.held() {
		t.Fatal("session and effects should be released after Up")
	}
	if fx.acquired != 1 || fx.released != 1 {
		t.Fatalf("effects acquired %d released %d, want 1/1", fx.acquired, fx.released)
	}
}

func TestMoveIsClamped(t *testing.T) {
	tr := New(nil)
	tr.Down(Touch, dock.Point{X: 1, Y: 1}, dock.Point{X: 0, Y: 0}, true)

	points := []dock.Point{
		{X: -50, Y: -50}, {X: 500, Y: 3}, {X: 40, Y: 900}, {X: 79, Y: 23}, {X: 3, Y: 2},
	}
	for _, p := range points {
		pos, ok := tr.Move(p, element, viewport)
		if !ok {
			t.Fatalf("Move(%v) rejected during active session", p)
		}
		if pos.X < 0 || pos.X > viewport.Width-element.Width || pos.Y < 0 || pos.Y > viewport.Height-element.Height {
			t.Errorf("Move(%v) = %v escapes bounds", p, pos)
		}
	}
}

func TestStrayEventsAreIgnored(t *testing.T) {
	fx := &countingEffects{}
	tr := New(fx)

	if _, ok := tr.Move(dock.Point{X: 5, Y: 5}, element, viewport); ok {
		t.Error("move without down must be ignored")
	}
	if _, ok := tr.Up(dock.Point{X: 5, Y: 5}); ok {
		t.Error("up without down must be ignored")
	}
	if tr.Down(Mouse, dock.Point{X: 5, Y: 5}, dock.Point{}, false) {
		t.Error("down on a non-draggable target must not start a session")
	}
	if fx.acquired != 0 || fx.released != 0 {
		t.Errorf("no effects expected, got %d/%d", fx.acquired, fx.released)
	}
}

func TestSecondDownDoesNotRestart(t *testing.T) {
	fx := &countingEffects{}
	tr := New(fx)
	tr.Down(Mouse, dock.Point{X: 5, Y: 5}, dock.Point{X: 4, Y: 4}, true)
	if tr.Down(Touch, dock.Point{X: 9, Y: 9}, dock.Point{X: 4, Y: 4}, true) {
		t.Fatal("second Down during a session must be ignored")
	}
	if tr.Session().Source != Mouse || fx.acquired != 1 {
		t.Fatalf("session replaced: %+v, acquired %d", tr.Session(), fx.acquired)
	}
}

func TestCancelReleases(t *testing.T) {
	fx := &countingEffects{}
	tr := New(fx)
	tr.Cancel()
	if fx.released != 0 {
		t.Fatal("Cancel while idle must not release")
	}
	tr.Down(Mouse, dock.Point{X: 5, Y: 5}, dock.Point{X: 4, Y: 4}, true)
	tr.Cancel()
	if tr.Active() || fx.held() {
		t.Fatal("Cancel must end the session and release effects")
	}
	for i := 0; i < 3; i++ {
		tr.Down(Mouse, dock.Point{X: 5, Y: 5}, dock.Point{X: 4, Y: 4}, true)
		tr.Up(dock.Point{X: 5, Y: 5})
	}
	if fx.acquired != 4 || fx.released != 4 {
		t.Fatalf("acquire/release mismatch: %d/%d", fx.acquired, fx.released)
	}
}
