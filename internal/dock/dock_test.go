package dock

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestClassify(t *testing.T) {
	viewport := Size{Width: 800, Height: 600}
	anchor := Size{Width: 60, Height: 60}
	popup := PopupSize(viewport, 320, 0.4)
	c := Classifier{EdgeThreshold: 100}

	tests := []struct {
		name string
		pos  Point
		want Side
	}{
		{
			name: "near right edge with room below docks left",
			pos:  Point{X: viewport.Width - 50, Y: 100},
			want: Left,
		},
		{
			name: "near left edge with room below docks right",
			pos:  Point{X: 10, Y: 10},
			want: Right,
		},
		{
			name: "near bottom edge docks top",
			pos:  Point{X: 400, Y: 500},
			want: Top,
		},
		{
			name: "centered docks bottom",
			pos:  Point{X: 300, Y: 200},
			want: Bottom,
		},
		{
			name: "bottom right corner without room below docks top",
			pos:  Point{X: 740, Y: 540},
			want: Top,
		},
		{
			name: "near right edge but popup does not fit below falls to bottom",
			pos:  Point{X: 740, Y: 320},
			want: Bottom,
		},
		{
			name: "origin docks right",
			pos:  Point{X: 0, Y: 0},
			want: Right,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.pos, anchor, popup, viewport)
			if got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestClassifyScenario(t *testing.T) {
	// Anchor at (10,10) in 800x600 with a 320x240 popup: the left distance is
	// 10 and there are 530 rows below, so the popup opens to the right.
	c := Classifier{EdgeThreshold: 100}
	got := c.Classify(Point{X: 10, Y: 10}, Size{60, 60}, Size{320, 240}, Size{800, 600})
	if got != Right {
		t.Fatalf("got %v, want right", got)
	}
}

func TestClassifyNarrowViewportPrefersLeft(t *testing.T) {
	// Both horizontal edges are close: rule order makes Left win.
	c := Classifier{EdgeThreshold: 100}
	got := c.Classify(Point{X: 20, Y: 0}, Size{60, 60}, Size{320, 100}, Size{150, 600})
	if got != Left {
		t.Fatalf("got %v, want left", got)
	}
}

func TestClassifyDefaultPosition(t *testing.T) {
	viewport := Size{Width: 200, Height: 60}
	anchor := Size{Width: 6, Height: 3}
	pos := Point{X: viewport.Width - anchor.Width - 40, Y: 10}
	if got := Classify(pos, anchor, PopupSize(viewport, 36, 0.4), viewport); got != Bottom {
		t.Fatalf("got %v, want bottom", got)
	}
}

func TestClassifyImpossibleLayoutFallsBack(t *testing.T) {
	c := Classifier{EdgeThreshold: 4}
	got := c.Classify(Point{X: 4, Y: 2}, Size{6, 3}, Size{40, 100}, Size{20, 20})
	if got != Bottom {
		t.Fatalf("got %v, want bottom", got)
	}
}

func TestClampPoint(t *testing.T) {
	viewport := Size{Width: 80, Height: 24}
	element := Size{Width: 6, Height: 3}

	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"inside", Point{10, 10}, Point{10, 10}},
		{"negative", Point{-5, -1}, Point{0, 0}},
		{"past right and bottom", Point{100, 30}, Point{74, 21}},
		{"max corner", Point{74, 21}, Point{74, 21}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPoint(tt.in, element, viewport); got != tt.want {
				t.Errorf("ClampPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := ClampPoint(Point{5, 5}, Size{100, 100}, viewport); got != (Point{}) {
		t.Errorf("oversized element should pin to origin, got %v", got)
	}
}

func TestPlacement(t *testing.T) {
	anchor := uv.Rect(50, 10, 6, 3)
	popup := Size{Width: 30, Height: 12}

	tests := []struct {
		side Side
		want uv.Rectangle
	}{
		{Left, uv.Rect(19, 10, 30, 12)},
		{Right, uv.Rect(57, 10, 30, 12)},
		{Top, uv.Rect(26, -3, 30, 12)},
		{Bottom, uv.Rect(26, 14, 30, 12)},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if got := Placement(tt.side, anchor, popup, 1); got != tt.want {
				t.Errorf("Placement(%v) = %v, want %v", tt.side, got, tt.want)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []Side{Top, Bottom, Left, Right} {
		got, err := ParseSide(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSide(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Error("expected error for unknown side")
	}
}
