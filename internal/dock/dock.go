// Package dock decides which side of the anchor the chat popup expands toward
// and where the popup lands once that side is chosen.
package dock

import (
	"fmt"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
)

// Side is the screen edge the popup panel visually expands toward.
type Side int

const (
	// Bottom opens the popup below the anchor. It is the fallback side.
	Bottom Side = iota
	// Top opens the popup above the anchor.
	Top
	// Left opens the popup to the left of the anchor.
	Left
	// Right opens the popup to the right of the anchor.
	Right
)

// DefaultEdgeThreshold is the distance from an edge, in cells, below which
// the classifier treats the anchor as close to that edge.
const DefaultEdgeThreshold = 8

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "bottom"
	}
}

// ParseSide converts a side name back into a Side.
func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Bottom, fmt.Errorf("unknown dock side %q", name)
}

// Point is a screen coordinate in cells.
type Point struct {
	X, Y int
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// In reports whether p lies inside r.
func (p Point) In(r uv.Rectangle) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Size is a width/height pair in cells.
type Size struct {
	Width, Height int
}

// Classifier holds the tunables of the edge proximity decision.
type Classifier struct {
	EdgeThreshold int
}

// Classify picks the dock side for an anchor at pos. Rules are evaluated in
// order and the first match wins:
//
//  1. close to the right edge with room below: Left
//  2. close to the left edge with room below: Right
//  3. close to the bottom edge: Top
//  4. otherwise: Bottom
func (c Classifier) Classify(pos Point, anchor, popup, viewport Size) Side {
	toRight := viewport.Width - (pos.X + anchor.Width)
	toLeft := pos.X
	toBottom := viewport.Height - (pos.Y + anchor.Height)
	fitsBelow := toBottom > popup.Height

	switch {
	case toRight < c.EdgeThreshold && fitsBelow:
		return Left
	case toLeft < c.EdgeThreshold && fitsBelow:
		return Right
	case toBottom < c.EdgeThreshold:
		return Top
	default:
		return Bottom
	}
}

// Classify runs the default classifier.
func Classify(pos Point, anchor, popup, viewport Size) Side {
	return Classifier{EdgeThreshold: DefaultEdgeThreshold}.Classify(pos, anchor, popup, viewport)
}

// PopupSize returns the popup dimensions for a viewport: a fixed width and a
// height proportional to the viewport height.
func PopupSize(viewport Size, width int, heightRatio float64) Size {
	h := int(float64(viewport.Height) * heightRatio)
	if h < 1 {
		h = 1
	}
	return Size{Width: width, Height: h}
}

// ClampPoint keeps an element of the given size fully inside the viewport.
// When the element does not fit, it is pinned to the origin on that axis.
func ClampPoint(p Point, element, viewport Size) Point {
	maxX := max(viewport.Width-element.Width, 0)
	maxY := max(viewport.Height-element.Height, 0)
	return Point{
		X: min(max(p.X, 0), maxX),
		Y: min(max(p.Y, 0), maxY),
	}
}

// AnchorRect returns the rectangle covered by an anchor at pos.
func AnchorRect(pos Point, anchor Size) uv.Rectangle {
	return uv.Rect(pos.X, pos.Y, anchor.Width, anchor.Height)
}

// Placement positions the popup next to the anchor for the given side.
// Left and Right align the tops; Top and Bottom align the right edges.
// The result is not clamped: a popup that cannot fit anywhere overflows.
func Placement(side Side, anchor uv.Rectangle, popup Size, gap int) uv.Rectangle {
	var x, y int
	switch side {
	case Left:
		x = anchor.Min.X - gap - popup.Width
		y = anchor.Min.Y
	case Right:
		x = anchor.Max.X + gap
		y = anchor.Min.Y
	case Top:
		x = anchor.Max.X - popup.Width
		y = anchor.Min.Y - gap - popup.Height
	default:
		x = anchor.Max.X - popup.Width
		y = anchor.Max.Y + gap
	}
	return uv.Rect(x, y, popup.Width, popup.Height)
}
