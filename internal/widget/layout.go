package widget

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/bittlabs/chatdock/internal/dock"
)

// Target is the element under a pointer.
type Target int

const (
	TargetNone Target = iota
	TargetAnchor
	TargetHeader
	TargetBody
	TargetInput
	TargetSend
	TargetEmojiToggle
	TargetEmojiPicker
)

var targetNames = [...]string{
	TargetNone:        "none",
	TargetAnchor:      "anchor",
	TargetHeader:      "header",
	TargetBody:        "body",
	TargetInput:       "input",
	TargetSend:        "send",
	TargetEmojiToggle: "emoji-toggle",
	TargetEmojiPicker: "emoji-picker",
}

func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return "unknown"
}

// Widths of the controls on the popup's input row.
const (
	EmojiToggleWidth = 3
	SendWidth        = 6
	// EmojiCellWidth is the width of one picker cell: a wide glyph and a space.
	EmojiCellWidth = 3
)

// Emojis offered by the picker.
var Emojis = []string{
	"😀", "😂", "😍", "🙂", "😢", "😮", "🤔", "👋",
	"👍", "🙏", "🎉", "🔥", "✅", "🚀", "💡", "🍕",
}

// HitTest returns the element under p. The picker covers the popup body
// when open.
func (w *Widget) HitTest(p dock.Point) Target {
	if w.pickerOpen && p.In(w.PickerRect()) {
		return TargetEmojiPicker
	}
	if p.In(w.Anchor()) {
		return TargetAnchor
	}
	if !w.open {
		return TargetNone
	}
	popup := w.Popup()
	if !p.In(popup) {
		return TargetNone
	}
	switch p.Y {
	case popup.Min.Y:
		return TargetHeader
	case popup.Max.Y - 1:
		switch {
		case p.X < popup.Min.X+EmojiToggleWidth:
			return TargetEmojiToggle
		case p.X >= popup.Max.X-SendWidth:
			return TargetSend
		default:
			return TargetInput
		}
	}
	return TargetBody
}

// BodyRect is the message area between the header and the input row.
func (w *Widget) BodyRect() uv.Rectangle {
	p := w.Popup()
	return uv.Rect(p.Min.X, p.Min.Y+1, p.Dx(), max(p.Dy()-2, 0))
}

// InputRect is the compose field between the emoji toggle and send button.
func (w *Widget) InputRect() uv.Rectangle {
	p := w.Popup()
	return uv.Rect(p.Min.X+EmojiToggleWidth, p.Max.Y-1, max(p.Dx()-EmojiToggleWidth-SendWidth, 0), 1)
}

// PickerColumns is the number of emoji per picker row.
func (w *Widget) PickerColumns() int {
	return max(w.PopupSize().Width/EmojiCellWidth, 1)
}

// PickerRect returns the emoji grid, bottom-aligned over the body.
func (w *Widget) PickerRect() uv.Rectangle {
	body := w.BodyRect()
	cols := w.PickerColumns()
	rows := min((len(Emojis)+cols-1)/cols, body.Dy())
	return uv.Rect(body.Min.X, body.Max.Y-rows, body.Dx(), rows)
}

// EmojiAt returns the picker emoji under p.
func (w *Widget) EmojiAt(p dock.Point) (string, bool) {
	r := w.PickerRect()
	if !p.In(r) {
		return "", false
	}
	col := (p.X - r.Min.X) / EmojiCellWidth
	cols := w.PickerColumns()
	if col >= cols {
		return "", false
	}
	i := (p.Y-r.Min.Y)*cols + col
	if i >= len(Emojis) {
		return "", false
	}
	return Emojis[i], true
}
