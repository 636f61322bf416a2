package widget

import (
	"strings"
	"unicode"

	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/dock"
)

// InsertText appends s to the compose field. Control characters are dropped.
func (w *Widget) InsertText(s string) {
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		w.input = append(w.input, r)
	}
}

// Backspace removes the last rune of the compose field.
func (w *Widget) Backspace() {
	if len(w.input) > 0 {
		w.input = w.input[:len(w.input)-1]
	}
}

// Input returns the compose text.
func (w *Widget) Input() string { return string(w.input) }

// SetInput replaces the compose text.
func (w *Widget) SetInput(s string) {
	w.input = w.input[:0]
	w.InsertText(s)
}

// Pending reports whether a send is in flight.
func (w *Widget) Pending() bool { return w.pending }

// Submit hands the compose text to the caller for sending. It refuses
// blank text and a second submit while one is pending. The compose field
// is kept until CompleteSend reports success.
func (w *Widget) Submit() (string, bool) {
	if w.pending {
		return "", false
	}
	text := strings.TrimSpace(string(w.input))
	if text == "" {
		return "", false
	}
	w.pending = true
	w.submitted = append(w.submitted[:0], w.input...)
	return text, true
}

// CompleteSend finishes a submit. On success the submitted text is removed
// from the compose field and anything typed since is kept; on failure the
// field stays so the user can retry.
func (w *Widget) CompleteSend(err error) {
	w.pending = false
	if err == nil {
		n := 0
		for n < len(w.input) && n < len(w.submitted) && w.input[n] == w.submitted[n] {
			n++
		}
		rest := strings.TrimLeftFunc(string(w.input[n:]), unicode.IsSpace)
		w.input = append(w.input[:0], []rune(rest)...)
	}
	w.submitted = w.submitted[:0]
}

// SetMessages replaces the message list, typically with freshly loaded
// history, and scrolls to the newest message.
func (w *Widget) SetMessages(msgs []chat.Message) {
	w.messages = w.messages[:0]
	w.seen = make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		w.append(m)
	}
	w.scroll = 0
}

// AddMessage appends a newly arrived message. Redeliveries of a known ID
// are dropped. It reports whether the message was added.
func (w *Widget) AddMessage(m chat.Message) bool {
	if !w.append(m) {
		return false
	}
	w.scroll = 0
	return true
}

func (w *Widget) append(m chat.Message) bool {
	if m.ID != "" {
		if _, dup := w.seen[m.ID]; dup {
			return false
		}
		w.seen[m.ID] = struct{}{}
	}
	w.messages = append(w.messages, m.Normalize())
	return true
}

// Messages returns the messages in arrival order.
func (w *Widget) Messages() []chat.Message {
	return append([]chat.Message(nil), w.messages...)
}

// Scroll returns how many messages back from the newest the view is.
func (w *Widget) Scroll() int { return w.scroll }

// ScrollBy moves the view delta messages toward older (positive) or newer
// (negative) messages.
func (w *Widget) ScrollBy(delta int) {
	w.scroll = min(max(w.scroll+delta, 0), max(len(w.messages)-1, 0))
}

// Wheel scrolls the message list when p is over the open popup.
func (w *Widget) Wheel(p dock.Point, delta int) bool {
	if !w.open || !p.In(w.Popup()) {
		return false
	}
	before := w.scroll
	w.ScrollBy(delta)
	return w.scroll != before
}
